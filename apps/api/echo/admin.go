package echoapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/praveshhq/pravesh/core"
	"github.com/praveshhq/pravesh/core/degreeform"
	"github.com/praveshhq/pravesh/core/submission"
	"github.com/praveshhq/pravesh/core/user"
)

type adminApi struct {
	conf     *core.Config
	userSvc  *user.Service
	formSvc  *degreeform.Service
	subSvc   *submission.Service
	exporter core.TabularExporter
}

func registerAdminAPI(
	g *echo.Group,
	access, admin echo.MiddlewareFunc,
	conf *core.Config,
	userSvc *user.Service,
	formSvc *degreeform.Service,
	subSvc *submission.Service,
	exporter core.TabularExporter,
) {
	api := adminApi{conf: conf, userSvc: userSvc, formSvc: formSvc, subSvc: subSvc, exporter: exporter}

	ag := g.Group("/admin", access, admin)
	ag.PATCH("/grant-admin", api.grantAdmin)
	ag.POST("/degree-forms", api.createForm)
	ag.PUT("/degree-forms/:id", api.updateForm)
	ag.DELETE("/degree-forms/:id", api.deleteForm)
	ag.GET("/submissions/:degreeFormID", api.rankedSubmissions)
	ag.GET("/submissions/:degreeFormID/export", api.exportSubmissions)
}

func (api *adminApi) grantAdmin(ctx echo.Context) error {
	var data user.GrantAdmin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GrantAdmin")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.userSvc.GrantAdmin(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "granting admin access")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *adminApi) createForm(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data degreeform.NewDegreeForm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDegreeForm")
	}

	form, err := api.formSvc.Create(ctx.Request().Context(), claims.UserID, data)
	if err != nil {
		return errors.Wrap(err, "creating degree form")
	}
	return ctx.JSON(http.StatusCreated, form)
}

func (api *adminApi) updateForm(ctx echo.Context) error {
	var data degreeform.NewDegreeForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDegreeForm")
	}

	form, err := api.formSvc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating degree form")
	}
	return ctx.JSON(http.StatusOK, form)
}

func (api *adminApi) deleteForm(ctx echo.Context) error {
	if err := api.formSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting degree form")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) rank(ctx echo.Context) ([]submission.RankedSubmission, int, error) {
	var branches []string
	if raw := ctx.QueryParam("branches"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.ToUpper(core.CleanString(b)); b != "" {
				branches = append(branches, b)
			}
		}
	}
	var limit int
	if raw := ctx.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			err = errors.New("limit must be a non-negative integer")
			return nil, 0, core.NewValidationError(err, core.FieldError{Field: "limit", Error: err.Error()})
		}
		limit = n
	}

	ranked, err := api.subSvc.Rank(ctx.Request().Context(), ctx.Param("degreeFormID"), branches, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ranking submissions")
	}
	return ranked, limit, nil
}

func (api *adminApi) rankedSubmissions(ctx echo.Context) error {
	ranked, _, err := api.rank(ctx)
	if err != nil {
		return err
	}
	if ranked == nil {
		ranked = []submission.RankedSubmission{}
	}
	return ctx.JSON(http.StatusOK, ranked)
}

func (api *adminApi) exportSubmissions(ctx echo.Context) error {
	ranked, limit, err := api.rank(ctx)
	if err != nil {
		return err
	}

	form, err := api.formSvc.Get(ctx.Request().Context(), ctx.Param("degreeFormID"))
	if err != nil {
		return errors.Wrap(err, "getting degree form")
	}
	requester, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}

	title := form.Title + "_" + strconv.Itoa(limit)
	rows := submission.ExportRows(ranked, api.conf.CivilTZ())
	buf, err := api.exporter.Render(submission.SubmissionColumns, rows, title, requester.Name)
	if err != nil {
		return errors.Wrap(err, "rendering spreadsheet")
	}

	filename := strings.ReplaceAll(title, " ", "_") + ".xlsx"
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+filename)
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
