package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/praveshhq/pravesh/core/degreeform"
	"github.com/praveshhq/pravesh/core/submission"
	"github.com/praveshhq/pravesh/core/user"
)

type degreeFormApi struct {
	userSvc *user.Service
	formSvc *degreeform.Service
	subSvc  *submission.Service
}

func registerDegreeFormAPI(
	g *echo.Group,
	access echo.MiddlewareFunc,
	userSvc *user.Service,
	formSvc *degreeform.Service,
	subSvc *submission.Service,
) {
	api := degreeFormApi{userSvc: userSvc, formSvc: formSvc, subSvc: subSvc}

	dg := g.Group("/degree-forms", access)
	dg.GET("", api.list)
	dg.GET("/:id", api.retrieve)
}

func (api *degreeFormApi) list(ctx echo.Context) error {
	forms, err := api.formSvc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing degree forms")
	}
	if forms == nil {
		forms = []degreeform.DegreeForm{}
	}
	return ctx.JSON(http.StatusOK, forms)
}

// retrieve hands admins the raw form; applicants only get it while it is
// open to them (active window, nothing submitted yet).
func (api *degreeFormApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if claims.Role == user.RoleAdmin {
		form, err := api.formSvc.Get(reqCtx, ctx.Param("id"))
		if err != nil {
			return errors.Wrap(err, "getting degree form")
		}
		return ctx.JSON(http.StatusOK, form)
	}

	form, err := api.subSvc.EligibleForm(reqCtx, claims.UserID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking form eligibility")
	}
	return ctx.JSON(http.StatusOK, form)
}
