package echoapi

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/praveshhq/pravesh/core"
	"github.com/praveshhq/pravesh/core/submission"
	"github.com/praveshhq/pravesh/core/user"
)

// detailsField is the multipart field carrying the JSON detail blocks.
const detailsField = "jsonData"

type submissionApi struct {
	conf    *core.Config
	userSvc *user.Service
	subSvc  *submission.Service
}

func registerSubmissionAPI(
	g *echo.Group,
	access echo.MiddlewareFunc,
	conf *core.Config,
	userSvc *user.Service,
	subSvc *submission.Service,
) {
	api := submissionApi{conf: conf, userSvc: userSvc, subSvc: subSvc}

	sg := g.Group("/submissions", access)
	sg.POST("/:degreeFormID", api.submit)
	sg.GET("", api.listOwn)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id/details", api.updateDetails)
	sg.PATCH("/:id/documents", api.updateDocuments)
}

func (api *submissionApi) submit(ctx echo.Context) error {
	requester, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}

	det, err := bindDetails(ctx)
	if err != nil {
		return err
	}
	uploads, err := api.saveUploads(ctx)
	if err != nil {
		return err
	}

	sub, err := api.subSvc.Submit(ctx.Request().Context(), requester, ctx.Param("degreeFormID"), det, uploads)
	if err != nil {
		discardUploads(uploads)
		return errors.Wrap(err, "submitting application")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *submissionApi) listOwn(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	subs, err := api.subSvc.ListForUser(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return errors.Wrap(err, "listing submissions")
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) retrieve(ctx echo.Context) error {
	requester, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	sub, err := api.subSvc.GetOwned(ctx.Request().Context(), requester, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) updateDetails(ctx echo.Context) error {
	requester, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}

	var det submission.Details
	if err = ctx.Bind(&det); err != nil {
		return errors.Wrap(err, "binding to Details")
	}

	sub, err := api.subSvc.UpdateDetails(ctx.Request().Context(), requester, ctx.Param("id"), det)
	if err != nil {
		return errors.Wrap(err, "updating submission details")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) updateDocuments(ctx echo.Context) error {
	requester, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}

	uploads, err := api.saveUploads(ctx)
	if err != nil {
		return err
	}

	sub, err := api.subSvc.UpdateDocuments(ctx.Request().Context(), requester, ctx.Param("id"), uploads)
	if err != nil {
		discardUploads(uploads)
		return errors.Wrap(err, "updating submission documents")
	}
	return ctx.JSON(http.StatusOK, sub)
}

// bindDetails decodes the JSON detail blocks out of the multipart payload.
func bindDetails(ctx echo.Context) (submission.Details, error) {
	var det submission.Details
	raw := ctx.FormValue(detailsField)
	if raw == "" {
		err := errors.New("missing " + detailsField + " field")
		return det, core.NewValidationError(err, core.FieldError{Field: detailsField, Error: err.Error()})
	}
	if err := json.Unmarshal([]byte(raw), &det); err != nil {
		return det, core.NewValidationError(errors.Wrap(err, "malformed "+detailsField),
			core.FieldError{Field: detailsField, Error: "malformed JSON"})
	}
	return det, nil
}

// saveUploads spools each known slot's file part to a temp file. Slots
// without a part are skipped; requiredness is enforced by the service.
func (api *submissionApi) saveUploads(ctx echo.Context) ([]submission.DocumentUpload, error) {
	uploads := make([]submission.DocumentUpload, 0, len(submission.DocumentSlots))
	for _, ds := range submission.DocumentSlots {
		fh, err := ctx.FormFile(ds.Slot)
		if err != nil {
			continue
		}
		path, err := spoolTempFile(fh, api.conf.WorkDir)
		if err != nil {
			discardUploads(uploads)
			return nil, errors.Wrap(err, "spooling "+ds.Slot)
		}
		uploads = append(uploads, submission.DocumentUpload{Slot: ds.Slot, LocalPath: path, Required: ds.Required})
	}
	return uploads, nil
}

func spoolTempFile(fh *multipart.FileHeader, dir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.CreateTemp(dir, "upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", err
	}
	defer func() { _ = dst.Close() }()

	if _, err = io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

// discardUploads removes temp files that never reached the file store. Files
// the store already consumed are gone; removal errors are ignored.
func discardUploads(uploads []submission.DocumentUpload) {
	for _, up := range uploads {
		_ = os.Remove(up.LocalPath)
	}
}
