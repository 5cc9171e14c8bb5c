package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/praveshhq/pravesh/core"
	"github.com/praveshhq/pravesh/core/degreeform"
	"github.com/praveshhq/pravesh/core/submission"
	"github.com/praveshhq/pravesh/core/user"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
)

type errorResponse struct {
	Kind  string      `json:"kind"`
	Error interface{} `json:"error"`
}

// sentinelStatus maps domain errors to an HTTP status and a machine-readable
// kind. Unlisted errors are server errors.
func sentinelStatus(err error) (int, string, bool) {
	switch err {
	case user.ErrNotFound, degreeform.ErrNotFound, submission.ErrNotFound:
		return http.StatusNotFound, "not_found", true
	case submission.ErrNotSubmitted:
		return http.StatusNotFound, "not_submitted", true
	case user.ErrAuthFailed:
		return http.StatusUnauthorized, "auth_failed", true
	case core.ErrTokenInvalid:
		return http.StatusUnauthorized, "token_invalid", true
	case user.ErrNotVerified:
		return http.StatusForbidden, "not_verified", true
	case submission.ErrForbidden:
		return http.StatusForbidden, "forbidden", true
	case submission.ErrFormNotActive:
		return http.StatusForbidden, "form_not_active", true
	case submission.ErrSubmissionClosed:
		return http.StatusForbidden, "submission_closed", true
	case user.ErrAlreadyVerified:
		return http.StatusConflict, "already_verified", true
	case user.ErrEmailExists:
		return http.StatusConflict, "email_exists", true
	case degreeform.ErrTitleExists:
		return http.StatusConflict, "title_exists", true
	case submission.ErrAlreadySubmitted:
		return http.StatusConflict, "already_submitted", true
	case user.ErrOTPInvalid:
		return http.StatusBadRequest, "otp_invalid", true
	case user.ErrOTPExpired:
		return http.StatusBadRequest, "otp_expired", true
	case user.ErrOTPDelivery:
		return http.StatusBadGateway, "otp_delivery", true
	case core.ErrUploadFailed:
		return http.StatusBadGateway, "upload_failed", true
	}
	return 0, "", false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var res errorResponse
		var code int

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			res = errorResponse{Kind: kindForStatus(code), Error: origErr.Message}
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			res = errorResponse{Kind: "validation_error", Error: fldErrs}
		case *core.ValidationError:
			code = http.StatusBadRequest
			res = errorResponse{Kind: "validation_error"}
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				res.Error = fldErrs
			} else {
				res.Error = origErr.Error()
			}
		default:
			if status, kind, ok := sentinelStatus(cause); ok {
				code = status
				res = errorResponse{Kind: kind, Error: cause.Error()}
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(code)
			res = errorResponse{Kind: "server_error", Error: msg}

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.UserID
				usr.Email = claims.Email
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			res.Error = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, res)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "bad_request"
	}
	return "error"
}
