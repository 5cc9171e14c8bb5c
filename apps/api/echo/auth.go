package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/praveshhq/pravesh/core"
	"github.com/praveshhq/pravesh/core/user"
)

const (
	contextClaimsKey = "claims"
	contextUserKey   = "user"
)

// authMiddleware guards a group with bearer-token auth for one audience.
func authMiddleware(tokens core.TokenProvider, audience string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return errUnauthorized
			}
			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "), audience)
			if err != nil {
				return err
			}
			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

// adminMiddleware sits behind authMiddleware and rejects non-admin claims.
func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.Role != user.RoleAdmin {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func getContextClaims(ctx echo.Context) (core.TokenClaims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(core.TokenClaims); ok {
		return claims, nil
	}
	return core.TokenClaims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc *user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, err
	}
	usr, err := svc.GetByID(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

type authApi struct {
	svc *user.Service
}

func registerAuthAPI(g *echo.Group, access, otp echo.MiddlewareFunc, svc *user.Service) {
	api := authApi{svc: svc}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit `/register` & `/login`
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
	ag.POST("/refresh-token", api.refreshToken)

	// OTP-token endpoints
	og := ag.Group("", otp)
	og.POST("/verify-otp", api.verifyOTP)
	og.POST("/resend-otp", api.resendOTP)

	// access-token endpoints
	sg := ag.Group("", access)
	sg.POST("/logout", api.logout)
	sg.GET("/current-user", api.currentUser)
}

type (
	registerResponse struct {
		User     user.User `json:"user"`
		OTPToken string    `json:"otp_token"`
	}

	sessionResponse struct {
		User   user.User      `json:"user"`
		Tokens core.TokenPair `json:"tokens"`
	}

	refreshRequest struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	successResponse struct {
		Success string `json:"success"`
	}
)

func (api *authApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, otpToken, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusCreated, registerResponse{User: usr, OTPToken: otpToken})
}

func (api *authApi) verifyOTP(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data user.VerifyOTP
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyOTP")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	usr, pair, err := api.svc.VerifyOTP(ctx.Request().Context(), claims.UserID, data)
	if err != nil {
		return errors.Wrap(err, "verifying OTP")
	}
	return ctx.JSON(http.StatusOK, sessionResponse{User: usr, Tokens: pair})
}

func (api *authApi) resendOTP(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.ResendOTP(ctx.Request().Context(), claims.UserID); err != nil {
		return errors.Wrap(err, "resending OTP")
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: "A new OTP has been sent to your email address."})
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, pair, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.ErrAuthFailed
		}
		return errors.Wrap(err, "logging in")
	}
	return ctx.JSON(http.StatusOK, sessionResponse{User: usr, Tokens: pair})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	var data refreshRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to refreshRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	usr, pair, err := api.svc.RefreshSession(ctx.Request().Context(), data.RefreshToken)
	if err != nil {
		return errors.Wrap(err, "refreshing session")
	}
	return ctx.JSON(http.StatusOK, sessionResponse{User: usr, Tokens: pair})
}

func (api *authApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Logout(ctx.Request().Context(), claims.UserID); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: "Logged out."})
}

func (api *authApi) currentUser(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}
