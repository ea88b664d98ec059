package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"skillswap/internal/auth"
	apperrors "skillswap/internal/errors"
)

// IdentityKey is the echo context key holding the verified auth.Identity.
const IdentityKey = "identity"

// JWT verifies the bearer token through authn and stores the identity on the context.
func JWT(authn auth.Authenticator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  IdentityKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authn.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				appErr = apperrors.Unauthenticated("missing or malformed token")
			}
			httpErr := apperrors.MapErrorToHTTP(appErr)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
		},
	})
}

// IdentityFrom returns the identity stored by JWT.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	id, ok := c.Get(IdentityKey).(auth.Identity)
	return id, ok
}

// RequireAdmin rejects callers without the admin role. It must run after JWT.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				httpErr := apperrors.MapErrorToHTTP(apperrors.Unauthenticated("missing or malformed token"))
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			if !id.IsAdmin() {
				httpErr := apperrors.MapErrorToHTTP(apperrors.Forbidden("admin access required"))
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}
