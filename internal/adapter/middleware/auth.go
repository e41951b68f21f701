package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	portalhttp "kyc-portal-backend/internal/adapter/http"
	"kyc-portal-backend/internal/usecase/session"
)

// Auth resolves the bearer token into a session and stores it on the context.
// The role comes back freshly resolved on every request, so downstream checks
// never see a stale role for the presented identity.
func Auth(sessions *session.Usecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(h, "Bearer ") {
				return c.JSON(http.StatusUnauthorized,
					portalhttp.ErrorResponse{Error: session.ErrNotAuthenticated.Error()})
			}
			token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))

			sess, err := sessions.Current(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized,
					portalhttp.ErrorResponse{Error: session.ErrNotAuthenticated.Error()})
			}
			c.Set(portalhttp.SessionContextKey, sess)
			return next(c)
		}
	}
}
