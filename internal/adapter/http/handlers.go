package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"kyc-portal-backend/internal/usecase/session"
)

// SessionContextKey is where the auth middleware stores the resolved session.
const SessionContextKey = "portal.session"

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// CurrentSession pulls the session the auth middleware resolved; nil when the
// route ran without authentication.
func CurrentSession(c echo.Context) *session.Session {
	if s, ok := c.Get(SessionContextKey).(*session.Session); ok {
		return s
	}
	return nil
}

func errJSON(c echo.Context, code int, err error) error {
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
