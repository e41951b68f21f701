package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"kyc-portal-backend/internal/domain/user"
	"kyc-portal-backend/internal/usecase/session"
)

type AuthHandler struct{ uc *session.Usecase }

func NewAuthHandler(uc *session.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

type signUpReq struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	FullName string `json:"full_name" validate:"max=200"`
	Phone    string `json:"phone"     validate:"max=32"`
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	origin := requestOrigin(c)
	res, err := h.uc.SignUp(c.Request().Context(), session.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	}, origin)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return errJSON(c, http.StatusConflict, err)
		}
		return errJSON(c, http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusCreated, res)
}

type signInReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrBadCredential) {
			return errJSON(c, http.StatusUnauthorized, err)
		}
		return errJSON(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) SignOut(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return errJSON(c, http.StatusUnauthorized, session.ErrNotAuthenticated)
	}
	if err := h.uc.SignOut(c.Request().Context(), token); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			return errJSON(c, http.StatusUnauthorized, err)
		}
		return errJSON(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "signed_out"})
}

// Session returns the freshly resolved identity; the auth middleware already
// re-resolved the role for this request.
func (h *AuthHandler) Session(c echo.Context) error {
	sess := CurrentSession(c)
	if sess == nil {
		return errJSON(c, http.StatusUnauthorized, session.ErrNotAuthenticated)
	}
	return c.JSON(http.StatusOK, sess)
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func requestOrigin(c echo.Context) string {
	if o := c.Request().Header.Get("Origin"); o != "" {
		return o
	}
	scheme := "http"
	if c.Request().TLS != nil {
		scheme = "https"
	}
	if host := c.Request().Host; host != "" {
		return scheme + "://" + host
	}
	return ""
}
