package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	subDomain "kyc-portal-backend/internal/domain/submission"
	"kyc-portal-backend/internal/usecase/session"
	subUC "kyc-portal-backend/internal/usecase/submission"
)

type SubmissionHandler struct{ uc *subUC.Usecase }

func NewSubmissionHandler(uc *subUC.Usecase) *SubmissionHandler {
	return &SubmissionHandler{uc: uc}
}

type submissionReq struct {
	FirstName      string `json:"first_name"      validate:"max=100"`
	LastName       string `json:"last_name"       validate:"max=100"`
	DateOfBirth    string `json:"date_of_birth"   validate:"dob"`
	Address        string `json:"address"         validate:"max=500"`
	DocumentType   string `json:"document_type"   validate:"max=50"`
	DocumentNumber string `json:"document_number" validate:"max=100"`
	// Ignored on create; the store forces pending.
	Status string `json:"status"`
}

func (r submissionReq) fields() subUC.Fields {
	return subUC.Fields{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DateOfBirth:    r.DateOfBirth,
		Address:        r.Address,
		DocumentType:   r.DocumentType,
		DocumentNumber: r.DocumentNumber,
		Status:         r.Status,
	}
}

func submissionErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		return errJSON(c, http.StatusUnauthorized, err)
	case errors.Is(err, session.ErrAdminRequired):
		return errJSON(c, http.StatusForbidden, err)
	case errors.Is(err, subDomain.ErrNotFound):
		return errJSON(c, http.StatusNotFound, err)
	case errors.Is(err, subUC.ErrInvalidDate), errors.Is(err, subUC.ErrFieldTooLong):
		return errJSON(c, http.StatusUnprocessableEntity, err)
	default:
		return errJSON(c, http.StatusInternalServerError, err)
	}
}

func (h *SubmissionHandler) List(c echo.Context) error {
	items, err := h.uc.ListOwn(c.Request().Context(), CurrentSession(c))
	if err != nil {
		return submissionErr(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SubmissionHandler) Create(c echo.Context) error {
	var req submissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	s, err := h.uc.Create(c.Request().Context(), CurrentSession(c), req.fields())
	if err != nil {
		return submissionErr(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *SubmissionHandler) Update(c echo.Context) error {
	id := c.Param("submission_id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing submission_id path param"})
	}
	var req submissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	s, err := h.uc.Update(c.Request().Context(), CurrentSession(c), id, req.fields())
	if err != nil {
		return submissionErr(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SubmissionHandler) Delete(c echo.Context) error {
	id := c.Param("submission_id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing submission_id path param"})
	}
	if err := h.uc.Delete(c.Request().Context(), CurrentSession(c), id); err != nil {
		return submissionErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AttachDocument accepts one multipart file plus a document_type form field.
func (h *SubmissionHandler) AttachDocument(c echo.Context) error {
	id := c.Param("submission_id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing submission_id path param"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing file"})
	}
	src, err := fh.Open()
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err)
	}
	defer src.Close()

	doc, err := h.uc.AttachDocument(c.Request().Context(), CurrentSession(c), id, subUC.AttachInput{
		Filename:     fh.Filename,
		ContentType:  fh.Header.Get(echo.HeaderContentType),
		DocumentType: c.FormValue("document_type"),
		Body:         src,
	})
	if err != nil {
		return submissionErr(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}
