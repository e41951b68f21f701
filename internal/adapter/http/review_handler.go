package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	subDomain "kyc-portal-backend/internal/domain/submission"
	"kyc-portal-backend/internal/usecase/review"
	"kyc-portal-backend/internal/usecase/session"
	subUC "kyc-portal-backend/internal/usecase/submission"
)

type ReviewHandler struct {
	subs *subUC.Usecase
	uc   *review.Usecase
}

func NewReviewHandler(subs *subUC.Usecase, uc *review.Usecase) *ReviewHandler {
	return &ReviewHandler{subs: subs, uc: uc}
}

// GET /admin/submissions?status=&document_type=&q=&page=
func (h *ReviewHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	out, err := h.subs.ListForReview(c.Request().Context(), CurrentSession(c), subDomain.ListFilter{
		Status:       c.QueryParam("status"),
		DocumentType: c.QueryParam("document_type"),
		Search:       c.QueryParam("q"),
		Page:         page,
	})
	if err != nil {
		return submissionErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type decisionReq struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type decisionResp struct {
	SubmissionID string `json:"submission_id"`
	Action       string `json:"action"`
	Status       string `json:"status"`
	AuditID      string `json:"audit_id,omitempty"`
	// Set when the decision succeeded but the audit append did not.
	AuditError string `json:"audit_error,omitempty"`
}

func (h *ReviewHandler) Approve(c echo.Context) error     { return h.decide(c, h.uc.Approve) }
func (h *ReviewHandler) Reject(c echo.Context) error      { return h.decide(c, h.uc.Reject) }
func (h *ReviewHandler) RequestInfo(c echo.Context) error { return h.decide(c, h.uc.RequestMoreInfo) }

type decideFn func(ctx context.Context, sess *session.Session, submissionID, notes string) (*review.Decision, error)

func (h *ReviewHandler) decide(c echo.Context, fn decideFn) error {
	id := c.Param("submission_id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing submission_id path param"})
	}
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	d, err := fn(c.Request().Context(), CurrentSession(c), id, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotAuthenticated):
			return errJSON(c, http.StatusUnauthorized, err)
		case errors.Is(err, session.ErrAdminRequired):
			return errJSON(c, http.StatusForbidden, err)
		case errors.Is(err, review.ErrNotesRequired):
			return errJSON(c, http.StatusUnprocessableEntity, err)
		case errors.Is(err, subDomain.ErrNotFound):
			return errJSON(c, http.StatusNotFound, err)
		case errors.Is(err, subDomain.ErrAlreadyDecided), errors.Is(err, subDomain.ErrInvalidTransition):
			return errJSON(c, http.StatusConflict, err)
		default:
			return errJSON(c, http.StatusInternalServerError, err)
		}
	}

	resp := decisionResp{
		SubmissionID: d.SubmissionID,
		Action:       string(d.Action),
		Status:       string(d.Status),
		AuditID:      d.AuditID,
	}
	if d.AuditErr != nil {
		resp.AuditError = d.AuditErr.Error()
	}
	return c.JSON(http.StatusOK, resp)
}
