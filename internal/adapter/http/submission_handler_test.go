package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	domain "kyc-portal-backend/internal/domain/submission"
	"kyc-portal-backend/internal/testutil/feedmock"
	"kyc-portal-backend/internal/testutil/submissionmock"
	"kyc-portal-backend/internal/usecase/session"
	subUC "kyc-portal-backend/internal/usecase/submission"
)

func newTestContext(t *testing.T, method, target, body string, sess *session.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(SessionContextKey, sess)
	}
	return c, rec
}

func ownerSession() *session.Session {
	return &session.Session{UserID: "owner-1", Email: "a@b.c", Role: "user"}
}

func TestSubmissionHandler_Create(t *testing.T) {
	repo := &submissionmock.Repo{
		CreateFn: func(ctx context.Context, s *domain.Submission) error { return nil },
	}
	h := NewSubmissionHandler(subUC.NewUsecase(repo, nil, "kyc-documents", feedmock.New()))

	c, rec := newTestContext(t, http.MethodPost, "/submissions",
		`{"first_name":"Ada","last_name":"Lovelace","date_of_birth":"1990-01-01"}`, ownerSession())
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out domain.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != domain.StatusPending || out.UserID != "owner-1" {
		t.Fatalf("created = %+v", out)
	}
}

func TestSubmissionHandler_CreateValidation(t *testing.T) {
	h := NewSubmissionHandler(subUC.NewUsecase(&submissionmock.Repo{}, nil, "kyc-documents", feedmock.New()))

	c, rec := newTestContext(t, http.MethodPost, "/submissions",
		`{"date_of_birth":"01/01/1990"}`, ownerSession())
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d, want 422", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Details) == 0 {
		t.Fatalf("no field details in %s", rec.Body.String())
	}
}

func TestSubmissionHandler_CreateUnauthenticated(t *testing.T) {
	h := NewSubmissionHandler(subUC.NewUsecase(&submissionmock.Repo{}, nil, "kyc-documents", feedmock.New()))

	c, rec := newTestContext(t, http.MethodPost, "/submissions", `{"first_name":"Ada"}`, nil)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}

func TestSubmissionHandler_UpdateNotFound(t *testing.T) {
	repo := &submissionmock.Repo{
		GetOwnedFn: func(ctx context.Context, id, owner string) (*domain.Submission, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := NewSubmissionHandler(subUC.NewUsecase(repo, nil, "kyc-documents", feedmock.New()))

	c, rec := newTestContext(t, http.MethodPut, "/submissions/x", `{"first_name":"Eve"}`, ownerSession())
	c.SetParamNames("submission_id")
	c.SetParamValues("x")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
}

func TestSubmissionHandler_Delete(t *testing.T) {
	repo := &submissionmock.Repo{
		GetOwnedFn: func(ctx context.Context, id, owner string) (*domain.Submission, error) {
			return &domain.Submission{SubmissionID: id, UserID: owner}, nil
		},
		DeleteOwnedFn: func(ctx context.Context, id, owner string) error { return nil },
	}
	h := NewSubmissionHandler(subUC.NewUsecase(repo, nil, "kyc-documents", feedmock.New()))

	c, rec := newTestContext(t, http.MethodDelete, "/submissions/s-1", "", ownerSession())
	c.SetParamNames("submission_id")
	c.SetParamValues("s-1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d, want 204", rec.Code)
	}
}

func TestSubmissionHandler_List(t *testing.T) {
	repo := &submissionmock.Repo{
		ListByOwnerFn: func(ctx context.Context, owner string) ([]domain.Submission, error) {
			return []domain.Submission{{SubmissionID: "s-1", UserID: owner}}, nil
		},
	}
	h := NewSubmissionHandler(subUC.NewUsecase(repo, nil, "kyc-documents", feedmock.New()))

	c, rec := newTestContext(t, http.MethodGet, "/submissions", "", ownerSession())
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var items []domain.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].SubmissionID != "s-1" {
		t.Fatalf("items = %+v", items)
	}
}
