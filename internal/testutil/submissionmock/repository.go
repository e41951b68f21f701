package submissionmock

import (
	"context"

	domain "kyc-portal-backend/internal/domain/submission"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Fill in only the function fields a test needs.
type Repo struct {
	CreateFn                     func(ctx context.Context, s *domain.Submission) error
	SaveFn                       func(ctx context.Context, s *domain.Submission) error
	GetBySubmissionIDFn          func(ctx context.Context, submissionID string) (*domain.Submission, error)
	GetBySubmissionIDForUpdateFn func(ctx context.Context, submissionID string) (*domain.Submission, error)
	GetOwnedFn                   func(ctx context.Context, submissionID, ownerID string) (*domain.Submission, error)
	ListByOwnerFn                func(ctx context.Context, ownerID string) ([]domain.Submission, error)
	ListFn                       func(ctx context.Context, f domain.ListFilter) ([]domain.Submission, int64, error)
	UpdateFieldsFn               func(ctx context.Context, submissionID, ownerID string, fields map[string]any) (*domain.Submission, error)
	DeleteOwnedFn                func(ctx context.Context, submissionID, ownerID string) error
	AddDocumentFn                func(ctx context.Context, d *domain.Document) error
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, s *domain.Submission) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, s *domain.Submission) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetBySubmissionID(ctx context.Context, submissionID string) (*domain.Submission, error) {
	if m.GetBySubmissionIDFn != nil {
		return m.GetBySubmissionIDFn(ctx, submissionID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetBySubmissionIDForUpdate(ctx context.Context, submissionID string) (*domain.Submission, error) {
	if m.GetBySubmissionIDForUpdateFn != nil {
		return m.GetBySubmissionIDForUpdateFn(ctx, submissionID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetOwned(ctx context.Context, submissionID, ownerID string) (*domain.Submission, error) {
	if m.GetOwnedFn != nil {
		return m.GetOwnedFn(ctx, submissionID, ownerID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Submission, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Submission, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *Repo) UpdateFields(ctx context.Context, submissionID, ownerID string, fields map[string]any) (*domain.Submission, error) {
	if m.UpdateFieldsFn != nil {
		return m.UpdateFieldsFn(ctx, submissionID, ownerID, fields)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) DeleteOwned(ctx context.Context, submissionID, ownerID string) error {
	if m.DeleteOwnedFn != nil {
		return m.DeleteOwnedFn(ctx, submissionID, ownerID)
	}
	return nil
}

func (m *Repo) AddDocument(ctx context.Context, d *domain.Document) error {
	if m.AddDocumentFn != nil {
		return m.AddDocumentFn(ctx, d)
	}
	return nil
}
