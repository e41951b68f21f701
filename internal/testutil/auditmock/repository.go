package auditmock

import (
	"context"

	domain "kyc-portal-backend/internal/domain/audit"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, a *domain.AuditLog) error
	ListBySubmissionIDFn func(ctx context.Context, submissionID string) ([]domain.AuditLog, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, a *domain.AuditLog) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) ListBySubmissionID(ctx context.Context, submissionID string) ([]domain.AuditLog, error) {
	if m.ListBySubmissionIDFn != nil {
		return m.ListBySubmissionIDFn(ctx, submissionID)
	}
	return nil, nil
}
