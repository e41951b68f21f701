package uow

import (
	"context"

	"kyc-portal-backend/internal/domain/audit"
	"kyc-portal-backend/internal/domain/profile"
	"kyc-portal-backend/internal/domain/submission"
)

type Repos struct {
	Submissions submission.Repository
	AuditLogs   audit.Repository
	Profiles    profile.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the submission row first, then pass it in
	WithinSubmissionTx(ctx context.Context, submissionID string, fn func(r Repos, s *submission.Submission) error) error
}
