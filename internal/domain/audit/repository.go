package audit

import "context"

// Append-only: there is no update or delete method.
type Repository interface {
	Create(ctx context.Context, a *AuditLog) error
	ListBySubmissionID(ctx context.Context, submissionID string) ([]AuditLog, error)
}
