package submission

import "context"

// ListFilter drives the reviewer queue. Status "all" (or empty) means no
// status predicate; Search is matched case-insensitively against first name,
// last name and document number.
type ListFilter struct {
	Status       string
	DocumentType string
	Search       string
	Page         int
	PerPage      int
}

type Repository interface {
	Create(ctx context.Context, s *Submission) error
	Save(ctx context.Context, s *Submission) error

	GetBySubmissionID(ctx context.Context, submissionID string) (*Submission, error)
	GetBySubmissionIDForUpdate(ctx context.Context, submissionID string) (*Submission, error)
	// GetOwned resolves a submission only when it belongs to ownerID.
	GetOwned(ctx context.Context, submissionID, ownerID string) (*Submission, error)

	// ListByOwner returns all of the owner's rows, created_at descending.
	ListByOwner(ctx context.Context, ownerID string) ([]Submission, error)
	// List returns one page plus the total count computed independently of
	// the page slice.
	List(ctx context.Context, f ListFilter) ([]Submission, int64, error)

	// UpdateFields applies a partial update scoped by both submission id and
	// owner; rows owned by someone else report ErrNotFound.
	UpdateFields(ctx context.Context, submissionID, ownerID string, fields map[string]any) (*Submission, error)
	DeleteOwned(ctx context.Context, submissionID, ownerID string) error

	AddDocument(ctx context.Context, d *Document) error
}
