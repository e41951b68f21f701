package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"time"

	domain "kyc-portal-backend/internal/domain/submission"
	"kyc-portal-backend/internal/infrastructure/objectstore"
	"kyc-portal-backend/internal/realtime"
	"kyc-portal-backend/internal/usecase/session"
	"kyc-portal-backend/pkg/id"
)

var (
	ErrInvalidDate  = errors.New("date_of_birth must be YYYY-MM-DD")
	ErrFieldTooLong = errors.New("field exceeds maximum length")
)

// PageSize is the fixed reviewer-queue page size.
const PageSize = 10

var reDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Usecase struct {
	repo   domain.Repository
	store  objectstore.Store
	bucket string
	feed   realtime.Publisher
}

func NewUsecase(repo domain.Repository, store objectstore.Store, bucket string, feed realtime.Publisher) *Usecase {
	return &Usecase{repo: repo, store: store, bucket: bucket, feed: feed}
}

// Fields is the caller-supplied submission payload. Status is ignored on
// Create (pending is always forced) and trusted on Update, which only the
// privileged surface uses.
type Fields struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfBirth    string `json:"date_of_birth"`
	Address        string `json:"address"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	Status         string `json:"status,omitempty"`
}

func capErr(name string, max int) error {
	return fmt.Errorf("%w: %s > %d", ErrFieldTooLong, name, max)
}

// validate runs before any store call; a failure here has no network effect.
func validate(f Fields) error {
	if f.DateOfBirth != "" && !reDate.MatchString(f.DateOfBirth) {
		return ErrInvalidDate
	}
	switch {
	case len(f.FirstName) > domain.MaxNameLen:
		return capErr("first_name", domain.MaxNameLen)
	case len(f.LastName) > domain.MaxNameLen:
		return capErr("last_name", domain.MaxNameLen)
	case len(f.Address) > domain.MaxAddressLen:
		return capErr("address", domain.MaxAddressLen)
	case len(f.DocumentType) > domain.MaxDocumentTypeLen:
		return capErr("document_type", domain.MaxDocumentTypeLen)
	case len(f.DocumentNumber) > domain.MaxDocumentNumberLen:
		return capErr("document_number", domain.MaxDocumentNumberLen)
	}
	return nil
}

func (u *Usecase) publish(ctx context.Context, ownerID string, evt realtime.Event) {
	if u.feed == nil {
		return
	}
	if err := u.feed.Publish(ctx, ownerID, evt); err != nil {
		log.Printf("submission: feed publish %s: %v", evt.Type, err)
	}
}

// Create forces status=pending and owner=caller regardless of input.
func (u *Usecase) Create(ctx context.Context, sess *session.Session, f Fields) (*domain.Submission, error) {
	if sess == nil {
		return nil, session.ErrNotAuthenticated
	}
	if err := validate(f); err != nil {
		return nil, err
	}

	s := &domain.Submission{
		SubmissionID:   id.NewID32(),
		UserID:         sess.UserID,
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		DateOfBirth:    f.DateOfBirth,
		Address:        f.Address,
		DocumentType:   f.DocumentType,
		DocumentNumber: f.DocumentNumber,
		Status:         domain.StatusPending,
	}
	if err := u.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	u.publish(ctx, s.UserID, realtime.NewEvent(realtime.EventInsert, s, nil))
	return s, nil
}

// Update is owner-scoped by the repository predicate itself, not by trust in
// the caller. Empty fields are left unchanged.
func (u *Usecase) Update(ctx context.Context, sess *session.Session, submissionID string, f Fields) (*domain.Submission, error) {
	if sess == nil {
		return nil, session.ErrNotAuthenticated
	}
	if err := validate(f); err != nil {
		return nil, err
	}

	old, err := u.repo.GetOwned(ctx, submissionID, sess.UserID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if f.FirstName != "" {
		fields["first_name"] = f.FirstName
	}
	if f.LastName != "" {
		fields["last_name"] = f.LastName
	}
	if f.DateOfBirth != "" {
		fields["date_of_birth"] = f.DateOfBirth
	}
	if f.Address != "" {
		fields["address"] = f.Address
	}
	if f.DocumentType != "" {
		fields["document_type"] = f.DocumentType
	}
	if f.DocumentNumber != "" {
		fields["document_number"] = f.DocumentNumber
	}
	if f.Status != "" {
		// trusted caller path; the unprivileged UI never sets this
		fields["status"] = f.Status
	}
	if len(fields) == 0 {
		return old, nil
	}

	s, err := u.repo.UpdateFields(ctx, submissionID, sess.UserID, fields)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, s.UserID, realtime.NewEvent(realtime.EventUpdate, s, old))
	return s, nil
}

func (u *Usecase) Delete(ctx context.Context, sess *session.Session, submissionID string) error {
	if sess == nil {
		return session.ErrNotAuthenticated
	}
	old, err := u.repo.GetOwned(ctx, submissionID, sess.UserID)
	if err != nil {
		return err
	}
	if err := u.repo.DeleteOwned(ctx, submissionID, sess.UserID); err != nil {
		return err
	}
	u.publish(ctx, old.UserID, realtime.NewEvent(realtime.EventDelete, nil, old))
	return nil
}

func (u *Usecase) ListOwn(ctx context.Context, sess *session.Session) ([]domain.Submission, error) {
	if sess == nil {
		return nil, session.ErrNotAuthenticated
	}
	return u.repo.ListByOwner(ctx, sess.UserID)
}

type ReviewPage struct {
	Items   []domain.Submission `json:"items"`
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
}

// ListForReview serves the reviewer queue; the admin gate here is a UX gate,
// the repository predicates remain the enforced layer.
func (u *Usecase) ListForReview(ctx context.Context, sess *session.Session, f domain.ListFilter) (*ReviewPage, error) {
	if sess == nil {
		return nil, session.ErrNotAuthenticated
	}
	if !sess.IsAdmin {
		return nil, session.ErrAdminRequired
	}
	if f.Page < 1 {
		f.Page = 1
	}
	f.PerPage = PageSize
	items, total, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ReviewPage{Items: items, Total: total, Page: f.Page, PerPage: f.PerPage}, nil
}

type AttachInput struct {
	Filename     string
	ContentType  string
	DocumentType string
	Body         io.Reader
}

// AttachDocument stores the blob privately and appends the metadata row; the
// documents list only grows, there is no removal path.
func (u *Usecase) AttachDocument(ctx context.Context, sess *session.Session, submissionID string, in AttachInput) (*domain.Document, error) {
	if sess == nil {
		return nil, session.ErrNotAuthenticated
	}
	s, err := u.repo.GetOwned(ctx, submissionID, sess.UserID)
	if err != nil {
		return nil, err
	}

	path := objectstore.BuildDocumentPath(sess.UserID, s.SubmissionID, in.DocumentType, in.Filename, time.Now())
	size, err := u.store.Save(ctx, u.bucket, path, in.Body)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		SubmissionRef:    s.ID,
		StoragePath:      path,
		Bucket:           u.bucket,
		ContentType:      in.ContentType,
		SizeBytes:        size,
		OriginalFilename: in.Filename,
		DocumentType:     in.DocumentType,
	}
	if err := u.repo.AddDocument(ctx, doc); err != nil {
		return nil, err
	}

	if updated, gerr := u.repo.GetOwned(ctx, submissionID, sess.UserID); gerr == nil {
		u.publish(ctx, updated.UserID, realtime.NewEvent(realtime.EventUpdate, updated, s))
	}
	return doc, nil
}
