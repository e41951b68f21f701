package review

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	auditDomain "kyc-portal-backend/internal/domain/audit"
	subDomain "kyc-portal-backend/internal/domain/submission"
	"kyc-portal-backend/internal/domain/uow"
	"kyc-portal-backend/internal/realtime"
	"kyc-portal-backend/internal/usecase/session"
	"kyc-portal-backend/pkg/id"
)

var ErrNotesRequired = errors.New("notes required")

// MinNotesLen is the shortest accepted justification for reject/request-info.
const MinNotesLen = 5

type Usecase struct {
	uow    uow.UnitOfWork
	audits auditDomain.Repository
	feed   realtime.Publisher
}

func NewUsecase(tx uow.UnitOfWork, audits auditDomain.Repository, feed realtime.Publisher) *Usecase {
	return &Usecase{uow: tx, audits: audits, feed: feed}
}

// Decision reports both outcomes of a reviewer action: the status change
// (authoritative) and the audit append (best-effort). AuditErr being set does
// not mean the decision failed.
type Decision struct {
	SubmissionID string                `json:"submission_id"`
	Action       auditDomain.Action    `json:"action"`
	Status       subDomain.Status      `json:"status"`
	AuditID      string                `json:"audit_id,omitempty"`
	AuditErr     error                 `json:"-"`
	DecidedAt    time.Time             `json:"decided_at"`
	Submission   *subDomain.Submission `json:"submission,omitempty"`
}

func (u *Usecase) Approve(ctx context.Context, sess *session.Session, submissionID, notes string) (*Decision, error) {
	return u.decide(ctx, sess, submissionID, notes, auditDomain.ActionApproved, subDomain.StatusApproved, false)
}

func (u *Usecase) Reject(ctx context.Context, sess *session.Session, submissionID, notes string) (*Decision, error) {
	return u.decide(ctx, sess, submissionID, notes, auditDomain.ActionRejected, subDomain.StatusRejected, true)
}

// RequestMoreInfo re-opens the submission: status stays pending and the
// transition is repeatable.
func (u *Usecase) RequestMoreInfo(ctx context.Context, sess *session.Session, submissionID, notes string) (*Decision, error) {
	return u.decide(ctx, sess, submissionID, notes, auditDomain.ActionRequestInfo, subDomain.StatusPending, true)
}

func (u *Usecase) decide(ctx context.Context, sess *session.Session, submissionID, notes string, action auditDomain.Action, next subDomain.Status, notesRequired bool) (*Decision, error) {
	// Precondition and validation errors fire before any store call.
	if sess == nil {
		return nil, session.ErrNotAuthenticated
	}
	if !sess.IsAdmin {
		return nil, session.ErrAdminRequired
	}
	if notesRequired && len(strings.TrimSpace(notes)) < MinNotesLen {
		return nil, ErrNotesRequired
	}
	if u.uow == nil {
		return nil, subDomain.ErrInvalidTransition
	}

	var target *subDomain.Submission
	err := u.uow.WithinSubmissionTx(ctx, submissionID, func(r uow.Repos, s *subDomain.Submission) error {
		// Only pending may move; approved/rejected are terminal.
		if s.Status != subDomain.StatusPending {
			return subDomain.ErrAlreadyDecided
		}
		s.Status = next
		if err := r.Submissions.Save(ctx, s); err != nil {
			return err
		}
		target = s
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subDomain.ErrNotFound
		}
		return nil, err
	}

	d := &Decision{
		SubmissionID: submissionID,
		Action:       action,
		Status:       next,
		DecidedAt:    time.Now().UTC(),
		Submission:   target,
	}

	// Audit append runs after the committed status change and never reverts
	// it; the failure travels back in the result instead.
	a := &auditDomain.AuditLog{
		AuditID:      id.NewID32(),
		SubmissionID: submissionID,
		ActorID:      sess.UserID,
		Action:       action,
		Notes:        strings.TrimSpace(notes),
	}
	if aerr := u.audits.Create(ctx, a); aerr != nil {
		log.Printf("review: audit append failed for %s (%s): %v", submissionID, action, aerr)
		d.AuditErr = aerr
	} else {
		d.AuditID = a.AuditID
	}

	if u.feed != nil && target != nil {
		if ferr := u.feed.Publish(ctx, target.UserID, realtime.NewEvent(realtime.EventUpdate, target, nil)); ferr != nil {
			log.Printf("review: feed publish for %s: %v", submissionID, ferr)
		}
	}
	return d, nil
}
