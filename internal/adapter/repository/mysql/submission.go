package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "kyc-portal-backend/internal/domain/submission"
)

type SubmissionRepository struct{ db *gorm.DB }

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

var _ domain.Repository = (*SubmissionRepository)(nil)

func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubmissionRepository) Save(ctx context.Context, s *domain.Submission) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SubmissionRepository) GetBySubmissionID(ctx context.Context, submissionID string) (*domain.Submission, error) {
	var out domain.Submission
	res := r.db.WithContext(ctx).Preload("Documents").
		Where("submission_id = ?", submissionID).First(&out)
	return &out, res.Error
}

func (r *SubmissionRepository) GetBySubmissionIDForUpdate(ctx context.Context, submissionID string) (*domain.Submission, error) {
	var out domain.Submission
	res := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("submission_id = ?", submissionID).First(&out)
	return &out, res.Error
}

func (r *SubmissionRepository) GetOwned(ctx context.Context, submissionID, ownerID string) (*domain.Submission, error) {
	var out domain.Submission
	res := r.db.WithContext(ctx).Preload("Documents").
		Where("submission_id = ? AND user_id = ?", submissionID, ownerID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

func (r *SubmissionRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Submission, error) {
	var items []domain.Submission
	err := r.db.WithContext(ctx).Preload("Documents").
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}

func (r *SubmissionRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.Submission, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Submission{})
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DocumentType != "" {
		q = q.Where("document_type = ?", f.DocumentType)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(document_number) LIKE ?",
			like, like, like)
	}

	// Count independently of the page slice.
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	var items []domain.Submission
	err := q.Preload("Documents").
		Offset((page - 1) * f.PerPage).Limit(f.PerPage).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, total, err
}

func (r *SubmissionRepository) UpdateFields(ctx context.Context, submissionID, ownerID string, fields map[string]any) (*domain.Submission, error) {
	res := r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("submission_id = ? AND user_id = ?", submissionID, ownerID).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetBySubmissionID(ctx, submissionID)
}

func (r *SubmissionRepository) DeleteOwned(ctx context.Context, submissionID, ownerID string) error {
	res := r.db.WithContext(ctx).
		Where("submission_id = ? AND user_id = ?", submissionID, ownerID).
		Delete(&domain.Submission{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SubmissionRepository) AddDocument(ctx context.Context, d *domain.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}
