package mysql

import (
	"context"

	"gorm.io/gorm"

	domain "kyc-portal-backend/internal/domain/audit"
)

type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

var _ domain.Repository = (*AuditRepository)(nil)

func (r *AuditRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AuditRepository) ListBySubmissionID(ctx context.Context, submissionID string) ([]domain.AuditLog, error) {
	var items []domain.AuditLog
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}
