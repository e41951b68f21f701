package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "kyc-portal-backend/internal/domain/profile"
)

type ProfileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) *ProfileRepository { return &ProfileRepository{db: db} }

var _ domain.Repository = (*ProfileRepository)(nil)

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	// gorm translates the driver's uniqueness violation to ErrDuplicatedKey;
	// callers racing on first-session creation depend on that.
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var out domain.Profile
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}
