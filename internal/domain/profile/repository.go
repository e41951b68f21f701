package profile

import "context"

type Repository interface {
	// Create must surface gorm.ErrDuplicatedKey on a uniqueness violation so
	// callers can treat a lost insert race as success.
	Create(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}
