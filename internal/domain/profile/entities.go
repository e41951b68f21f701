package profile

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("profile not found")

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile is created lazily on first session, defaulted to role "user".
type Profile struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID    string    `gorm:"column:user_id;size:32;not null;uniqueIndex:ux_profiles_user" json:"user_id"`
	Role      Role      `gorm:"column:role;size:20;not null;default:'user'" json:"role"`
	FullName  string    `gorm:"column:full_name;size:200" json:"full_name"`
	Phone     string    `gorm:"column:phone;size:32" json:"phone"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
