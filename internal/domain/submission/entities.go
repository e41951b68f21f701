package submission

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("submission not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyDecided    = errors.New("submission already decided")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Field length caps enforced before any store call.
const (
	MaxNameLen           = 100
	MaxAddressLen        = 500
	MaxDocumentTypeLen   = 50
	MaxDocumentNumberLen = 100
)

type Submission struct {
	ID           uint64 `gorm:"primaryKey;column:id" json:"-"`
	SubmissionID string `gorm:"size:32;uniqueIndex:ux_submissions_public_id" json:"submission_id"`
	// Owner; immutable after creation.
	UserID         string         `gorm:"size:32;index:idx_submissions_owner" json:"user_id"`
	FirstName      string         `gorm:"size:100" json:"first_name"`
	LastName       string         `gorm:"size:100" json:"last_name"`
	DateOfBirth    string         `gorm:"size:10" json:"date_of_birth"`
	Address        string         `gorm:"size:500" json:"address"`
	DocumentType   string         `gorm:"size:50;index" json:"document_type"`
	DocumentNumber string         `gorm:"size:100" json:"document_number"`
	Status         Status         `gorm:"size:20;default:'pending';index" json:"status"`
	Documents      []Document     `gorm:"foreignKey:SubmissionRef;references:ID" json:"documents"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Submission) TableName() string { return "submissions" }

// Document rows are append-only: there is no update or delete path.
type Document struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"-"`
	SubmissionRef    uint64    `gorm:"column:submission_ref;not null;index" json:"-"`
	StoragePath      string    `gorm:"type:text;not null" json:"storage_path"`
	Bucket           string    `gorm:"size:100;not null" json:"bucket"`
	ContentType      string    `gorm:"size:100" json:"content_type"`
	SizeBytes        int64     `json:"size_bytes"`
	OriginalFilename string    `gorm:"size:255" json:"original_filename"`
	DocumentType     string    `gorm:"size:50" json:"document_type"`
	UploadedAt       time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (Document) TableName() string { return "submission_documents" }
