package audit

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("audit entry not found")

type Action string

const (
	ActionApproved    Action = "approved"
	ActionRejected    Action = "rejected"
	ActionRequestInfo Action = "request_info"
)

// AuditLog rows are immutable once written; one row per decision event.
type AuditLog struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	AuditID      string    `gorm:"column:audit_id;type:char(32);not null;uniqueIndex:ux_audit_logs_public_id" json:"audit_id"`
	SubmissionID string    `gorm:"column:submission_id;size:32;not null;index" json:"submission_id"`
	ActorID      string    `gorm:"column:actor_id;size:32;not null;index" json:"actor_id"`
	Action       Action    `gorm:"column:action;size:20;not null" json:"action"`
	Notes        string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
