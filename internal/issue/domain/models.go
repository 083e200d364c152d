// Package domain contains persistence models for the issue service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Issue is a premium-only aggregate: every operation on it, reads
// included, passes the plan gate.
type Issue struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"org_id"`
	ProductID   snowflake.ID `gorm:"not null;index" json:"product_id"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      Status       `gorm:"type:text;not null;default:'open'" json:"status"`
	Priority    Priority     `gorm:"type:text;not null;default:'medium'" json:"priority"`
	CreatedBy   snowflake.ID `gorm:"not null;column:created_by" json:"created_by"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Issue) TableName() string { return "issues" }

// ValidStatus reports whether raw is a known issue status.
func ValidStatus(raw Status) bool {
	switch raw {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	default:
		return false
	}
}

// ValidPriority reports whether raw is a known priority.
func ValidPriority(raw Priority) bool {
	switch raw {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}
