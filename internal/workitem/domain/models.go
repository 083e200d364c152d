// Package domain contains persistence models for the work item service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// WorkItem is a backlog entry under a product.
type WorkItem struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID  `gorm:"not null;index" json:"org_id"`
	ProductID   snowflake.ID  `gorm:"not null;index" json:"product_id"`
	Title       string        `gorm:"type:text;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Status      Status        `gorm:"type:text;not null;default:'backlog'" json:"status"`
	Priority    Priority      `gorm:"type:text;not null;default:'medium'" json:"priority"`
	Estimation  *int          `gorm:"column:estimation" json:"estimation,omitempty"`
	AssignedTo  *snowflake.ID `gorm:"column:assigned_to" json:"assigned_to,omitempty"`
	CreatedBy   snowflake.ID  `gorm:"not null;column:created_by" json:"created_by"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	CompletedAt *time.Time    `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

// TableName sets the database table name.
func (WorkItem) TableName() string { return "work_items" }

// ValidStatus reports whether raw is a known work item status.
func ValidStatus(raw Status) bool {
	switch raw {
	case StatusBacklog, StatusPlanned, StatusInProgress, StatusDone:
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
