// Package domain contains persistence models for the OKR service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type ObjectiveStatus string

const (
	StatusOnTrack  ObjectiveStatus = "on-track"
	StatusAtRisk   ObjectiveStatus = "at-risk"
	StatusOffTrack ObjectiveStatus = "off-track"
	StatusDone     ObjectiveStatus = "done"
)

// Objective is the OKR aggregate root.
type Objective struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID    `gorm:"not null;index" json:"org_id"`
	ProductID   snowflake.ID    `gorm:"not null;index" json:"product_id"`
	Title       string          `gorm:"type:text;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Status      ObjectiveStatus `gorm:"type:text;not null;default:'on-track'" json:"status"`
	Progress    int             `gorm:"not null;default:0" json:"progress"`
	CreatedBy   snowflake.ID    `gorm:"not null;column:created_by" json:"created_by"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	CompletedAt *time.Time      `gorm:"column:completed_at" json:"completed_at,omitempty"`

	KeyResults []KeyResult `gorm:"foreignKey:ObjectiveID;constraint:OnDelete:CASCADE" json:"key_results"`
}

// TableName sets the database table name.
func (Objective) TableName() string { return "objectives" }

// KeyResult is an owned child of Objective.
type KeyResult struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	ObjectiveID snowflake.ID    `gorm:"not null;index" json:"objective_id"`
	Title       string          `gorm:"type:text;not null" json:"title"`
	Status      ObjectiveStatus `gorm:"type:text;not null;default:'on-track'" json:"status"`
	Progress    int             `gorm:"not null;default:0" json:"progress"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (KeyResult) TableName() string { return "key_results" }
