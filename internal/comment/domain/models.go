// Package domain contains persistence models for threaded comments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ParentType discriminates which aggregate a comment hangs off.
type ParentType string

const (
	ParentKeyResult      ParentType = "key_result"
	ParentIssue          ParentType = "issue"
	ParentFeatureRequest ParentType = "feature_request"
)

// ValidParentType reports whether raw names a commentable aggregate.
func ValidParentType(raw ParentType) bool {
	switch raw {
	case ParentKeyResult, ParentIssue, ParentFeatureRequest:
		return true
	default:
		return false
	}
}

// Comment rows for every parent kind share one table; the
// (parent_type, parent_id) pair is the polymorphic key.
type Comment struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index" json:"org_id"`
	ParentType ParentType   `gorm:"type:text;not null;index:ix_comments_parent,priority:1" json:"parent_type"`
	ParentID   snowflake.ID `gorm:"not null;index:ix_comments_parent,priority:2" json:"parent_id"`
	Content    string       `gorm:"type:text;not null" json:"content"`
	CreatedBy  snowflake.ID `gorm:"not null;column:created_by" json:"created_by"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Comment) TableName() string { return "comments" }
