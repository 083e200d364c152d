// Package domain contains the append-only activity feed model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Action says what happened to the entity a feed item records.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionPosted  Action = "posted"
)

// FeedItem is an immutable record of one domain event. Content is the event
// payload snapshotted as opaque JSON at emit time; any redaction happens at
// the public read boundary, never here.
type FeedItem struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID   `gorm:"not null;index" json:"org_id"`
	UserID     *snowflake.ID  `gorm:"index" json:"user_id,omitempty"`
	Title      string         `gorm:"type:text;not null" json:"title"`
	EntityType string         `gorm:"type:text;not null" json:"entity_type"`
	EntityID   snowflake.ID   `gorm:"not null" json:"entity_id"`
	Action     Action         `gorm:"type:text;not null" json:"action"`
	Content    datatypes.JSON `gorm:"type:json" json:"content"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName sets the database table name.
func (FeedItem) TableName() string { return "feed_items" }
