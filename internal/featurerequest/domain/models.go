// Package domain contains persistence models for the feature request service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusOpen        Status = "open"
	StatusPlanned     Status = "planned"
	StatusInProgress  Status = "in-progress"
	StatusShipped     Status = "shipped"
	StatusDeclined    Status = "declined"
	StatusUnderReview Status = "under-review"
)

// FeatureRequest is a premium-only aggregate with a denormalized vote
// counter. Invariant: VotesCount == sum(vote) over its vote rows.
type FeatureRequest struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"org_id"`
	ProductID   snowflake.ID `gorm:"not null;index" json:"product_id"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      Status       `gorm:"type:text;not null;default:'open'" json:"status"`
	VotesCount  int          `gorm:"not null;default:0;column:votes_count" json:"votes_count"`
	CreatedBy   snowflake.ID `gorm:"not null;column:created_by" json:"created_by"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (FeatureRequest) TableName() string { return "feature_requests" }

// Vote values: -1 down, 0 neutral, +1 up.
const (
	VoteDown    = -1
	VoteNeutral = 0
	VoteUp      = 1
)

// FeatureRequestVote is one user's vote on one request; composite-unique
// on (user, request) so repeated votes upsert rather than duplicate.
type FeatureRequestVote struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID           snowflake.ID `gorm:"not null;uniqueIndex:ux_fr_votes_user_request,priority:1" json:"user_id"`
	FeatureRequestID snowflake.ID `gorm:"not null;uniqueIndex:ux_fr_votes_user_request,priority:2;column:feature_request_id" json:"feature_request_id"`
	OrgID            snowflake.ID `gorm:"not null;index" json:"org_id"`
	Vote             int          `gorm:"not null;default:0" json:"vote"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (FeatureRequestVote) TableName() string { return "feature_request_votes" }

// ValidStatus reports whether raw is a known feature request status.
func ValidStatus(raw Status) bool {
	switch raw {
	case StatusOpen, StatusPlanned, StatusInProgress, StatusShipped, StatusDeclined, StatusUnderReview:
		return true
	default:
		return false
	}
}
