// Package domain contains the build-in-public settings model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BipSettings controls the public read-only mirror of one product. One row
// per product; the master switch gates everything, the page flags gate each
// surface individually.
type BipSettings struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"org_id"`
	ProductID snowflake.ID `gorm:"not null;uniqueIndex" json:"product_id"`

	IsBuildInPublicEnabled bool `gorm:"not null;default:true;column:is_build_in_public_enabled" json:"isBuildInPublicEnabled"`

	IsObjectivesPagePublic       bool `gorm:"not null;default:true" json:"isObjectivesPagePublic"`
	IsRoadmapPagePublic          bool `gorm:"not null;default:true" json:"isRoadmapPagePublic"`
	IsIterationsPagePublic       bool `gorm:"not null;default:true" json:"isIterationsPagePublic"`
	IsActiveIterationsPagePublic bool `gorm:"not null;default:true" json:"isActiveIterationsPagePublic"`
	IsFeedPagePublic             bool `gorm:"not null;default:true" json:"isFeedPagePublic"`
	IsIssuesPagePublic           bool `gorm:"not null;default:false" json:"isIssuesPagePublic"`
	IsFeatureRequestsPagePublic  bool `gorm:"not null;default:false" json:"isFeatureRequestsPagePublic"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BipSettings) TableName() string { return "bip_settings" }

// Defaults returns a settings row as provisioned for a fresh product:
// mirror on, planning surfaces public, issues and feature requests private.
func Defaults(id, orgID, productID snowflake.ID, now time.Time) BipSettings {
	return BipSettings{
		ID:                           id,
		OrgID:                        orgID,
		ProductID:                    productID,
		IsBuildInPublicEnabled:       true,
		IsObjectivesPagePublic:       true,
		IsRoadmapPagePublic:          true,
		IsIterationsPagePublic:       true,
		IsActiveIterationsPagePublic: true,
		IsFeedPagePublic:             true,
		IsIssuesPagePublic:           false,
		IsFeatureRequestsPagePublic:  false,
		CreatedAt:                    now,
		UpdatedAt:                    now,
	}
}
