package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Get(ctx context.Context, orgID, productID snowflake.ID) (*BipSettings, error)
	Update(ctx context.Context, orgID, productID snowflake.ID, req UpdateRequest) (*BipSettings, error)
	// EnsureDefaults provisions the default row if none exists yet; it is
	// idempotent so replayed org.created events are harmless.
	EnsureDefaults(ctx context.Context, orgID, productID snowflake.ID) error
}

// UpdateRequest uses pointers so a PATCH can flip any subset of flags.
type UpdateRequest struct {
	IsBuildInPublicEnabled       *bool `json:"isBuildInPublicEnabled"`
	IsObjectivesPagePublic       *bool `json:"isObjectivesPagePublic"`
	IsRoadmapPagePublic          *bool `json:"isRoadmapPagePublic"`
	IsIterationsPagePublic       *bool `json:"isIterationsPagePublic"`
	IsActiveIterationsPagePublic *bool `json:"isActiveIterationsPagePublic"`
	IsFeedPagePublic             *bool `json:"isFeedPagePublic"`
	IsIssuesPagePublic           *bool `json:"isIssuesPagePublic"`
	IsFeatureRequestsPagePublic  *bool `json:"isFeatureRequestsPagePublic"`
}

var ErrNotFound = errors.New("bip_settings_not_found")
