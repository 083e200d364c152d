package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
)

type Service interface {
	// PostTextItem is the single direct write path; everything else arrives
	// through event subscription.
	PostTextItem(ctx context.Context, actorID, orgID snowflake.ID, req PostTextRequest) (*Response, error)
	List(ctx context.Context, orgID snowflake.ID, page pagination.Pagination) ([]Response, error)
}

type PostTextRequest struct {
	Title string
	Text  string
}

type Response struct {
	ID         string         `json:"id"`
	OrgID      string         `json:"org_id"`
	UserID     string         `json:"user_id,omitempty"`
	Title      string         `json:"title"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Action     Action         `json:"action"`
	Content    map[string]any `json:"content,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

var ErrEmptyText = errors.New("empty_feed_text")
