package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, item FeedItem) error
	List(ctx context.Context, orgID snowflake.ID, limit, offset int) ([]FeedItem, error)
}
