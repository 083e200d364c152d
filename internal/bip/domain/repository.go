package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, settings BipSettings) error
	FindByProduct(ctx context.Context, orgID, productID snowflake.ID) (*BipSettings, error)
	Update(ctx context.Context, settings *BipSettings) error
}
