package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, product Product) error
	List(ctx context.Context, orgID snowflake.ID) ([]Product, error)
	// FindByID constrains the lookup by org id as well, so a product under a
	// different tenant resolves to nil rather than leaking.
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*Product, error)
	FirstByOrg(ctx context.Context, orgID snowflake.ID) (*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, orgID, id snowflake.ID) (bool, error)
}
