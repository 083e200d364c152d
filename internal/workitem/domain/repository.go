package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, item WorkItem) error
	List(ctx context.Context, scope Scope, limit, offset int) ([]WorkItem, error)
	// FindByID applies org and product predicates jointly with the id.
	FindByID(ctx context.Context, scope Scope, id snowflake.ID) (*WorkItem, error)
	Update(ctx context.Context, item *WorkItem) error
	Delete(ctx context.Context, scope Scope, id snowflake.ID) (bool, error)
}
