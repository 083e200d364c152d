package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, issue Issue) error
	// List orders by priority (high first) then creation time descending.
	List(ctx context.Context, scope Scope, limit, offset int) ([]Issue, error)
	// FindByID applies org and product predicates jointly with the id.
	FindByID(ctx context.Context, scope Scope, id snowflake.ID) (*Issue, error)
	Update(ctx context.Context, issue *Issue) error
	Delete(ctx context.Context, scope Scope, id snowflake.ID) (bool, error)
}
