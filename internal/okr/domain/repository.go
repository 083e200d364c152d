package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, objective Objective) error
	List(ctx context.Context, scope Scope, limit, offset int) ([]Objective, error)
	// FindByID applies the org and product predicates in the same query as
	// the id; an objective under another tenant resolves to nil.
	FindByID(ctx context.Context, scope Scope, id snowflake.ID) (*Objective, error)
	Update(ctx context.Context, objective *Objective) error
	Delete(ctx context.Context, scope Scope, id snowflake.ID) (bool, error)
}
