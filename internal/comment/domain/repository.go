package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, comment Comment) error
	ListByParent(ctx context.Context, orgID snowflake.ID, parentType ParentType, parentID snowflake.ID, limit, offset int) ([]Comment, error)
	// FindOwned matches on id, org and author jointly; a comment the actor
	// did not write is reported as absent, not as forbidden.
	FindOwned(ctx context.Context, orgID, commentID, authorID snowflake.ID) (*Comment, error)
	Update(ctx context.Context, comment *Comment) error
	DeleteOwned(ctx context.Context, orgID, commentID, authorID snowflake.ID) (bool, error)
	// ParentExists checks the parent row in its own table, scoped to the org.
	ParentExists(ctx context.Context, orgID snowflake.ID, parentType ParentType, parentID snowflake.ID) (bool, error)
}
