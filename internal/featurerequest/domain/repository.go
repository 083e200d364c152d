package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, request FeatureRequest) error
	List(ctx context.Context, scope Scope, limit, offset int) ([]FeatureRequest, error)
	// FindByID applies org and product predicates jointly with the id.
	FindByID(ctx context.Context, scope Scope, id snowflake.ID) (*FeatureRequest, error)
	// FindByIDInOrg skips the product predicate; votes address requests by
	// org only.
	FindByIDInOrg(ctx context.Context, orgID, id snowflake.ID) (*FeatureRequest, error)
	Update(ctx context.Context, request *FeatureRequest) error
	Delete(ctx context.Context, scope Scope, id snowflake.ID) (bool, error)

	FindVote(ctx context.Context, userID, featureRequestID snowflake.ID) (*FeatureRequestVote, error)
	CreateVote(ctx context.Context, vote FeatureRequestVote) error
	UpdateVote(ctx context.Context, vote *FeatureRequestVote) error
	ListVotesByUser(ctx context.Context, userID, orgID snowflake.ID) ([]FeatureRequestVote, error)
	// RecountVotes sets the denormalized counter from the vote rows in a
	// single statement, so concurrent casts cannot double-apply a delta.
	RecountVotes(ctx context.Context, featureRequestID snowflake.ID) error
}
