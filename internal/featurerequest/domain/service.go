package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
)

// Scope identifies the tenant an operation acts within.
type Scope struct {
	OrgID     snowflake.ID
	ProductID snowflake.ID
}

type Service interface {
	Create(ctx context.Context, actorID snowflake.ID, scope Scope, req CreateRequest) (*Response, error)
	List(ctx context.Context, scope Scope, page pagination.Pagination) ([]Response, error)
	GetByID(ctx context.Context, scope Scope, id snowflake.ID) (*Response, error)
	Update(ctx context.Context, actorID snowflake.ID, scope Scope, id snowflake.ID, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, actorID snowflake.ID, scope Scope, id snowflake.ID) error

	Upvote(ctx context.Context, userID, orgID, featureRequestID snowflake.ID) error
	Downvote(ctx context.Context, userID, orgID, featureRequestID snowflake.ID) error
	GetVotes(ctx context.Context, userID, orgID snowflake.ID) ([]VoteResponse, error)
}

// MembershipChecker answers whether a user belongs to an org; satisfied by
// the organization service.
type MembershipChecker interface {
	IsMember(ctx context.Context, orgID, userID snowflake.ID) (bool, error)
}

type CreateRequest struct {
	Title       string
	Description string
}

type UpdateRequest struct {
	Title       *string
	Description *string
	Status      *Status
}

type Response struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	ProductID   string    `json:"product_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	VotesCount  int       `json:"votes_count"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type VoteResponse struct {
	FeatureRequestID string `json:"feature_request_id"`
	Vote             int    `json:"vote"`
}

var (
	ErrInvalidTitle  = errors.New("invalid_feature_request_title")
	ErrInvalidStatus = errors.New("invalid_feature_request_status")
	ErrForbidden     = errors.New("feature_request_forbidden")
	ErrNotFound      = errors.New("feature_request_not_found")
)
