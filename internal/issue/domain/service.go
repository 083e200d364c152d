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
}

// MembershipChecker answers whether a user belongs to an org; satisfied by
// the organization service.
type MembershipChecker interface {
	IsMember(ctx context.Context, orgID, userID snowflake.ID) (bool, error)
}

type CreateRequest struct {
	Title       string
	Description string
	Priority    Priority
}

type UpdateRequest struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
}

type Response struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	ProductID   string    `json:"product_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrInvalidTitle    = errors.New("invalid_title")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidPriority = errors.New("invalid_priority")
	ErrForbidden       = errors.New("issue_forbidden")
	ErrNotFound        = errors.New("issue_not_found")
)
