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

type CreateRequest struct {
	Title       string
	Description string
	Priority    Priority
	Estimation  *int
	AssignedTo  *string
}

type UpdateRequest struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	Estimation  *int
	AssignedTo  *string
}

type Response struct {
	ID          string     `json:"id"`
	OrgID       string     `json:"org_id"`
	ProductID   string     `json:"product_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Estimation  *int       `json:"estimation,omitempty"`
	AssignedTo  *string    `json:"assignedTo,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

var (
	ErrInvalidTitle    = errors.New("invalid_title")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidPriority = errors.New("invalid_priority")
	ErrInvalidAssignee = errors.New("invalid_assignee")
	ErrNotFound        = errors.New("work_item_not_found")
)
