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
	KeyResults  []CreateKeyResultRequest
}

type CreateKeyResultRequest struct {
	Title string
}

type UpdateRequest struct {
	Title       *string
	Description *string
	Status      *ObjectiveStatus
	Progress    *int
}

type Response struct {
	ID          string              `json:"id"`
	OrgID       string              `json:"org_id"`
	ProductID   string              `json:"product_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      ObjectiveStatus     `json:"status"`
	Progress    int                 `json:"progress"`
	CreatedBy   string              `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	KeyResults  []KeyResultResponse `json:"key_results"`
}

type KeyResultResponse struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Status   ObjectiveStatus `json:"status"`
	Progress int             `json:"progress"`
}

var (
	ErrInvalidTitle  = errors.New("invalid_title")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrNotFound      = errors.New("objective_not_found")
)

// ValidStatus reports whether raw is a known objective status.
func ValidStatus(raw ObjectiveStatus) bool {
	switch raw {
	case StatusOnTrack, StatusAtRisk, StatusOffTrack, StatusDone:
		return true
	default:
		return false
	}
}
