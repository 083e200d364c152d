package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, orgID snowflake.ID, req CreateRequest) (*Response, error)
	List(ctx context.Context, orgID snowflake.ID) ([]Response, error)
	GetByID(ctx context.Context, orgID, id snowflake.ID) (*Response, error)
	Update(ctx context.Context, orgID, id snowflake.ID, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, orgID, id snowflake.ID) error
}

type CreateRequest struct {
	Name string
}

type UpdateRequest struct {
	Name *string
}

type Response struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrNotFound            = errors.New("product_not_found")
)
