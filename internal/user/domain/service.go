package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*Response, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Response, error)
	Activate(ctx context.Context, orgID, userID snowflake.ID) error
	Deactivate(ctx context.Context, orgID, userID snowflake.ID) error
}

type CreateUserRequest struct {
	Email       string
	DisplayName string
}

type Response struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrInvalidEmail = errors.New("invalid_email")
	ErrNotFound     = errors.New("user_not_found")
)
