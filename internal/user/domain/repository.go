package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, id snowflake.ID) (*User, error)
	SetActive(ctx context.Context, id snowflake.ID, active bool) (bool, error)
}
