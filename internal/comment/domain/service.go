package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
)

type Service interface {
	Add(ctx context.Context, actorID, orgID snowflake.ID, req AddRequest) (*Response, error)
	ListByParent(ctx context.Context, orgID snowflake.ID, parentType ParentType, parentID snowflake.ID, page pagination.Pagination) ([]Response, error)
	Update(ctx context.Context, actorID, orgID, commentID snowflake.ID, content string) (*Response, error)
	Delete(ctx context.Context, actorID, orgID, commentID snowflake.ID) error
}

type AddRequest struct {
	ParentType ParentType
	ParentID   snowflake.ID
	Content    string
}

type Response struct {
	ID         string     `json:"id"`
	OrgID      string     `json:"org_id"`
	ParentType ParentType `json:"parent_type"`
	ParentID   string     `json:"parent_id"`
	Content    string     `json:"content"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

var (
	ErrInvalidParentType = errors.New("invalid_comment_parent_type")
	ErrEmptyContent      = errors.New("empty_comment_content")
	ErrNotFound          = errors.New("comment_not_found")
)
