package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/comment/domain"
	"github.com/smallbiznis/northstar/internal/entitlement"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Gate  *entitlement.Resolver
}

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	gate  *entitlement.Resolver
}

func New(p Params) domain.Service {
	return &service{
		log:   p.Log.Named("comment.service"),
		repo:  p.Repo,
		genID: p.GenID,
		gate:  p.Gate,
	}
}

func (s *service) Add(ctx context.Context, actorID, orgID snowflake.ID, req domain.AddRequest) (*domain.Response, error) {
	if err := s.gate.Require(ctx, orgID, entitlement.PlanPremium, "add a comment"); err != nil {
		return nil, err
	}

	if !domain.ValidParentType(req.ParentType) {
		return nil, domain.ErrInvalidParentType
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	exists, err := s.repo.ParentExists(ctx, orgID, req.ParentType, req.ParentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	now := time.Now().UTC()
	comment := domain.Comment{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		ParentType: req.ParentType,
		ParentID:   req.ParentID,
		Content:    content,
		CreatedBy:  actorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return toResponse(comment), nil
}

func (s *service) ListByParent(ctx context.Context, orgID snowflake.ID, parentType domain.ParentType, parentID snowflake.ID, page pagination.Pagination) ([]domain.Response, error) {
	if !domain.ValidParentType(parentType) {
		return nil, domain.ErrInvalidParentType
	}

	limit, offset := page.Apply()
	comments, err := s.repo.ListByParent(ctx, orgID, parentType, parentID, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(comments))
	for _, comment := range comments {
		resp = append(resp, *toResponse(comment))
	}
	return resp, nil
}

// Update only sees comments the actor wrote: editing someone else's
// comment yields the same not-found as a comment that never existed.
func (s *service) Update(ctx context.Context, actorID, orgID, commentID snowflake.ID, content string) (*domain.Response, error) {
	if err := s.gate.Require(ctx, orgID, entitlement.PlanPremium, "update a comment"); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	comment, err := s.repo.FindOwned(ctx, orgID, commentID, actorID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, domain.ErrNotFound
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return toResponse(*comment), nil
}

func (s *service) Delete(ctx context.Context, actorID, orgID, commentID snowflake.ID) error {
	if err := s.gate.Require(ctx, orgID, entitlement.PlanPremium, "delete a comment"); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteOwned(ctx, orgID, commentID, actorID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func toResponse(comment domain.Comment) *domain.Response {
	return &domain.Response{
		ID:         comment.ID.String(),
		OrgID:      comment.OrgID.String(),
		ParentType: comment.ParentType,
		ParentID:   comment.ParentID.String(),
		Content:    comment.Content,
		CreatedBy:  comment.CreatedBy.String(),
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}
