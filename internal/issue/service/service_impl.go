package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/entitlement"
	"github.com/smallbiznis/northstar/internal/issue/domain"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Gate       *entitlement.Resolver
	Membership domain.MembershipChecker
}

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	genID      *snowflake.Node
	gate       *entitlement.Resolver
	membership domain.MembershipChecker
}

func New(p Params) domain.Service {
	return &service{
		db:         p.DB,
		log:        p.Log.Named("issue.service"),
		repo:       p.Repo,
		genID:      p.GenID,
		gate:       p.Gate,
		membership: p.Membership,
	}
}

// Issues are premium-only end to end: list and get are gated too, unlike
// OKRs where only comment actions require the plan.
func (s *service) Create(ctx context.Context, actorID snowflake.ID, scope domain.Scope, req domain.CreateRequest) (*domain.Response, error) {
	if err := s.gate.Require(ctx, scope.OrgID, entitlement.PlanPremium, "create an issue"); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, domain.ErrInvalidPriority
	}

	now := time.Now().UTC()
	issue := domain.Issue{
		ID:          s.genID.Generate(),
		OrgID:       scope.OrgID,
		ProductID:   scope.ProductID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      domain.StatusOpen,
		Priority:    priority,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, issue); err != nil {
		return nil, err
	}

	return toResponse(issue), nil
}

func (s *service) List(ctx context.Context, scope domain.Scope, page pagination.Pagination) ([]domain.Response, error) {
	if err := s.gate.Require(ctx, scope.OrgID, entitlement.PlanPremium, "view issues"); err != nil {
		return nil, err
	}

	limit, offset := page.Apply()
	items, err := s.repo.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, *toResponse(item))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, scope domain.Scope, id snowflake.ID) (*domain.Response, error) {
	if err := s.gate.Require(ctx, scope.OrgID, entitlement.PlanPremium, "view an issue"); err != nil {
		return nil, err
	}

	issue, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(*issue), nil
}

func (s *service) Update(ctx context.Context, actorID snowflake.ID, scope domain.Scope, id snowflake.ID, req domain.UpdateRequest) (*domain.Response, error) {
	if err := s.gate.Require(ctx, scope.OrgID, entitlement.PlanPremium, "update an issue"); err != nil {
		return nil, err
	}

	issue, err := s.authorize(ctx, actorID, scope, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		issue.Title = title
	}
	if req.Description != nil {
		issue.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, domain.ErrInvalidStatus
		}
		issue.Status = *req.Status
	}
	if req.Priority != nil {
		if !domain.ValidPriority(*req.Priority) {
			return nil, domain.ErrInvalidPriority
		}
		issue.Priority = *req.Priority
	}
	issue.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, issue); err != nil {
		return nil, err
	}
	return toResponse(*issue), nil
}

func (s *service) Delete(ctx context.Context, actorID snowflake.ID, scope domain.Scope, id snowflake.ID) error {
	if err := s.gate.Require(ctx, scope.OrgID, entitlement.PlanPremium, "delete an issue"); err != nil {
		return err
	}

	if _, err := s.authorize(ctx, actorID, scope, id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, scope, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// authorize re-fetches the issue under the claimed scope, then requires the
// actor to be both the creator and a member of the org.
func (s *service) authorize(ctx context.Context, actorID snowflake.ID, scope domain.Scope, id snowflake.ID) (*domain.Issue, error) {
	issue, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, domain.ErrNotFound
	}

	if issue.CreatedBy != actorID {
		return nil, domain.ErrForbidden
	}

	member, err := s.membership.IsMember(ctx, scope.OrgID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrForbidden
	}

	return issue, nil
}

func toResponse(issue domain.Issue) *domain.Response {
	return &domain.Response{
		ID:          issue.ID.String(),
		OrgID:       issue.OrgID.String(),
		ProductID:   issue.ProductID.String(),
		Title:       issue.Title,
		Description: issue.Description,
		Status:      issue.Status,
		Priority:    issue.Priority,
		CreatedBy:   issue.CreatedBy.String(),
		CreatedAt:   issue.CreatedAt,
	}
}
