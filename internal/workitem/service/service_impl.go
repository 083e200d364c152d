package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/workitem/domain"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Publisher event.Publisher
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	genID     *snowflake.Node
	publisher event.Publisher
}

func New(p Params) domain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("workitem.service"),
		repo:      p.Repo,
		genID:     p.GenID,
		publisher: p.Publisher,
	}
}

func (s *service) Create(ctx context.Context, actorID snowflake.ID, scope domain.Scope, req domain.CreateRequest) (*domain.Response, error) {
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

	assignedTo, err := parseAssignee(req.AssignedTo)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := domain.WorkItem{
		ID:          s.genID.Generate(),
		OrgID:       scope.OrgID,
		ProductID:   scope.ProductID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      domain.StatusBacklog,
		Priority:    priority,
		Estimation:  req.Estimation,
		AssignedTo:  assignedTo,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	resp := toResponse(item)
	s.publisher.Publish(ctx, event.WorkItemCreated{Lifecycle: event.Lifecycle{
		OrgID:      scope.OrgID,
		UserID:     actorID,
		EntityType: "workItem",
		EntityID:   item.ID,
		Title:      item.Title,
		Content:    resp,
	}})

	return resp, nil
}

func (s *service) List(ctx context.Context, scope domain.Scope, page pagination.Pagination) ([]domain.Response, error) {
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
	item, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(*item), nil
}

func (s *service) Update(ctx context.Context, actorID snowflake.ID, scope domain.Scope, id snowflake.ID, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	previous := toResponse(*item)

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		item.Title = title
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, domain.ErrInvalidStatus
		}
		item.Status = *req.Status
		if *req.Status == domain.StatusDone && item.CompletedAt == nil {
			completed := time.Now().UTC()
			item.CompletedAt = &completed
		}
	}
	if req.Priority != nil {
		if !domain.ValidPriority(*req.Priority) {
			return nil, domain.ErrInvalidPriority
		}
		item.Priority = *req.Priority
	}
	if req.Estimation != nil {
		item.Estimation = req.Estimation
	}
	if req.AssignedTo != nil {
		assignedTo, err := parseAssignee(req.AssignedTo)
		if err != nil {
			return nil, err
		}
		item.AssignedTo = assignedTo
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	current := toResponse(*item)
	s.publisher.Publish(ctx, event.WorkItemUpdated{
		Lifecycle: event.Lifecycle{
			OrgID:      scope.OrgID,
			UserID:     actorID,
			EntityType: "workItem",
			EntityID:   item.ID,
			Title:      item.Title,
		},
		Previous: previous,
		Current:  current,
	})

	return current, nil
}

func (s *service) Delete(ctx context.Context, actorID snowflake.ID, scope domain.Scope, id snowflake.ID) error {
	item, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	deleted, err := s.repo.Delete(ctx, scope, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.publisher.Publish(ctx, event.WorkItemDeleted{Lifecycle: event.Lifecycle{
		OrgID:      scope.OrgID,
		UserID:     actorID,
		EntityType: "workItem",
		EntityID:   id,
		Title:      item.Title,
		Content:    toResponse(*item),
	}})
	return nil
}

func parseAssignee(raw *string) (*snowflake.ID, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(value)
	if err != nil {
		return nil, domain.ErrInvalidAssignee
	}
	return &parsed, nil
}

func toResponse(item domain.WorkItem) *domain.Response {
	resp := &domain.Response{
		ID:          item.ID.String(),
		OrgID:       item.OrgID.String(),
		ProductID:   item.ProductID.String(),
		Title:       item.Title,
		Description: item.Description,
		Status:      item.Status,
		Priority:    item.Priority,
		Estimation:  item.Estimation,
		CreatedBy:   item.CreatedBy.String(),
		CreatedAt:   item.CreatedAt,
		CompletedAt: item.CompletedAt,
	}
	if item.AssignedTo != nil {
		assigned := item.AssignedTo.String()
		resp.AssignedTo = &assigned
	}
	return resp
}
