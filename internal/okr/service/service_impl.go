package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/okr/domain"
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
		log:       p.Log.Named("okr.service"),
		repo:      p.Repo,
		genID:     p.GenID,
		publisher: p.Publisher,
	}
}

// Create persists an objective with its key results. OKRs are available on
// every plan; only comment actions on them are gated.
func (s *service) Create(ctx context.Context, actorID snowflake.ID, scope domain.Scope, req domain.CreateRequest) (*domain.Response, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	now := time.Now().UTC()
	objective := domain.Objective{
		ID:          s.genID.Generate(),
		OrgID:       scope.OrgID,
		ProductID:   scope.ProductID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      domain.StatusOnTrack,
		Progress:    0,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, kr := range req.KeyResults {
		krTitle := strings.TrimSpace(kr.Title)
		if krTitle == "" {
			return nil, domain.ErrInvalidTitle
		}
		objective.KeyResults = append(objective.KeyResults, domain.KeyResult{
			ID:          s.genID.Generate(),
			ObjectiveID: objective.ID,
			Title:       krTitle,
			Status:      domain.StatusOnTrack,
			Progress:    0,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.repo.Create(ctx, objective); err != nil {
		return nil, err
	}

	resp := toResponse(objective)
	s.publisher.Publish(ctx, event.OKRCreated{Lifecycle: event.Lifecycle{
		OrgID:      scope.OrgID,
		UserID:     actorID,
		EntityType: "okr",
		EntityID:   objective.ID,
		Title:      objective.Title,
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
	objective, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if objective == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(*objective), nil
}

func (s *service) Update(ctx context.Context, actorID snowflake.ID, scope domain.Scope, id snowflake.ID, req domain.UpdateRequest) (*domain.Response, error) {
	objective, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if objective == nil {
		return nil, domain.ErrNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		objective.Title = title
	}
	if req.Description != nil {
		objective.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, domain.ErrInvalidStatus
		}
		objective.Status = *req.Status
		if *req.Status == domain.StatusDone && objective.CompletedAt == nil {
			completed := time.Now().UTC()
			objective.CompletedAt = &completed
		}
	}
	if req.Progress != nil {
		progress := *req.Progress
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}
		objective.Progress = progress
	}
	objective.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, objective); err != nil {
		return nil, err
	}

	return toResponse(*objective), nil
}

func (s *service) Delete(ctx context.Context, actorID snowflake.ID, scope domain.Scope, id snowflake.ID) error {
	objective, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if objective == nil {
		return domain.ErrNotFound
	}

	deleted, err := s.repo.Delete(ctx, scope, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.publisher.Publish(ctx, event.OKRDeleted{Lifecycle: event.Lifecycle{
		OrgID:      scope.OrgID,
		UserID:     actorID,
		EntityType: "okr",
		EntityID:   id,
		Title:      objective.Title,
		Content:    toResponse(*objective),
	}})
	return nil
}

func toResponse(objective domain.Objective) *domain.Response {
	resp := &domain.Response{
		ID:          objective.ID.String(),
		OrgID:       objective.OrgID.String(),
		ProductID:   objective.ProductID.String(),
		Title:       objective.Title,
		Description: objective.Description,
		Status:      objective.Status,
		Progress:    objective.Progress,
		CreatedBy:   objective.CreatedBy.String(),
		CreatedAt:   objective.CreatedAt,
		CompletedAt: objective.CompletedAt,
		KeyResults:  make([]domain.KeyResultResponse, 0, len(objective.KeyResults)),
	}
	for _, kr := range objective.KeyResults {
		resp.KeyResults = append(resp.KeyResults, domain.KeyResultResponse{
			ID:       kr.ID.String(),
			Title:    kr.Title,
			Status:   kr.Status,
			Progress: kr.Progress,
		})
	}
	return resp
}
