package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/feed/domain"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Events event.Publisher
}

type service struct {
	log    *zap.Logger
	repo   domain.Repository
	genID  *snowflake.Node
	events event.Publisher
}

func New(p Params) domain.Service {
	return &service{
		log:    p.Log.Named("feed.service"),
		repo:   p.Repo,
		genID:  p.GenID,
		events: p.Events,
	}
}

func (s *service) PostTextItem(ctx context.Context, actorID, orgID snowflake.ID, req domain.PostTextRequest) (*domain.Response, error) {
	title := strings.TrimSpace(req.Title)
	text := strings.TrimSpace(req.Text)
	if title == "" && text == "" {
		return nil, domain.ErrEmptyText
	}

	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	item := domain.FeedItem{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		UserID:     &actorID,
		Title:      title,
		EntityType: "feed",
		Action:     domain.ActionPosted,
		Content:    datatypes.JSON(content),
		CreatedAt:  time.Now().UTC(),
	}
	// a text post is its own entity
	item.EntityID = item.ID

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, event.FeedTextPosted{
		OrgID:  orgID,
		UserID: actorID,
		Title:  title,
		Text:   text,
	})

	return toResponse(item), nil
}

func (s *service) List(ctx context.Context, orgID snowflake.ID, page pagination.Pagination) ([]domain.Response, error) {
	limit, offset := page.Apply()
	items, err := s.repo.List(ctx, orgID, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, *toResponse(item))
	}
	return resp, nil
}

func toResponse(item domain.FeedItem) *domain.Response {
	resp := &domain.Response{
		ID:         item.ID.String(),
		OrgID:      item.OrgID.String(),
		Title:      item.Title,
		EntityType: item.EntityType,
		EntityID:   item.EntityID.String(),
		Action:     item.Action,
		CreatedAt:  item.CreatedAt,
	}
	if item.UserID != nil {
		resp.UserID = item.UserID.String()
	}
	if len(item.Content) > 0 {
		var content map[string]any
		if err := json.Unmarshal(item.Content, &content); err == nil {
			resp.Content = content
		}
	}
	return resp
}
