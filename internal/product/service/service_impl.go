package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/product/domain"
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
		log:       p.Log.Named("product.service"),
		repo:      p.Repo,
		genID:     p.GenID,
		publisher: p.Publisher,
	}
}

func (s *service) Create(ctx context.Context, orgID snowflake.ID, req domain.CreateRequest) (*domain.Response, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, event.ProductCreated{OrgID: orgID, ProductID: product.ID})

	return toResponse(product), nil
}

func (s *service) List(ctx context.Context, orgID snowflake.ID) ([]domain.Response, error) {
	items, err := s.repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, *toResponse(item))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, orgID, id snowflake.ID) (*domain.Response, error) {
	product, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(*product), nil
}

func (s *service) Update(ctx context.Context, orgID, id snowflake.ID, req domain.UpdateRequest) (*domain.Response, error) {
	product, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		product.Name = name
		product.Slug = slug.Make(name)
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toResponse(*product), nil
}

func (s *service) Delete(ctx context.Context, orgID, id snowflake.ID) error {
	deleted, err := s.repo.Delete(ctx, orgID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func toResponse(product domain.Product) *domain.Response {
	return &domain.Response{
		ID:        product.ID.String(),
		OrgID:     product.OrgID.String(),
		Name:      product.Name,
		Slug:      product.Slug,
		CreatedAt: product.CreatedAt,
	}
}
