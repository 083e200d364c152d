package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/northstar/internal/entitlement"
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/organization/domain"
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
		log:       p.Log.Named("organization.service"),
		repo:      p.Repo,
		genID:     p.GenID,
		publisher: p.Publisher,
	}
}

func (s *service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateOrganizationRequest) (*domain.OrganizationResponse, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	orgID := s.genID.Generate()
	org := domain.Organization{
		ID:                 orgID,
		Name:               name,
		Slug:               slug.Make(name),
		Plan:               string(entitlement.PlanFree),
		SubscriptionStatus: "none",
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrganization(ctx, org); err != nil {
			return err
		}

		member := domain.OrganizationMember{
			ID:        s.genID.Generate(),
			OrgID:     orgID,
			UserID:    userID,
			Role:      domain.RoleOwner,
			CreatedAt: now,
		}

		return repo.AddMember(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(org)
	s.publisher.Publish(ctx, event.OrgCreated{
		OrgID:   orgID,
		UserID:  userID,
		Content: resp,
	})

	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.OrganizationResponse, error) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	org, err := s.repo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}

	return toResponse(*org), nil
}

func (s *service) ListOrganizationsByUser(ctx context.Context, userID snowflake.ID) ([]domain.OrganizationListResponseItem, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	items, err := s.repo.ListOrganizationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.OrganizationListResponseItem, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.OrganizationListResponseItem{
			ID:        item.ID.String(),
			Name:      item.Name,
			Role:      item.Role,
			CreatedAt: item.CreatedAt,
		})
	}

	return resp, nil
}

func (s *service) IsMember(ctx context.Context, orgID, userID snowflake.ID) (bool, error) {
	if orgID == 0 || userID == 0 {
		return false, nil
	}
	return s.repo.IsMember(ctx, orgID, userID)
}

func (s *service) UpdateBilling(ctx context.Context, req domain.UpdateBillingRequest) error {
	if req.OrgID == 0 {
		return domain.ErrInvalidOrganization
	}

	req.Plan = string(entitlement.ParsePlan(req.Plan))
	if err := s.repo.UpdateBilling(ctx, req); err != nil {
		return err
	}

	s.log.Info("organization billing updated",
		zap.String("org_id", req.OrgID.String()),
		zap.String("plan", req.Plan),
		zap.String("subscription_status", req.SubscriptionStatus),
	)
	return nil
}

func toResponse(org domain.Organization) *domain.OrganizationResponse {
	return &domain.OrganizationResponse{
		ID:                 org.ID.String(),
		Name:               org.Name,
		Slug:               org.Slug,
		Plan:               org.Plan,
		SubscriptionStatus: org.SubscriptionStatus,
		CreatedAt:          org.CreatedAt,
	}
}
