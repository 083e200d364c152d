package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/bip/domain"
	"github.com/smallbiznis/northstar/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &service{
		log:   p.Log.Named("bip.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *service) Get(ctx context.Context, orgID, productID snowflake.ID) (*domain.BipSettings, error) {
	settings, err := s.repo.FindByProduct(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrNotFound
	}
	return settings, nil
}

func (s *service) Update(ctx context.Context, orgID, productID snowflake.ID, req domain.UpdateRequest) (*domain.BipSettings, error) {
	settings, err := s.repo.FindByProduct(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrNotFound
	}

	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&settings.IsBuildInPublicEnabled, req.IsBuildInPublicEnabled)
	apply(&settings.IsObjectivesPagePublic, req.IsObjectivesPagePublic)
	apply(&settings.IsRoadmapPagePublic, req.IsRoadmapPagePublic)
	apply(&settings.IsIterationsPagePublic, req.IsIterationsPagePublic)
	apply(&settings.IsActiveIterationsPagePublic, req.IsActiveIterationsPagePublic)
	apply(&settings.IsFeedPagePublic, req.IsFeedPagePublic)
	apply(&settings.IsIssuesPagePublic, req.IsIssuesPagePublic)
	apply(&settings.IsFeatureRequestsPagePublic, req.IsFeatureRequestsPagePublic)
	settings.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *service) EnsureDefaults(ctx context.Context, orgID, productID snowflake.ID) error {
	existing, err := s.repo.FindByProduct(ctx, orgID, productID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	settings := domain.Defaults(s.genID.Generate(), orgID, productID, time.Now().UTC())
	err = s.repo.Create(ctx, settings)
	if err != nil && db.IsDuplicateKeyErr(err) {
		// lost a race with another provisioner; the row is there
		return nil
	}
	return err
}
