package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/entitlement"
	"github.com/smallbiznis/northstar/internal/featurerequest/domain"
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
		log:        p.Log.Named("featurerequest.service"),
		repo:       p.Repo,
		genID:      p.GenID,
		gate:       p.Gate,
		membership: p.Membership,
	}
}

// Feature requests follow the issue board's gating: every operation,
// reads included, requires a premium plan.
func (s *service) Create(ctx context.Context, actorID snowflake.ID, scope domain.Scope, req domain.CreateRequest) (*domain.Response, error) {
	if err := s.gate.Require(ctx, scope.OrgID, entitlement.PlanPremium, "create a feature request"); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	now := time.Now().UTC()
	request := domain.FeatureRequest{
		ID:          s.genID.Generate(),
		OrgID:       scope.OrgID,
		ProductID:   scope.ProductID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      domain.StatusOpen,
		VotesCount:  0,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	return toResponse(request), nil
}

func (s *service) List(ctx context.Context, scope domain.Scope, page pagination.Pagination) ([]domain.Response, error) {
	if err := s.gate.Require(ctx, scope.OrgID, entitlement.PlanPremium, "view feature requests"); err != nil {
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
	if err := s.gate.Require(ctx, scope.OrgID, entitlement.PlanPremium, "view a feature request"); err != nil {
		return nil, err
	}

	request, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(*request), nil
}

func (s *service) Update(ctx context.Context, actorID snowflake.ID, scope domain.Scope, id snowflake.ID, req domain.UpdateRequest) (*domain.Response, error) {
	if err := s.gate.Require(ctx, scope.OrgID, entitlement.PlanPremium, "update a feature request"); err != nil {
		return nil, err
	}

	request, err := s.authorize(ctx, actorID, scope, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		request.Title = title
	}
	if req.Description != nil {
		request.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, domain.ErrInvalidStatus
		}
		request.Status = *req.Status
	}
	request.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, err
	}
	return toResponse(*request), nil
}

func (s *service) Delete(ctx context.Context, actorID snowflake.ID, scope domain.Scope, id snowflake.ID) error {
	if err := s.gate.Require(ctx, scope.OrgID, entitlement.PlanPremium, "delete a feature request"); err != nil {
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

func (s *service) Upvote(ctx context.Context, userID, orgID, featureRequestID snowflake.ID) error {
	if err := s.gate.Require(ctx, orgID, entitlement.PlanPremium, "upvote a feature request"); err != nil {
		return err
	}
	return s.castVote(ctx, userID, orgID, featureRequestID, domain.VoteUp)
}

func (s *service) Downvote(ctx context.Context, userID, orgID, featureRequestID snowflake.ID) error {
	if err := s.gate.Require(ctx, orgID, entitlement.PlanPremium, "downvote a feature request"); err != nil {
		return err
	}
	return s.castVote(ctx, userID, orgID, featureRequestID, domain.VoteDown)
}

// castVote upserts the user's vote row and resets the denormalized counter
// from the vote rows, in one transaction. A repeated identical vote is a
// no-op, a flip from -1 to +1 moves the counter by 2. Recounting instead of
// adding a delta keeps votes_count equal to the row sum even when two casts
// by the same user race.
func (s *service) castVote(ctx context.Context, userID, orgID, featureRequestID snowflake.ID, value int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := repo.FindByIDInOrg(ctx, orgID, featureRequestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}

		now := time.Now().UTC()
		vote, err := repo.FindVote(ctx, userID, featureRequestID)
		if err != nil {
			return err
		}

		previous := domain.VoteNeutral
		if vote != nil {
			previous = vote.Vote
		}
		delta := value - previous
		if delta == 0 {
			return nil
		}

		if vote == nil {
			err = repo.CreateVote(ctx, domain.FeatureRequestVote{
				ID:               s.genID.Generate(),
				UserID:           userID,
				FeatureRequestID: featureRequestID,
				OrgID:            orgID,
				Vote:             value,
				CreatedAt:        now,
				UpdatedAt:        now,
			})
		} else {
			vote.Vote = value
			vote.UpdatedAt = now
			err = repo.UpdateVote(ctx, vote)
		}
		if err != nil {
			return err
		}

		return repo.RecountVotes(ctx, featureRequestID)
	})
}

func (s *service) GetVotes(ctx context.Context, userID, orgID snowflake.ID) ([]domain.VoteResponse, error) {
	if err := s.gate.Require(ctx, orgID, entitlement.PlanPremium, "view feature request votes"); err != nil {
		return nil, err
	}

	votes, err := s.repo.ListVotesByUser(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.VoteResponse, 0, len(votes))
	for _, vote := range votes {
		resp = append(resp, domain.VoteResponse{
			FeatureRequestID: vote.FeatureRequestID.String(),
			Vote:             vote.Vote,
		})
	}
	return resp, nil
}

func (s *service) authorize(ctx context.Context, actorID snowflake.ID, scope domain.Scope, id snowflake.ID) (*domain.FeatureRequest, error) {
	request, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}

	if request.CreatedBy != actorID {
		return nil, domain.ErrForbidden
	}

	member, err := s.membership.IsMember(ctx, scope.OrgID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrForbidden
	}

	return request, nil
}

func toResponse(request domain.FeatureRequest) *domain.Response {
	return &domain.Response{
		ID:          request.ID.String(),
		OrgID:       request.OrgID.String(),
		ProductID:   request.ProductID.String(),
		Title:       request.Title,
		Description: request.Description,
		Status:      request.Status,
		VotesCount:  request.VotesCount,
		CreatedBy:   request.CreatedBy.String(),
		CreatedAt:   request.CreatedAt,
	}
}
