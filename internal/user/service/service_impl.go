package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/user/domain"
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
		log:       p.Log.Named("user.service"),
		repo:      p.Repo,
		genID:     p.GenID,
		publisher: p.Publisher,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.Response, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:          s.genID.Generate(),
		Email:       email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toResponse(user), nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Response, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(*user), nil
}

func (s *service) Activate(ctx context.Context, orgID, userID snowflake.ID) error {
	changed, err := s.repo.SetActive(ctx, userID, true)
	if err != nil {
		return err
	}
	if changed {
		s.publisher.Publish(ctx, event.UserActivated{OrgID: orgID, UserID: userID})
	}
	return nil
}

func (s *service) Deactivate(ctx context.Context, orgID, userID snowflake.ID) error {
	changed, err := s.repo.SetActive(ctx, userID, false)
	if err != nil {
		return err
	}
	if changed {
		s.publisher.Publish(ctx, event.UserDeactivated{OrgID: orgID, UserID: userID})
	}
	return nil
}

func toResponse(user domain.User) *domain.Response {
	return &domain.Response{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Active:      user.Active,
		CreatedAt:   user.CreatedAt,
	}
}
