// Package public serves the unauthenticated build-in-public mirror. Every
// read is gated by BipSettings flags rather than the billing plan, and
// responses are redacted copies; stored rows are never mutated.
package public

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	bipdomain "github.com/smallbiznis/northstar/internal/bip/domain"
	feeddomain "github.com/smallbiznis/northstar/internal/feed/domain"
	frdomain "github.com/smallbiznis/northstar/internal/featurerequest/domain"
	issuedomain "github.com/smallbiznis/northstar/internal/issue/domain"
	okrdomain "github.com/smallbiznis/northstar/internal/okr/domain"
	workitemdomain "github.com/smallbiznis/northstar/internal/workitem/domain"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrNotPublic hides disabled pages and unknown products equally; the HTTP
// boundary maps it to 404.
var ErrNotPublic = errors.New("not_public")

type Service interface {
	Objectives(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]okrdomain.Response, error)
	Roadmap(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]workitemdomain.Response, error)
	Iterations(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]workitemdomain.Response, error)
	ActiveIterations(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]workitemdomain.Response, error)
	Feed(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]feeddomain.Response, error)
	Issues(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]issuedomain.Response, error)
	FeatureRequests(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]frdomain.Response, error)
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Settings  bipdomain.Service
	OKRs      okrdomain.Service
	WorkItems workitemdomain.Service
	FeedSvc   feeddomain.Service
	Issues    issuedomain.Repository
	Requests  frdomain.Repository
}

type service struct {
	log       *zap.Logger
	settings  bipdomain.Service
	okrs      okrdomain.Service
	workItems workitemdomain.Service
	feed      feeddomain.Service
	issues    issuedomain.Repository
	requests  frdomain.Repository
}

func New(p Params) Service {
	return &service{
		log:       p.Log.Named("public.service"),
		settings:  p.Settings,
		okrs:      p.OKRs,
		workItems: p.WorkItems,
		feed:      p.FeedSvc,
		issues:    p.Issues,
		requests:  p.Requests,
	}
}

// requirePage loads the product's settings and checks the master switch
// plus one page flag. Missing settings read the same as a disabled page.
func (s *service) requirePage(ctx context.Context, orgID, productID snowflake.ID, flag func(*bipdomain.BipSettings) bool) error {
	settings, err := s.settings.Get(ctx, orgID, productID)
	if errors.Is(err, bipdomain.ErrNotFound) {
		return ErrNotPublic
	}
	if err != nil {
		return err
	}
	if !settings.IsBuildInPublicEnabled || !flag(settings) {
		return ErrNotPublic
	}
	return nil
}

func (s *service) Objectives(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]okrdomain.Response, error) {
	err := s.requirePage(ctx, orgID, productID, func(b *bipdomain.BipSettings) bool { return b.IsObjectivesPagePublic })
	if err != nil {
		return nil, err
	}
	return s.okrs.List(ctx, okrdomain.Scope{OrgID: orgID, ProductID: productID}, page)
}

func (s *service) Roadmap(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]workitemdomain.Response, error) {
	err := s.requirePage(ctx, orgID, productID, func(b *bipdomain.BipSettings) bool { return b.IsRoadmapPagePublic })
	if err != nil {
		return nil, err
	}
	items, err := s.workItems.List(ctx, workitemdomain.Scope{OrgID: orgID, ProductID: productID}, page)
	if err != nil {
		return nil, err
	}
	return redactWorkItems(items), nil
}

func (s *service) Iterations(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]workitemdomain.Response, error) {
	err := s.requirePage(ctx, orgID, productID, func(b *bipdomain.BipSettings) bool { return b.IsIterationsPagePublic })
	if err != nil {
		return nil, err
	}
	return s.listByStatus(ctx, orgID, productID, page, workitemdomain.StatusPlanned, workitemdomain.StatusInProgress)
}

func (s *service) ActiveIterations(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]workitemdomain.Response, error) {
	err := s.requirePage(ctx, orgID, productID, func(b *bipdomain.BipSettings) bool { return b.IsActiveIterationsPagePublic })
	if err != nil {
		return nil, err
	}
	return s.listByStatus(ctx, orgID, productID, page, workitemdomain.StatusInProgress)
}

func (s *service) listByStatus(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination, statuses ...workitemdomain.Status) ([]workitemdomain.Response, error) {
	items, err := s.workItems.List(ctx, workitemdomain.Scope{OrgID: orgID, ProductID: productID}, page)
	if err != nil {
		return nil, err
	}

	keep := make(map[workitemdomain.Status]bool, len(statuses))
	for _, st := range statuses {
		keep[st] = true
	}

	filtered := make([]workitemdomain.Response, 0, len(items))
	for _, item := range items {
		if keep[item.Status] {
			filtered = append(filtered, item)
		}
	}
	return redactWorkItems(filtered), nil
}

func (s *service) Feed(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]feeddomain.Response, error) {
	err := s.requirePage(ctx, orgID, productID, func(b *bipdomain.BipSettings) bool { return b.IsFeedPagePublic })
	if err != nil {
		return nil, err
	}
	items, err := s.feed.List(ctx, orgID, page)
	if err != nil {
		return nil, err
	}

	redacted := make([]feeddomain.Response, 0, len(items))
	for _, item := range items {
		redacted = append(redacted, redactFeedItem(item))
	}
	return redacted, nil
}

// Issues and feature requests go straight to the repositories: these pages
// are visible when their flags say so, independent of the org's plan.
func (s *service) Issues(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]issuedomain.Response, error) {
	err := s.requirePage(ctx, orgID, productID, func(b *bipdomain.BipSettings) bool { return b.IsIssuesPagePublic })
	if err != nil {
		return nil, err
	}

	limit, offset := page.Apply()
	items, err := s.issues.List(ctx, issuedomain.Scope{OrgID: orgID, ProductID: productID}, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := make([]issuedomain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, issuedomain.Response{
			ID:          item.ID.String(),
			OrgID:       item.OrgID.String(),
			ProductID:   item.ProductID.String(),
			Title:       item.Title,
			Description: item.Description,
			Status:      item.Status,
			Priority:    item.Priority,
			CreatedBy:   item.CreatedBy.String(),
			CreatedAt:   item.CreatedAt,
		})
	}
	return resp, nil
}

func (s *service) FeatureRequests(ctx context.Context, orgID, productID snowflake.ID, page pagination.Pagination) ([]frdomain.Response, error) {
	err := s.requirePage(ctx, orgID, productID, func(b *bipdomain.BipSettings) bool { return b.IsFeatureRequestsPagePublic })
	if err != nil {
		return nil, err
	}

	limit, offset := page.Apply()
	items, err := s.requests.List(ctx, frdomain.Scope{OrgID: orgID, ProductID: productID}, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := make([]frdomain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, frdomain.Response{
			ID:          item.ID.String(),
			OrgID:       item.OrgID.String(),
			ProductID:   item.ProductID.String(),
			Title:       item.Title,
			Description: item.Description,
			Status:      item.Status,
			VotesCount:  item.VotesCount,
			CreatedBy:   item.CreatedBy.String(),
			CreatedAt:   item.CreatedAt,
		})
	}
	return resp, nil
}
