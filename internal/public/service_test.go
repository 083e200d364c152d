package public

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	bipdomain "github.com/smallbiznis/northstar/internal/bip/domain"
	feeddomain "github.com/smallbiznis/northstar/internal/feed/domain"
	issuedomain "github.com/smallbiznis/northstar/internal/issue/domain"
	okrdomain "github.com/smallbiznis/northstar/internal/okr/domain"
	workitemdomain "github.com/smallbiznis/northstar/internal/workitem/domain"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
	"go.uber.org/zap"
)

type settingsStub struct {
	settings *bipdomain.BipSettings
}

func (s *settingsStub) Get(ctx context.Context, orgID, productID snowflake.ID) (*bipdomain.BipSettings, error) {
	if s.settings == nil {
		return nil, bipdomain.ErrNotFound
	}
	return s.settings, nil
}

func (s *settingsStub) Update(ctx context.Context, orgID, productID snowflake.ID, req bipdomain.UpdateRequest) (*bipdomain.BipSettings, error) {
	return s.settings, nil
}

func (s *settingsStub) EnsureDefaults(ctx context.Context, orgID, productID snowflake.ID) error {
	return nil
}

type okrStub struct {
	items []okrdomain.Response
}

func (s *okrStub) Create(ctx context.Context, actorID snowflake.ID, scope okrdomain.Scope, req okrdomain.CreateRequest) (*okrdomain.Response, error) {
	return nil, nil
}
func (s *okrStub) List(ctx context.Context, scope okrdomain.Scope, page pagination.Pagination) ([]okrdomain.Response, error) {
	return s.items, nil
}
func (s *okrStub) GetByID(ctx context.Context, scope okrdomain.Scope, id snowflake.ID) (*okrdomain.Response, error) {
	return nil, nil
}
func (s *okrStub) Update(ctx context.Context, actorID snowflake.ID, scope okrdomain.Scope, id snowflake.ID, req okrdomain.UpdateRequest) (*okrdomain.Response, error) {
	return nil, nil
}
func (s *okrStub) Delete(ctx context.Context, actorID snowflake.ID, scope okrdomain.Scope, id snowflake.ID) error {
	return nil
}

type workItemStub struct {
	items []workitemdomain.Response
}

func (s *workItemStub) Create(ctx context.Context, actorID snowflake.ID, scope workitemdomain.Scope, req workitemdomain.CreateRequest) (*workitemdomain.Response, error) {
	return nil, nil
}
func (s *workItemStub) List(ctx context.Context, scope workitemdomain.Scope, page pagination.Pagination) ([]workitemdomain.Response, error) {
	return s.items, nil
}
func (s *workItemStub) GetByID(ctx context.Context, scope workitemdomain.Scope, id snowflake.ID) (*workitemdomain.Response, error) {
	return nil, nil
}
func (s *workItemStub) Update(ctx context.Context, actorID snowflake.ID, scope workitemdomain.Scope, id snowflake.ID, req workitemdomain.UpdateRequest) (*workitemdomain.Response, error) {
	return nil, nil
}
func (s *workItemStub) Delete(ctx context.Context, actorID snowflake.ID, scope workitemdomain.Scope, id snowflake.ID) error {
	return nil
}

type feedStub struct {
	items []feeddomain.Response
}

func (s *feedStub) PostTextItem(ctx context.Context, actorID, orgID snowflake.ID, req feeddomain.PostTextRequest) (*feeddomain.Response, error) {
	return nil, nil
}
func (s *feedStub) List(ctx context.Context, orgID snowflake.ID, page pagination.Pagination) ([]feeddomain.Response, error) {
	return s.items, nil
}

type issueRepoStub struct {
	items []issuedomain.Issue
}

func (s *issueRepoStub) Create(ctx context.Context, issue issuedomain.Issue) error { return nil }
func (s *issueRepoStub) List(ctx context.Context, scope issuedomain.Scope, limit, offset int) ([]issuedomain.Issue, error) {
	return s.items, nil
}
func (s *issueRepoStub) FindByID(ctx context.Context, scope issuedomain.Scope, id snowflake.ID) (*issuedomain.Issue, error) {
	return nil, nil
}
func (s *issueRepoStub) Update(ctx context.Context, issue *issuedomain.Issue) error { return nil }
func (s *issueRepoStub) Delete(ctx context.Context, scope issuedomain.Scope, id snowflake.ID) (bool, error) {
	return false, nil
}

func allPublic() *bipdomain.BipSettings {
	return &bipdomain.BipSettings{
		IsBuildInPublicEnabled:       true,
		IsObjectivesPagePublic:       true,
		IsRoadmapPagePublic:          true,
		IsIterationsPagePublic:       true,
		IsActiveIterationsPagePublic: true,
		IsFeedPagePublic:             true,
		IsIssuesPagePublic:           true,
		IsFeatureRequestsPagePublic:  true,
	}
}

func newService(settings *bipdomain.BipSettings, workItems []workitemdomain.Response, feed []feeddomain.Response, issues []issuedomain.Issue) Service {
	return New(Params{
		Log:       zap.NewNop(),
		Settings:  &settingsStub{settings: settings},
		OKRs:      &okrStub{},
		WorkItems: &workItemStub{items: workItems},
		FeedSvc:   &feedStub{items: feed},
		Issues:    &issueRepoStub{items: issues},
		Requests:  nil,
	})
}

func TestMasterSwitchHidesEveryPage(t *testing.T) {
	settings := allPublic()
	settings.IsBuildInPublicEnabled = false
	svc := newService(settings, nil, nil, nil)
	ctx := context.Background()

	if _, err := svc.Objectives(ctx, 1, 2, pagination.Pagination{}); !errors.Is(err, ErrNotPublic) {
		t.Fatalf("objectives: expected not public, got %v", err)
	}
	if _, err := svc.Roadmap(ctx, 1, 2, pagination.Pagination{}); !errors.Is(err, ErrNotPublic) {
		t.Fatalf("roadmap: expected not public, got %v", err)
	}
	if _, err := svc.Feed(ctx, 1, 2, pagination.Pagination{}); !errors.Is(err, ErrNotPublic) {
		t.Fatalf("feed: expected not public, got %v", err)
	}
	if _, err := svc.Issues(ctx, 1, 2, pagination.Pagination{}); !errors.Is(err, ErrNotPublic) {
		t.Fatalf("issues: expected not public, got %v", err)
	}
}

func TestMissingSettingsReadAsNotPublic(t *testing.T) {
	svc := newService(nil, nil, nil, nil)

	_, err := svc.Objectives(context.Background(), 1, 2, pagination.Pagination{})
	if !errors.Is(err, ErrNotPublic) {
		t.Fatalf("expected not public for unknown product, got %v", err)
	}
}

func TestPageFlagGatesItsOwnSurface(t *testing.T) {
	settings := allPublic()
	settings.IsFeedPagePublic = false
	svc := newService(settings, nil, nil, nil)
	ctx := context.Background()

	if _, err := svc.Feed(ctx, 1, 2, pagination.Pagination{}); !errors.Is(err, ErrNotPublic) {
		t.Fatalf("feed: expected not public, got %v", err)
	}
	// Sibling pages stay up.
	if _, err := svc.Objectives(ctx, 1, 2, pagination.Pagination{}); err != nil {
		t.Fatalf("objectives: %v", err)
	}
}

func TestIterationsFilterByStatus(t *testing.T) {
	assignee := "12345"
	items := []workitemdomain.Response{
		{ID: "1", Status: workitemdomain.StatusBacklog},
		{ID: "2", Status: workitemdomain.StatusPlanned, AssignedTo: &assignee},
		{ID: "3", Status: workitemdomain.StatusInProgress, AssignedTo: &assignee},
		{ID: "4", Status: workitemdomain.StatusDone},
	}
	svc := newService(allPublic(), items, nil, nil)
	ctx := context.Background()

	iterations, err := svc.Iterations(ctx, 1, 2, pagination.Pagination{})
	if err != nil {
		t.Fatalf("iterations: %v", err)
	}
	if len(iterations) != 2 {
		t.Fatalf("expected planned + in-progress, got %d items", len(iterations))
	}
	for _, item := range iterations {
		if item.AssignedTo != nil {
			t.Fatalf("expected assignee redacted on %s", item.ID)
		}
	}

	active, err := svc.ActiveIterations(ctx, 1, 2, pagination.Pagination{})
	if err != nil {
		t.Fatalf("active iterations: %v", err)
	}
	if len(active) != 1 || active[0].ID != "3" {
		t.Fatalf("expected only in-progress item, got %+v", active)
	}
}

func TestPublicFeedIsRedacted(t *testing.T) {
	feed := []feeddomain.Response{
		{
			ID:     "1",
			Action: feeddomain.ActionUpdated,
			Content: map[string]any{
				"assignedTo": "777",
				"current":    map[string]any{"assignedTo": "777", "status": "in-progress"},
			},
		},
	}
	svc := newService(allPublic(), nil, feed, nil)

	out, err := svc.Feed(context.Background(), 1, 2, pagination.Pagination{})
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if _, ok := out[0].Content["assignedTo"]; ok {
		t.Fatal("expected top-level assignedTo removed")
	}
	if _, ok := out[0].Content["current"].(map[string]any)["assignedTo"]; ok {
		t.Fatal("expected content.current assignedTo removed")
	}
}

func TestPublicIssuesBypassPlanGate(t *testing.T) {
	// The repo-backed path must serve issues regardless of plan; the stub
	// stands in for a FREE org's repository.
	issues := []issuedomain.Issue{
		{ID: 1, OrgID: 1, ProductID: 2, Title: "crash on login", Status: issuedomain.StatusOpen, Priority: issuedomain.PriorityHigh},
	}
	svc := newService(allPublic(), nil, nil, issues)

	out, err := svc.Issues(context.Background(), 1, 2, pagination.Pagination{})
	if err != nil {
		t.Fatalf("issues: %v", err)
	}
	if len(out) != 1 || out[0].Title != "crash on login" {
		t.Fatalf("unexpected issues payload: %+v", out)
	}
}
