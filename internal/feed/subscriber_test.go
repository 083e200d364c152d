package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/feed/domain"
	"github.com/smallbiznis/northstar/internal/feed/repository"
	"github.com/smallbiznis/northstar/internal/feed/service"
	orgdomain "github.com/smallbiznis/northstar/internal/organization/domain"
	userdomain "github.com/smallbiznis/northstar/internal/user/domain"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type orgResolverStub struct {
	known map[string]bool
}

func (s *orgResolverStub) GetByID(ctx context.Context, id string) (*orgdomain.OrganizationResponse, error) {
	if !s.known[id] {
		return nil, nil
	}
	return &orgdomain.OrganizationResponse{ID: id}, nil
}

type userResolverStub struct {
	known map[snowflake.ID]bool
}

func (s *userResolverStub) GetByID(ctx context.Context, id snowflake.ID) (*userdomain.Response, error) {
	if !s.known[id] {
		return nil, nil
	}
	return &userdomain.Response{ID: id.String()}, nil
}

func setup(t *testing.T) (*gorm.DB, domain.Repository, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.Exec(`CREATE TABLE feed_items (
		id BIGINT PRIMARY KEY,
		org_id BIGINT NOT NULL,
		user_id BIGINT,
		title TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id BIGINT NOT NULL,
		action TEXT NOT NULL,
		content JSON,
		created_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create feed_items: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return db, repository.NewRepository(db), node
}

func wireSubscriber(t *testing.T, repo domain.Repository, node *snowflake.Node, orgID snowflake.ID, userIDs ...snowflake.ID) *event.Bus {
	t.Helper()
	users := map[snowflake.ID]bool{}
	for _, id := range userIDs {
		users[id] = true
	}
	sub := NewSubscriber(repo, node,
		&orgResolverStub{known: map[string]bool{orgID.String(): true}},
		&userResolverStub{known: users},
	)
	bus := event.NewBus(zap.NewNop())
	sub.Register(bus)
	return bus
}

func listItems(t *testing.T, repo domain.Repository, orgID snowflake.ID) []domain.FeedItem {
	t.Helper()
	items, err := repo.List(context.Background(), orgID, -1, 0)
	if err != nil {
		t.Fatalf("list feed items: %v", err)
	}
	return items
}

func TestWorkItemUpdateProjectsDiffPayload(t *testing.T) {
	_, repo, node := setup(t)
	orgID := node.Generate()
	userID := node.Generate()
	entityID := node.Generate()
	bus := wireSubscriber(t, repo, node, orgID, userID)

	bus.Publish(context.Background(), event.WorkItemUpdated{
		Lifecycle: event.Lifecycle{
			OrgID:      orgID,
			UserID:     userID,
			EntityType: "workItem",
			EntityID:   entityID,
			Title:      "ship importer",
		},
		Previous: map[string]any{"status": "planned"},
		Current:  map[string]any{"status": "in-progress"},
	})

	items := listItems(t, repo, orgID)
	if len(items) != 1 {
		t.Fatalf("expected one feed item, got %d", len(items))
	}
	item := items[0]
	if item.Action != domain.ActionUpdated || item.EntityType != "workItem" || item.EntityID != entityID {
		t.Fatalf("unexpected feed item: %+v", item)
	}
	if item.UserID == nil || *item.UserID != userID {
		t.Fatalf("expected acting user recorded, got %v", item.UserID)
	}

	var content map[string]any
	if err := json.Unmarshal(item.Content, &content); err != nil {
		t.Fatalf("decode content: %v", err)
	}
	previous, ok := content["previous"].(map[string]any)
	if !ok || previous["status"] != "planned" {
		t.Fatalf("unexpected previous snapshot: %+v", content["previous"])
	}
	current, ok := content["current"].(map[string]any)
	if !ok || current["status"] != "in-progress" {
		t.Fatalf("unexpected current snapshot: %+v", content["current"])
	}
}

func TestLifecycleEventsWithoutActorStillProject(t *testing.T) {
	_, repo, node := setup(t)
	orgID := node.Generate()
	bus := wireSubscriber(t, repo, node, orgID)

	bus.Publish(context.Background(), event.OKRCreated{Lifecycle: event.Lifecycle{
		OrgID:      orgID,
		EntityType: "okr",
		EntityID:   node.Generate(),
		Title:      "grow actives",
		Content:    map[string]any{"title": "grow actives"},
	}})

	items := listItems(t, repo, orgID)
	if len(items) != 1 {
		t.Fatalf("expected one feed item, got %d", len(items))
	}
	if items[0].UserID != nil {
		t.Fatalf("expected nil user for system event, got %v", items[0].UserID)
	}
}

func TestDanglingOrgWritesNothing(t *testing.T) {
	_, repo, node := setup(t)
	orgID := node.Generate()
	unknownOrg := node.Generate()
	bus := wireSubscriber(t, repo, node, orgID)

	bus.Publish(context.Background(), event.OKRDeleted{Lifecycle: event.Lifecycle{
		OrgID:      unknownOrg,
		EntityType: "okr",
		EntityID:   node.Generate(),
		Title:      "stale",
	}})

	if items := listItems(t, repo, unknownOrg); len(items) != 0 {
		t.Fatalf("expected no feed item for dangling org, got %d", len(items))
	}
}

func TestPostTextItem(t *testing.T) {
	_, repo, node := setup(t)
	orgID := node.Generate()
	actor := node.Generate()

	bus := event.NewBus(zap.NewNop())
	var posted []event.FeedTextPosted
	bus.Subscribe(event.FeedTextPostedName, func(ctx context.Context, e event.Event) error {
		posted = append(posted, e.(event.FeedTextPosted))
		return nil
	})

	svc := service.New(service.Params{
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repo,
		Events: bus,
	})

	resp, err := svc.PostTextItem(context.Background(), actor, orgID, domain.PostTextRequest{
		Title: "Changelog",
		Text:  "We shipped search.",
	})
	if err != nil {
		t.Fatalf("post text item: %v", err)
	}
	if resp.Action != domain.ActionPosted {
		t.Fatalf("expected posted action, got %s", resp.Action)
	}
	// A text post is its own entity.
	if resp.EntityID != resp.ID {
		t.Fatalf("expected entity id to equal item id: %s vs %s", resp.EntityID, resp.ID)
	}
	if len(posted) != 1 || posted[0].Text != "We shipped search." {
		t.Fatalf("expected feed.textPosted event, got %+v", posted)
	}

	if _, err := svc.PostTextItem(context.Background(), actor, orgID, domain.PostTextRequest{}); err != domain.ErrEmptyText {
		t.Fatalf("expected empty text error, got %v", err)
	}

	list, err := svc.List(context.Background(), orgID, pagination.Pagination{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one item, got %d", len(list))
	}
	if list[0].Content["text"] != "We shipped search." {
		t.Fatalf("unexpected content: %+v", list[0].Content)
	}
}
