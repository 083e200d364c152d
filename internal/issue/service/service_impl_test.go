package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/northstar/internal/cache"
	"github.com/smallbiznis/northstar/internal/entitlement"
	"github.com/smallbiznis/northstar/internal/issue/domain"
	"github.com/smallbiznis/northstar/internal/issue/repository"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type planSourceStub struct {
	plan string
}

func (s *planSourceStub) PlanByOrgID(ctx context.Context, orgID snowflake.ID) (string, error) {
	return s.plan, nil
}

type membershipStub struct{}

func (membershipStub) IsMember(ctx context.Context, orgID, userID snowflake.ID) (bool, error) {
	return true, nil
}

func setupService(t *testing.T, plan string) (domain.Service, *gorm.DB, *snowflake.Node) {
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

	if err := db.Exec(`CREATE TABLE issues (
		id BIGINT PRIMARY KEY,
		org_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'open',
		priority TEXT NOT NULL DEFAULT 'medium',
		created_by BIGINT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create issues: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       repository.NewRepository(db),
		Gate:       entitlement.NewResolver(&planSourceStub{plan: plan}, cache.NewPlanCache()),
		Membership: membershipStub{},
	})
	return svc, db, node
}

func TestIssueLifecycleOnPremium(t *testing.T) {
	svc, _, node := setupService(t, "PREMIUM")
	ctx := context.Background()
	scope := domain.Scope{OrgID: node.Generate(), ProductID: node.Generate()}
	actor := node.Generate()

	resp, err := svc.Create(ctx, actor, scope, domain.CreateRequest{
		Title:    "crash on login",
		Priority: domain.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	if resp.Status != domain.StatusOpen {
		t.Fatalf("expected open status, got %s", resp.Status)
	}

	id, err := snowflake.ParseString(resp.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}

	resolved := domain.StatusResolved
	updated, err := svc.Update(ctx, actor, scope, id, domain.UpdateRequest{Status: &resolved})
	if err != nil {
		t.Fatalf("update issue: %v", err)
	}
	if updated.Status != domain.StatusResolved {
		t.Fatalf("expected resolved, got %s", updated.Status)
	}

	if err := svc.Delete(ctx, actor, scope, id); err != nil {
		t.Fatalf("delete issue: %v", err)
	}
	if _, err := svc.GetByID(ctx, scope, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestIssuePriorityOrdering(t *testing.T) {
	svc, _, node := setupService(t, "PREMIUM")
	ctx := context.Background()
	scope := domain.Scope{OrgID: node.Generate(), ProductID: node.Generate()}
	actor := node.Generate()

	for _, c := range []struct {
		title    string
		priority domain.Priority
	}{
		{"low prio", domain.PriorityLow},
		{"high prio", domain.PriorityHigh},
		{"medium prio", domain.PriorityMedium},
	} {
		if _, err := svc.Create(ctx, actor, scope, domain.CreateRequest{Title: c.title, Priority: c.priority}); err != nil {
			t.Fatalf("create %s: %v", c.title, err)
		}
	}

	list, err := svc.List(ctx, scope, pagination.Pagination{})
	if err != nil {
		t.Fatalf("list issues: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(list))
	}
	if list[0].Priority != domain.PriorityHigh || list[2].Priority != domain.PriorityLow {
		t.Fatalf("expected high first, low last: %+v", list)
	}
}

// Unlike OKRs and work items, issues are premium-gated on reads too.
func TestIssueReadsGatedOnFreePlan(t *testing.T) {
	svc, db, node := setupService(t, "FREE")
	ctx := context.Background()
	scope := domain.Scope{OrgID: node.Generate(), ProductID: node.Generate()}

	_, err := svc.Create(ctx, node.Generate(), scope, domain.CreateRequest{Title: "blocked"})
	if !errors.Is(err, entitlement.ErrUpgradeRequired) {
		t.Fatalf("expected upgrade required on create, got %v", err)
	}
	if _, err := svc.List(ctx, scope, pagination.Pagination{}); !errors.Is(err, entitlement.ErrUpgradeRequired) {
		t.Fatalf("expected upgrade required on list, got %v", err)
	}
	if _, err := svc.GetByID(ctx, scope, node.Generate()); !errors.Is(err, entitlement.ErrUpgradeRequired) {
		t.Fatalf("expected upgrade required on get, got %v", err)
	}

	var rows int
	if err := db.Raw(`SELECT COUNT(1) FROM issues`).Scan(&rows).Error; err != nil {
		t.Fatalf("count issues: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected nothing persisted, got %d rows", rows)
	}
}

func TestIssueRejectsUnknownPriority(t *testing.T) {
	svc, _, node := setupService(t, "PREMIUM")
	scope := domain.Scope{OrgID: node.Generate(), ProductID: node.Generate()}

	_, err := svc.Create(context.Background(), node.Generate(), scope, domain.CreateRequest{
		Title:    "bad",
		Priority: "urgent",
	})
	if !errors.Is(err, domain.ErrInvalidPriority) {
		t.Fatalf("expected invalid priority, got %v", err)
	}
}
