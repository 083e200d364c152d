package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/northstar/internal/cache"
	"github.com/smallbiznis/northstar/internal/comment/domain"
	"github.com/smallbiznis/northstar/internal/comment/repository"
	"github.com/smallbiznis/northstar/internal/entitlement"
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
	prepareSchema(t, db)

	node := mustNode(t)
	svc := New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.NewRepository(db),
		Gate:  entitlement.NewResolver(&planSourceStub{plan: plan}, cache.NewPlanCache()),
	})
	return svc, db, node
}

func prepareSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	stmts := []string{
		`CREATE TABLE comments (
			id BIGINT PRIMARY KEY,
			org_id BIGINT NOT NULL,
			parent_type TEXT NOT NULL,
			parent_id BIGINT NOT NULL,
			content TEXT NOT NULL,
			created_by BIGINT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE objectives (
			id BIGINT PRIMARY KEY,
			org_id BIGINT NOT NULL
		)`,
		`CREATE TABLE key_results (
			id BIGINT PRIMARY KEY,
			objective_id BIGINT NOT NULL
		)`,
		`CREATE TABLE issues (
			id BIGINT PRIMARY KEY,
			org_id BIGINT NOT NULL
		)`,
		`CREATE TABLE feature_requests (
			id BIGINT PRIMARY KEY,
			org_id BIGINT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("prepare schema: %v", err)
		}
	}
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}

func seedIssue(t *testing.T, db *gorm.DB, issueID, orgID snowflake.ID) {
	t.Helper()
	if err := db.Exec(`INSERT INTO issues (id, org_id) VALUES (?, ?)`, issueID, orgID).Error; err != nil {
		t.Fatalf("seed issue: %v", err)
	}
}

func TestAddCommentOnIssue(t *testing.T) {
	svc, db, node := setupService(t, "PREMIUM")
	ctx := context.Background()
	orgID := node.Generate()
	actor := node.Generate()
	issueID := node.Generate()
	seedIssue(t, db, issueID, orgID)

	resp, err := svc.Add(ctx, actor, orgID, domain.AddRequest{
		ParentType: domain.ParentIssue,
		ParentID:   issueID,
		Content:    "  shipping this next sprint  ",
	})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if resp.Content != "shipping this next sprint" {
		t.Fatalf("expected trimmed content, got %q", resp.Content)
	}

	list, err := svc.ListByParent(ctx, orgID, domain.ParentIssue, issueID, pagination.Pagination{})
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one comment, got %d", len(list))
	}
}

func TestAddCommentOnKeyResultScopesThroughObjective(t *testing.T) {
	svc, db, node := setupService(t, "PREMIUM")
	ctx := context.Background()
	orgID := node.Generate()
	actor := node.Generate()
	objectiveID := node.Generate()
	krID := node.Generate()

	if err := db.Exec(`INSERT INTO objectives (id, org_id) VALUES (?, ?)`, objectiveID, orgID).Error; err != nil {
		t.Fatalf("seed objective: %v", err)
	}
	if err := db.Exec(`INSERT INTO key_results (id, objective_id) VALUES (?, ?)`, krID, objectiveID).Error; err != nil {
		t.Fatalf("seed key result: %v", err)
	}

	if _, err := svc.Add(ctx, actor, orgID, domain.AddRequest{
		ParentType: domain.ParentKeyResult,
		ParentID:   krID,
		Content:    "on track",
	}); err != nil {
		t.Fatalf("add comment on key result: %v", err)
	}

	// Same key result addressed from a foreign org must look absent.
	otherOrg := node.Generate()
	_, err := svc.Add(ctx, actor, otherOrg, domain.AddRequest{
		ParentType: domain.ParentKeyResult,
		ParentID:   krID,
		Content:    "leaking?",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found across orgs, got %v", err)
	}
}

func TestAddCommentRejectsUnknownParentType(t *testing.T) {
	svc, _, node := setupService(t, "PREMIUM")

	_, err := svc.Add(context.Background(), node.Generate(), node.Generate(), domain.AddRequest{
		ParentType: "work_item",
		ParentID:   node.Generate(),
		Content:    "hello",
	})
	if !errors.Is(err, domain.ErrInvalidParentType) {
		t.Fatalf("expected invalid parent type, got %v", err)
	}
}

func TestAddCommentRejectsEmptyContent(t *testing.T) {
	svc, db, node := setupService(t, "PREMIUM")
	orgID := node.Generate()
	issueID := node.Generate()
	seedIssue(t, db, issueID, orgID)

	_, err := svc.Add(context.Background(), node.Generate(), orgID, domain.AddRequest{
		ParentType: domain.ParentIssue,
		ParentID:   issueID,
		Content:    "   ",
	})
	if !errors.Is(err, domain.ErrEmptyContent) {
		t.Fatalf("expected empty content error, got %v", err)
	}
}

func TestAddCommentOnMissingParent(t *testing.T) {
	svc, _, node := setupService(t, "PREMIUM")

	_, err := svc.Add(context.Background(), node.Generate(), node.Generate(), domain.AddRequest{
		ParentType: domain.ParentIssue,
		ParentID:   node.Generate(),
		Content:    "orphan",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// Editing someone else's comment must be indistinguishable from editing a
// comment that does not exist.
func TestUpdateForeignCommentLooksAbsent(t *testing.T) {
	svc, db, node := setupService(t, "PREMIUM")
	ctx := context.Background()
	orgID := node.Generate()
	author := node.Generate()
	issueID := node.Generate()
	seedIssue(t, db, issueID, orgID)

	resp, err := svc.Add(ctx, author, orgID, domain.AddRequest{
		ParentType: domain.ParentIssue,
		ParentID:   issueID,
		Content:    "mine",
	})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	commentID, err := snowflake.ParseString(resp.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}

	stranger := node.Generate()
	_, errForeign := svc.Update(ctx, stranger, orgID, commentID, "hijacked")
	_, errMissing := svc.Update(ctx, stranger, orgID, node.Generate(), "ghost")

	if !errors.Is(errForeign, domain.ErrNotFound) {
		t.Fatalf("expected not found for foreign comment, got %v", errForeign)
	}
	if !errors.Is(errMissing, domain.ErrNotFound) {
		t.Fatalf("expected not found for missing comment, got %v", errMissing)
	}
	if errForeign.Error() != errMissing.Error() {
		t.Fatalf("foreign and missing must be indistinguishable: %v vs %v", errForeign, errMissing)
	}
}

func TestDeleteOwnComment(t *testing.T) {
	svc, db, node := setupService(t, "PREMIUM")
	ctx := context.Background()
	orgID := node.Generate()
	author := node.Generate()
	issueID := node.Generate()
	seedIssue(t, db, issueID, orgID)

	resp, err := svc.Add(ctx, author, orgID, domain.AddRequest{
		ParentType: domain.ParentIssue,
		ParentID:   issueID,
		Content:    "temp",
	})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	commentID, err := snowflake.ParseString(resp.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}

	stranger := node.Generate()
	if err := svc.Delete(ctx, stranger, orgID, commentID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for stranger delete, got %v", err)
	}
	if err := svc.Delete(ctx, author, orgID, commentID); err != nil {
		t.Fatalf("delete own comment: %v", err)
	}
	if err := svc.Delete(ctx, author, orgID, commentID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestMutationsRequirePremium(t *testing.T) {
	svc, db, node := setupService(t, "FREE")
	ctx := context.Background()
	orgID := node.Generate()
	issueID := node.Generate()
	seedIssue(t, db, issueID, orgID)

	_, err := svc.Add(ctx, node.Generate(), orgID, domain.AddRequest{
		ParentType: domain.ParentIssue,
		ParentID:   issueID,
		Content:    "blocked",
	})
	if !errors.Is(err, entitlement.ErrUpgradeRequired) {
		t.Fatalf("expected upgrade required, got %v", err)
	}

	// Reads stay open on the free plan.
	if _, err := svc.ListByParent(ctx, orgID, domain.ParentIssue, issueID, pagination.Pagination{}); err != nil {
		t.Fatalf("list on free plan: %v", err)
	}
}
