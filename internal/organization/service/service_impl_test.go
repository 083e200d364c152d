package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/organization/domain"
	"github.com/smallbiznis/northstar/internal/organization/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, *event.Bus, *snowflake.Node) {
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

	stmts := []string{
		`CREATE TABLE organizations (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			plan TEXT NOT NULL DEFAULT 'FREE',
			subscription_status TEXT NOT NULL DEFAULT 'none',
			billing_customer_id TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE organization_members (
			id BIGINT PRIMARY KEY,
			org_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			role TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			UNIQUE (org_id, user_id)
		)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("prepare schema: %v", err)
		}
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	bus := event.NewBus(zap.NewNop())
	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      repository.NewRepository(db),
		Publisher: bus,
	})
	return svc, bus, node
}

func TestCreateOrganization(t *testing.T) {
	svc, bus, node := setupService(t)
	ctx := context.Background()
	userID := node.Generate()

	var created []event.OrgCreated
	bus.Subscribe(event.OrgCreatedName, func(ctx context.Context, e event.Event) error {
		created = append(created, e.(event.OrgCreated))
		return nil
	})

	resp, err := svc.Create(ctx, userID, domain.CreateOrganizationRequest{Name: "  Acme Labs  "})
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}

	if resp.Name != "Acme Labs" {
		t.Fatalf("expected trimmed name, got %q", resp.Name)
	}
	if resp.Slug != "acme-labs" {
		t.Fatalf("expected slug acme-labs, got %q", resp.Slug)
	}
	if resp.Plan != "FREE" {
		t.Fatalf("expected new orgs on the free plan, got %s", resp.Plan)
	}

	if len(created) != 1 {
		t.Fatalf("expected one org.created event, got %d", len(created))
	}
	if created[0].UserID != userID {
		t.Fatalf("expected creator on the event, got %v", created[0].UserID)
	}

	orgID, err := snowflake.ParseString(resp.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}
	member, err := svc.IsMember(ctx, orgID, userID)
	if err != nil {
		t.Fatalf("is member: %v", err)
	}
	if !member {
		t.Fatal("expected creator to be a member")
	}

	orgs, err := svc.ListOrganizationsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("list orgs: %v", err)
	}
	if len(orgs) != 1 || orgs[0].Role != domain.RoleOwner {
		t.Fatalf("expected owner membership, got %+v", orgs)
	}
}

func TestCreateOrganizationValidation(t *testing.T) {
	svc, _, node := setupService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 0, domain.CreateOrganizationRequest{Name: "x"}); !errors.Is(err, domain.ErrInvalidUser) {
		t.Fatalf("expected invalid user, got %v", err)
	}
	if _, err := svc.Create(ctx, node.Generate(), domain.CreateOrganizationRequest{Name: "  "}); !errors.Is(err, domain.ErrInvalidName) {
		t.Fatalf("expected invalid name, got %v", err)
	}
}

func TestIsMemberOutsideOrg(t *testing.T) {
	svc, _, node := setupService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, node.Generate(), domain.CreateOrganizationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}
	orgID, err := snowflake.ParseString(resp.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}

	member, err := svc.IsMember(ctx, orgID, node.Generate())
	if err != nil {
		t.Fatalf("is member: %v", err)
	}
	if member {
		t.Fatal("expected stranger not to be a member")
	}
}

func TestUpdateBillingAppliesPlan(t *testing.T) {
	svc, _, node := setupService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, node.Generate(), domain.CreateOrganizationRequest{Name: "Billing Co"})
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}
	orgID, err := snowflake.ParseString(resp.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}

	if err := svc.UpdateBilling(ctx, domain.UpdateBillingRequest{
		OrgID:              orgID,
		Plan:               "PREMIUM",
		SubscriptionStatus: "active",
		BillingCustomerID:  "cus_9",
	}); err != nil {
		t.Fatalf("update billing: %v", err)
	}

	got, err := svc.GetByID(ctx, resp.ID)
	if err != nil {
		t.Fatalf("get org: %v", err)
	}
	if got.Plan != "PREMIUM" || got.SubscriptionStatus != "active" {
		t.Fatalf("billing not applied: %+v", got)
	}
}
