package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/cache"
	"github.com/smallbiznis/northstar/internal/config"
	"github.com/smallbiznis/northstar/internal/entitlement"
	orgdomain "github.com/smallbiznis/northstar/internal/organization/domain"
	"github.com/smallbiznis/northstar/internal/payment/domain"
	"go.uber.org/zap"
)

type orgServiceStub struct {
	plans   map[snowflake.ID]string
	updates []orgdomain.UpdateBillingRequest
}

func (s *orgServiceStub) Create(ctx context.Context, userID snowflake.ID, req orgdomain.CreateOrganizationRequest) (*orgdomain.OrganizationResponse, error) {
	return nil, nil
}
func (s *orgServiceStub) GetByID(ctx context.Context, id string) (*orgdomain.OrganizationResponse, error) {
	return nil, nil
}
func (s *orgServiceStub) ListOrganizationsByUser(ctx context.Context, userID snowflake.ID) ([]orgdomain.OrganizationListResponseItem, error) {
	return nil, nil
}
func (s *orgServiceStub) IsMember(ctx context.Context, orgID, userID snowflake.ID) (bool, error) {
	return true, nil
}
func (s *orgServiceStub) UpdateBilling(ctx context.Context, req orgdomain.UpdateBillingRequest) error {
	s.updates = append(s.updates, req)
	s.plans[req.OrgID] = req.Plan
	return nil
}

func (s *orgServiceStub) PlanByOrgID(ctx context.Context, orgID snowflake.ID) (string, error) {
	return s.plans[orgID], nil
}

const secret = "whsec_test"

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func setup(t *testing.T) (domain.Service, *orgServiceStub, *entitlement.Resolver) {
	t.Helper()
	orgs := &orgServiceStub{plans: map[snowflake.ID]string{}}
	gate := entitlement.NewResolver(orgs, cache.NewPlanCache())
	svc := New(Params{
		Cfg:  config.Config{BillingWebhookSecret: secret},
		Log:  zap.NewNop(),
		Orgs: orgs,
		Gate: gate,
	})
	return svc, orgs, gate
}

func TestHandleWebhookAppliesPlanTransition(t *testing.T) {
	svc, orgs, gate := setup(t)
	ctx := context.Background()
	orgID := snowflake.ID(410181817012345)
	orgs.plans[orgID] = "FREE"

	// Warm the gate cache so the test proves invalidation.
	if _, err := gate.PlanFor(ctx, orgID); err != nil {
		t.Fatalf("warm plan cache: %v", err)
	}

	body := []byte(fmt.Sprintf(`{
		"type": "subscription.updated",
		"data": {
			"org_id": "%s",
			"customer_id": "cus_123",
			"plan": "PREMIUM",
			"subscription_status": "active"
		}
	}`, orgID))

	if err := svc.HandleWebhook(ctx, body, sign(body)); err != nil {
		t.Fatalf("handle webhook: %v", err)
	}

	if len(orgs.updates) != 1 {
		t.Fatalf("expected one billing update, got %d", len(orgs.updates))
	}
	update := orgs.updates[0]
	if update.Plan != "PREMIUM" || update.BillingCustomerID != "cus_123" || update.SubscriptionStatus != "active" {
		t.Fatalf("unexpected update: %+v", update)
	}

	// The new plan must be visible to the gate immediately.
	plan, err := gate.PlanFor(ctx, orgID)
	if err != nil {
		t.Fatalf("plan after webhook: %v", err)
	}
	if plan != entitlement.PlanPremium {
		t.Fatalf("expected PREMIUM after webhook, got %s", plan)
	}
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	svc, orgs, _ := setup(t)
	body := []byte(`{"type":"subscription.updated","data":{"org_id":"1","plan":"PREMIUM"}}`)

	cases := map[string]string{
		"empty":     "",
		"garbage":   "deadbeef",
		"truncated": sign(body)[:10],
	}
	for name, sig := range cases {
		if err := svc.HandleWebhook(context.Background(), body, sig); !errors.Is(err, domain.ErrInvalidSignature) {
			t.Fatalf("%s: expected invalid signature, got %v", name, err)
		}
	}
	if len(orgs.updates) != 0 {
		t.Fatalf("expected no updates applied, got %d", len(orgs.updates))
	}
}

func TestHandleWebhookRejectsMalformedPayload(t *testing.T) {
	svc, _, _ := setup(t)

	for name, body := range map[string][]byte{
		"not json":   []byte(`plan=PREMIUM`),
		"bad org id": []byte(`{"type":"x","data":{"org_id":"not-a-snowflake"}}`),
	} {
		if err := svc.HandleWebhook(context.Background(), body, sign(body)); !errors.Is(err, domain.ErrMalformedPayload) {
			t.Fatalf("%s: expected malformed payload, got %v", name, err)
		}
	}
}

func TestHandleWebhookWithoutConfiguredSecret(t *testing.T) {
	orgs := &orgServiceStub{plans: map[snowflake.ID]string{}}
	svc := New(Params{
		Cfg:  config.Config{},
		Log:  zap.NewNop(),
		Orgs: orgs,
		Gate: entitlement.NewResolver(orgs, cache.NewPlanCache()),
	})

	body := []byte(`{"type":"x","data":{"org_id":"1"}}`)
	if err := svc.HandleWebhook(context.Background(), body, sign(body)); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature with no secret, got %v", err)
	}
}
