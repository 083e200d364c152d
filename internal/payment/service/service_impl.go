package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/config"
	"github.com/smallbiznis/northstar/internal/entitlement"
	orgdomain "github.com/smallbiznis/northstar/internal/organization/domain"
	"github.com/smallbiznis/northstar/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg  config.Config
	Log  *zap.Logger
	Orgs orgdomain.Service
	Gate *entitlement.Resolver
}

type service struct {
	secret []byte
	log    *zap.Logger
	orgs   orgdomain.Service
	gate   *entitlement.Resolver
}

func New(p Params) domain.Service {
	return &service{
		secret: []byte(p.Cfg.BillingWebhookSecret),
		log:    p.Log.Named("payment.service"),
		orgs:   p.Orgs,
		gate:   p.Gate,
	}
}

func (s *service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.verify(body, signature) {
		return domain.ErrInvalidSignature
	}

	var evt domain.WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return domain.ErrMalformedPayload
	}

	orgID, err := snowflake.ParseString(evt.Data.OrgID)
	if err != nil {
		return domain.ErrMalformedPayload
	}

	if err := s.orgs.UpdateBilling(ctx, orgdomain.UpdateBillingRequest{
		OrgID:              orgID,
		Plan:               evt.Data.Plan,
		SubscriptionStatus: evt.Data.SubscriptionStatus,
		BillingCustomerID:  evt.Data.BillingCustomerID,
	}); err != nil {
		return err
	}

	// the cached plan is stale the moment the webhook lands
	s.gate.Invalidate(orgID)

	s.log.Info("applied billing webhook",
		zap.String("type", evt.Type),
		zap.String("org_id", evt.Data.OrgID),
		zap.String("plan", evt.Data.Plan),
	)
	return nil
}

// verify checks the hex-encoded HMAC-SHA256 of the raw body.
func (s *service) verify(body []byte, signature string) bool {
	if len(s.secret) == 0 || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
