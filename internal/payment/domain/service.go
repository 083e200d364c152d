// Package domain defines the billing processor edges: the webhook that
// drives plan transitions and the seat sync pushed back to the processor.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Service handles inbound webhooks from the billing processor.
type Service interface {
	// HandleWebhook verifies the payload signature and applies the carried
	// plan/subscription transition.
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

// ProcessorClient is the outbound edge to the billing processor. A fake
// stands in for it in tests.
type ProcessorClient interface {
	UpdateSeatCount(ctx context.Context, billingCustomerID string, seats int) error
}

// SeatCounter reports how many active members an org is billed for.
type SeatCounter interface {
	CountActiveSeats(ctx context.Context, orgID snowflake.ID) (int, error)
}

// BillingLookup resolves the processor-side customer reference of an org.
type BillingLookup interface {
	BillingCustomerID(ctx context.Context, orgID snowflake.ID) (string, error)
}

// WebhookEvent is the payload shape the processor posts.
type WebhookEvent struct {
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	OrgID              string `json:"org_id"`
	BillingCustomerID  string `json:"customer_id"`
	Plan               string `json:"plan"`
	SubscriptionStatus string `json:"subscription_status"`
}

var (
	ErrInvalidSignature = errors.New("invalid_webhook_signature")
	ErrMalformedPayload = errors.New("malformed_webhook_payload")
)
