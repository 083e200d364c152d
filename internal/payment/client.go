package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/smallbiznis/northstar/internal/config"
	"github.com/smallbiznis/northstar/internal/payment/domain"
	"go.uber.org/zap"
)

// httpClient talks to the billing processor's REST API.
type httpClient struct {
	base   string
	apiKey string
	http   *http.Client
}

// noopClient is wired when no processor is configured; seat syncs become
// log-only.
type noopClient struct {
	log *zap.Logger
}

// NewProcessorClient picks the real client or a noop depending on config.
func NewProcessorClient(cfg config.Config, log *zap.Logger) domain.ProcessorClient {
	if cfg.BillingAPIURL == "" {
		return &noopClient{log: log.Named("payment.client")}
	}
	return &httpClient{
		base:   cfg.BillingAPIURL,
		apiKey: cfg.BillingAPIKey,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) UpdateSeatCount(ctx context.Context, billingCustomerID string, seats int) error {
	payload, err := json.Marshal(map[string]any{"quantity": seats})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1/customers/%s/seats", c.base, billingCustomerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("billing processor returned %s", resp.Status)
	}
	return nil
}

func (c *noopClient) UpdateSeatCount(_ context.Context, billingCustomerID string, seats int) error {
	c.log.Info("seat sync skipped, no processor configured",
		zap.String("billing_customer_id", billingCustomerID),
		zap.Int("seats", seats),
	)
	return nil
}
