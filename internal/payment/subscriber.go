package payment

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/payment/domain"
	"go.uber.org/zap"
)

// Subscriber keeps the processor's seat count in step with user activation.
type Subscriber struct {
	log     *zap.Logger
	seats   domain.SeatCounter
	billing domain.BillingLookup
	client  domain.ProcessorClient
}

func NewSubscriber(log *zap.Logger, seats domain.SeatCounter, billing domain.BillingLookup, client domain.ProcessorClient) *Subscriber {
	return &Subscriber{
		log:     log.Named("payment.subscriber"),
		seats:   seats,
		billing: billing,
		client:  client,
	}
}

// Register hooks the subscriber into the bus.
func (s *Subscriber) Register(bus *event.Bus) {
	bus.Subscribe(event.UserActivatedName, s.onSeatsChanged)
	bus.Subscribe(event.UserDeactivatedName, s.onSeatsChanged)
}

func (s *Subscriber) onSeatsChanged(ctx context.Context, e event.Event) error {
	var orgID snowflake.ID
	switch evt := e.(type) {
	case event.UserActivated:
		orgID = evt.OrgID
	case event.UserDeactivated:
		orgID = evt.OrgID
	default:
		return fmt.Errorf("unexpected payload for %s: %T", e.Name(), e)
	}

	ref, err := s.billing.BillingCustomerID(ctx, orgID)
	if err != nil {
		return err
	}
	if ref == "" {
		// org was never linked to the processor; nothing to sync
		return nil
	}

	seats, err := s.seats.CountActiveSeats(ctx, orgID)
	if err != nil {
		return err
	}

	if err := s.client.UpdateSeatCount(ctx, ref, seats); err != nil {
		return err
	}

	s.log.Info("synced seat count",
		zap.String("org_id", orgID.String()),
		zap.Int("seats", seats),
	)
	return nil
}
