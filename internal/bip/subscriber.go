package bip

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/bip/domain"
	"github.com/smallbiznis/northstar/internal/event"
	productdomain "github.com/smallbiznis/northstar/internal/product/domain"
)

// ProductFinder locates a new org's first product; satisfied by the product
// repository.
type ProductFinder interface {
	FirstByOrg(ctx context.Context, orgID snowflake.ID) (*productdomain.Product, error)
}

// ProvisionLock fences default provisioning across replicas; satisfied by
// the redis locker when redis is configured, nil otherwise.
type ProvisionLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

const provisionLockTTL = 10 * time.Second

// Subscriber provisions default settings reactively: on org creation when a
// product already exists, and on every product creation after that.
type Subscriber struct {
	svc      domain.Service
	products ProductFinder
	lock     ProvisionLock
}

func NewSubscriber(svc domain.Service, products ProductFinder, lock ProvisionLock) *Subscriber {
	return &Subscriber{svc: svc, products: products, lock: lock}
}

// Register hooks the subscriber into the bus.
func (s *Subscriber) Register(bus *event.Bus) {
	bus.Subscribe(event.OrgCreatedName, s.onOrgCreated)
	bus.Subscribe(event.ProductCreatedName, s.onProductCreated)
}

func (s *Subscriber) onOrgCreated(ctx context.Context, e event.Event) error {
	created, ok := e.(event.OrgCreated)
	if !ok {
		return fmt.Errorf("unexpected payload for %s: %T", e.Name(), e)
	}

	product, err := s.products.FirstByOrg(ctx, created.OrgID)
	if err != nil {
		return err
	}
	if product == nil {
		// org signup without a product yet; onProductCreated provisions
		// defaults when the first product arrives
		return nil
	}

	return s.provision(ctx, created.OrgID, product.ID)
}

func (s *Subscriber) onProductCreated(ctx context.Context, e event.Event) error {
	created, ok := e.(event.ProductCreated)
	if !ok {
		return fmt.Errorf("unexpected payload for %s: %T", e.Name(), e)
	}
	return s.provision(ctx, created.OrgID, created.ProductID)
}

// provision takes a short lock so org.created and product.created racing on
// the same pair do one insert between them. On contention the holder owns
// the row; on a lock error we proceed unlocked, EnsureDefaults is idempotent
// and the unique index on product_id backstops the race.
func (s *Subscriber) provision(ctx context.Context, orgID, productID snowflake.ID) error {
	if s.lock != nil {
		key := fmt.Sprintf("bip:provision:%s:%s", orgID, productID)
		token, ok, err := s.lock.TryLock(ctx, key, provisionLockTTL)
		if err == nil {
			if !ok {
				return nil
			}
			defer s.lock.Release(ctx, key, token)
		}
	}
	return s.svc.EnsureDefaults(ctx, orgID, productID)
}
