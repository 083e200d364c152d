package cache

import (
	"time"
)

const defaultPlanTTL = 30 * time.Second

// PlanCache stores hot-path plan lookups for the entitlement gate.
//
// The TTL is short on purpose: a plan change coming in through the billing
// webhook must become visible to gated endpoints quickly.
type PlanCache interface {
	GetPlan(orgID string) (string, bool)
	SetPlan(orgID string, plan string)
	Invalidate(orgID string)
}

type planCache struct {
	plans Cache[string, string]
	ttl   time.Duration
}

// NewPlanCache returns an in-memory cache for org plan lookups.
func NewPlanCache() PlanCache {
	return &planCache{
		plans: NewTTLCache[string, string](),
		ttl:   defaultPlanTTL,
	}
}

func (c *planCache) GetPlan(orgID string) (string, bool) {
	return c.plans.Get(orgID)
}

func (c *planCache) SetPlan(orgID string, plan string) {
	if plan == "" {
		return
	}
	c.plans.Set(orgID, plan, c.ttl)
}

func (c *planCache) Invalidate(orgID string) {
	c.plans.Delete(orgID)
}
