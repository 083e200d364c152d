package entitlement

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/cache"
)

// PlanSource looks up an organization's current plan. Implemented by the
// organization repository; kept narrow so gated services do not depend on
// the whole organization domain.
type PlanSource interface {
	PlanByOrgID(ctx context.Context, orgID snowflake.ID) (string, error)
}

// Resolver answers "is this org's plan at least X" for gated operations.
type Resolver struct {
	source PlanSource
	plans  cache.PlanCache
}

// NewResolver builds a Resolver over a plan source with a short-lived cache.
func NewResolver(source PlanSource, plans cache.PlanCache) *Resolver {
	return &Resolver{source: source, plans: plans}
}

// PlanFor returns the org's current plan.
func (r *Resolver) PlanFor(ctx context.Context, orgID snowflake.ID) (Plan, error) {
	key := orgID.String()
	if cached, ok := r.plans.GetPlan(key); ok {
		return ParsePlan(cached), nil
	}

	raw, err := r.source.PlanByOrgID(ctx, orgID)
	if err != nil {
		return PlanFree, err
	}

	r.plans.SetPlan(key, raw)
	return ParsePlan(raw), nil
}

// Require fails with an UpgradeRequiredError naming action when the org's
// plan does not satisfy required.
func (r *Resolver) Require(ctx context.Context, orgID snowflake.ID, required Plan, action string) error {
	current, err := r.PlanFor(ctx, orgID)
	if err != nil {
		return err
	}
	if !IsEntitled(current, required) {
		return UpgradeRequired(action)
	}
	return nil
}

// Invalidate drops the cached plan for an org, used after plan transitions.
func (r *Resolver) Invalidate(orgID snowflake.ID) {
	r.plans.Invalidate(orgID.String())
}
