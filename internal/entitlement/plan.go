// Package entitlement implements the payment-plan feature gate.
package entitlement

import "strings"

// Plan is an organization's payment plan.
type Plan string

const (
	PlanFree           Plan = "FREE"
	PlanPremium        Plan = "PREMIUM"
	PlanBuildInPublic  Plan = "BUILD_IN_PUBLIC"
	PlanBuildInPrivate Plan = "BUILD_IN_PRIVATE"
)

// rank orders plans by capability. The build-in-* plans include
// everything PREMIUM does.
var rank = map[Plan]int{
	PlanFree:           0,
	PlanPremium:        1,
	PlanBuildInPublic:  2,
	PlanBuildInPrivate: 2,
}

// ParsePlan normalizes a stored plan value. Unknown values degrade to FREE
// so that a corrupt plan column never unlocks gated features.
func ParsePlan(raw string) Plan {
	switch Plan(strings.ToUpper(strings.TrimSpace(raw))) {
	case PlanPremium:
		return PlanPremium
	case PlanBuildInPublic:
		return PlanBuildInPublic
	case PlanBuildInPrivate:
		return PlanBuildInPrivate
	default:
		return PlanFree
	}
}

// IsEntitled reports whether current satisfies required. Pure and stateless.
func IsEntitled(current, required Plan) bool {
	return rank[current] >= rank[required]
}
