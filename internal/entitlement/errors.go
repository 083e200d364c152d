package entitlement

import (
	"errors"
	"fmt"
)

// ErrUpgradeRequired is the sentinel all gate failures match via errors.Is.
var ErrUpgradeRequired = errors.New("plan_upgrade_required")

// UpgradeRequiredError carries the human-readable message naming the
// blocked action, e.g. "You need to upgrade your plan to upvote a feature request".
type UpgradeRequiredError struct {
	Action string
}

func (e *UpgradeRequiredError) Error() string {
	return fmt.Sprintf("You need to upgrade your plan to %s", e.Action)
}

func (e *UpgradeRequiredError) Is(target error) bool {
	return target == ErrUpgradeRequired
}

// UpgradeRequired builds the gate failure for a blocked action.
func UpgradeRequired(action string) error {
	return &UpgradeRequiredError{Action: action}
}
