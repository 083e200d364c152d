package entitlement

import (
	"github.com/smallbiznis/northstar/internal/cache"
	"go.uber.org/fx"
)

var Module = fx.Module("entitlement",
	fx.Provide(cache.NewPlanCache),
	fx.Provide(NewResolver),
)
