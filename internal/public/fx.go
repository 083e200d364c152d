package public

import "go.uber.org/fx"

var Module = fx.Module("public.service",
	fx.Provide(New),
)
