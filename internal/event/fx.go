package event

import "go.uber.org/fx"

var Module = fx.Module("event.bus",
	fx.Provide(NewBus),
	fx.Provide(func(b *Bus) Publisher { return b }),
)
