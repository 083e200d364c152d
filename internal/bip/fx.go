package bip

import (
	"github.com/smallbiznis/northstar/internal/bip/repository"
	"github.com/smallbiznis/northstar/internal/bip/service"
	"github.com/smallbiznis/northstar/internal/event"
	productdomain "github.com/smallbiznis/northstar/internal/product/domain"
	"github.com/smallbiznis/northstar/internal/ratelimit"
	"go.uber.org/fx"
)

var Module = fx.Module("bip.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
	fx.Provide(func(repo productdomain.Repository) ProductFinder { return repo }),
	fx.Provide(func(l *ratelimit.Locker) ProvisionLock {
		if l == nil {
			return nil
		}
		return l
	}),
	fx.Provide(NewSubscriber),
	fx.Invoke(func(sub *Subscriber, bus *event.Bus) { sub.Register(bus) }),
)
