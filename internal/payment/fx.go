package payment

import (
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/payment/domain"
	"github.com/smallbiznis/northstar/internal/payment/repository"
	"github.com/smallbiznis/northstar/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(func(r *repository.Repository) domain.SeatCounter { return r }),
	fx.Provide(func(r *repository.Repository) domain.BillingLookup { return r }),
	fx.Provide(NewProcessorClient),
	fx.Provide(service.New),
	fx.Provide(NewSubscriber),
	fx.Invoke(func(sub *Subscriber, bus *event.Bus) { sub.Register(bus) }),
)
