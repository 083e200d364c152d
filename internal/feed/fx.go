package feed

import (
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/feed/repository"
	"github.com/smallbiznis/northstar/internal/feed/service"
	orgdomain "github.com/smallbiznis/northstar/internal/organization/domain"
	userdomain "github.com/smallbiznis/northstar/internal/user/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("feed.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
	fx.Provide(func(org orgdomain.Service) OrgResolver { return org }),
	fx.Provide(func(user userdomain.Service) UserResolver { return user }),
	fx.Provide(NewSubscriber),
	fx.Invoke(func(sub *Subscriber, bus *event.Bus) { sub.Register(bus) }),
)
