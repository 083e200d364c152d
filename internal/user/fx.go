package user

import (
	"github.com/smallbiznis/northstar/internal/user/repository"
	"github.com/smallbiznis/northstar/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
