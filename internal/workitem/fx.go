package workitem

import (
	"github.com/smallbiznis/northstar/internal/workitem/repository"
	"github.com/smallbiznis/northstar/internal/workitem/service"
	"go.uber.org/fx"
)

var Module = fx.Module("workitem.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
