package okr

import (
	"github.com/smallbiznis/northstar/internal/okr/repository"
	"github.com/smallbiznis/northstar/internal/okr/service"
	"go.uber.org/fx"
)

var Module = fx.Module("okr.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
