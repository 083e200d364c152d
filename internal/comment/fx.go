package comment

import (
	"github.com/smallbiznis/northstar/internal/comment/repository"
	"github.com/smallbiznis/northstar/internal/comment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("comment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
