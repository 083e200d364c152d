package product

import (
	"github.com/smallbiznis/northstar/internal/product/repository"
	"github.com/smallbiznis/northstar/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
