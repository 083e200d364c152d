package organization

import (
	"github.com/smallbiznis/northstar/internal/entitlement"
	"github.com/smallbiznis/northstar/internal/organization/domain"
	"github.com/smallbiznis/northstar/internal/organization/repository"
	"github.com/smallbiznis/northstar/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(func(repo domain.Repository) entitlement.PlanSource { return repo }),
	fx.Provide(service.New),
)
