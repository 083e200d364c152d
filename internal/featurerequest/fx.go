package featurerequest

import (
	"github.com/smallbiznis/northstar/internal/featurerequest/domain"
	"github.com/smallbiznis/northstar/internal/featurerequest/repository"
	"github.com/smallbiznis/northstar/internal/featurerequest/service"
	orgdomain "github.com/smallbiznis/northstar/internal/organization/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("featurerequest.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(func(org orgdomain.Service) domain.MembershipChecker { return org }),
	fx.Provide(service.New),
)
