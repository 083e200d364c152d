package issue

import (
	"github.com/smallbiznis/northstar/internal/issue/domain"
	"github.com/smallbiznis/northstar/internal/issue/repository"
	"github.com/smallbiznis/northstar/internal/issue/service"
	orgdomain "github.com/smallbiznis/northstar/internal/organization/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("issue.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(func(org orgdomain.Service) domain.MembershipChecker { return org }),
	fx.Provide(service.New),
)
