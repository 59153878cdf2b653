package services

import (
	portsrepo "github.com/pennypusher/pennypusher/internal/core/ports/repositories"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/platform/config"
)

// NewServiceContainer wires every service facade over the repository
// provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		User:          NewUserService(repos.User),
		Token:         NewTokenService(cfg),
		Pusher:        NewPusherService(repos.Pusher, repos.User),
		Encapsulation: NewEncapsulationService(repos),
		Entity:        NewEntityService(repos),
		NetWorth:      NewNetWorthService(repos.NetWorth),
	}
}
