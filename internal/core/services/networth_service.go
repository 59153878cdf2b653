package services

import (
	"context"

	"github.com/pennypusher/pennypusher/internal/core/domain"
	portsrepo "github.com/pennypusher/pennypusher/internal/core/ports/repositories"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/dto"
)

type netWorthService struct {
	BaseService
	netWorthRepo portsrepo.NetWorthRepository
}

// NewNetWorthService creates the net-worth history facade.
func NewNetWorthService(netWorthRepo portsrepo.NetWorthRepository) portssvc.NetWorthSvcFacade {
	return &netWorthService{netWorthRepo: netWorthRepo}
}

var _ portssvc.NetWorthSvcFacade = (*netWorthService)(nil)

func (s *netWorthService) History(ctx context.Context, pusher *domain.Pusher, params dto.PageParams) (*dto.PagedResponse, error) {
	limit, offset := params.LimitOffset()
	rows, total, err := s.netWorthRepo.ListNetWorth(ctx, pusher.PusherID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewPagedResponse(total, params, dto.ToNetWorthResponses(rows, pusher.Name)), nil
}
