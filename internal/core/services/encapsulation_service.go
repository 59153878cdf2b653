package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pennypusher/pennypusher/internal/apperrors"
	"github.com/pennypusher/pennypusher/internal/core/domain"
	portsrepo "github.com/pennypusher/pennypusher/internal/core/ports/repositories"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/dto"
)

// Defaults applied when the creation payload leaves the fields unset.
const (
	defaultPriority  = 2
	defaultPayPeriod = "Monthly"
)

// encapsulationOps is the per-kind behavior behind the registry. Each
// encapsulation kind plugs in its own decode/persist logic; the service
// stays kind-agnostic.
type encapsulationOps interface {
	create(ctx context.Context, pusher *domain.Pusher, name string, data json.RawMessage) (any, error)
	list(ctx context.Context, pusher *domain.Pusher) (any, error)
	replace(ctx context.Context, pusher *domain.Pusher, name string, data json.RawMessage) (any, error)
	remove(ctx context.Context, pusher *domain.Pusher, name string) error

	resolveID(ctx context.Context, pusherID, name string) (string, error)
	saveValue(ctx context.Context, pusherID string, v domain.EncapsulationValue) (*domain.NetWorth, error)
	listValues(ctx context.Context, encapsulationID string, limit, offset int) ([]domain.EncapsulationValue, int64, error)
	removeValue(ctx context.Context, encapsulationID string, ts time.Time) error
}

type encapsulationService struct {
	BaseService
	registry map[domain.EncapsulationKind]encapsulationOps
}

// NewEncapsulationService creates the encapsulation facade with one
// registry entry per supported kind.
func NewEncapsulationService(repos *portsrepo.RepositoryProvider) portssvc.EncapsulationSvcFacade {
	return &encapsulationService{
		registry: map[domain.EncapsulationKind]encapsulationOps{
			domain.KindBudget:  &budgetOps{repo: repos.Budget},
			domain.KindFund:    &fundOps{repo: repos.Fund},
			domain.KindAccount: &accountOps{repo: repos.Account},
		},
	}
}

var _ portssvc.EncapsulationSvcFacade = (*encapsulationService)(nil)

func (s *encapsulationService) ops(kind domain.EncapsulationKind) (encapsulationOps, error) {
	ops, ok := s.registry[kind]
	if !ok {
		return nil, apperrors.NewValidationFailedError("The type [" + string(kind) + "] is not a valid encapsulation type.")
	}
	return ops, nil
}

func (s *encapsulationService) Create(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, data json.RawMessage) (any, error) {
	ops, err := s.ops(kind)
	if err != nil {
		return nil, err
	}
	return ops.create(ctx, pusher, name, data)
}

func (s *encapsulationService) List(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind) (any, error) {
	ops, err := s.ops(kind)
	if err != nil {
		return nil, err
	}
	return ops.list(ctx, pusher)
}

func (s *encapsulationService) Replace(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, data json.RawMessage) (any, error) {
	ops, err := s.ops(kind)
	if err != nil {
		return nil, err
	}
	return ops.replace(ctx, pusher, name, data)
}

func (s *encapsulationService) Delete(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string) error {
	ops, err := s.ops(kind)
	if err != nil {
		return err
	}
	return ops.remove(ctx, pusher, name)
}

func (s *encapsulationService) CreateValue(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, req dto.CreateEncapsulationValueRequest) (*dto.EncapsulationValueResponse, error) {
	ops, err := s.ops(kind)
	if err != nil {
		return nil, err
	}
	encapsulationID, err := ops.resolveID(ctx, pusher.PusherID, req.Name)
	if err != nil {
		return nil, err
	}

	value := domain.EncapsulationValue{
		ValueID:         uuid.NewString(),
		EncapsulationID: encapsulationID,
		Value:           req.Value,
		Timestamp:       time.Now(),
	}
	netWorth, err := ops.saveValue(ctx, pusher.PusherID, value)
	if err != nil {
		return nil, err
	}

	resp := dto.ToEncapsulationValueResponse(&value, req.Name)
	if netWorth != nil {
		resp.NetWorth = &netWorth.Amount
	}
	return &resp, nil
}

func (s *encapsulationService) ListValues(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, params dto.PageParams) (*dto.PagedResponse, error) {
	ops, err := s.ops(kind)
	if err != nil {
		return nil, err
	}
	encapsulationID, err := ops.resolveID(ctx, pusher.PusherID, name)
	if err != nil {
		return nil, err
	}
	limit, offset := params.LimitOffset()
	values, total, err := ops.listValues(ctx, encapsulationID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewPagedResponse(total, params, dto.ToEncapsulationValueResponses(values, name)), nil
}

func (s *encapsulationService) DeleteValue(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, ts time.Time) error {
	ops, err := s.ops(kind)
	if err != nil {
		return err
	}
	encapsulationID, err := ops.resolveID(ctx, pusher.PusherID, name)
	if err != nil {
		return err
	}
	return ops.removeValue(ctx, encapsulationID, ts)
}

// budgetOps backs the budget registry entry.
type budgetOps struct {
	repo portsrepo.BudgetRepository
}

func (o *budgetOps) buildBudget(pusherID, name string, data json.RawMessage, createdAt time.Time) (*domain.Budget, error) {
	var payload dto.BudgetData
	if err := dto.Decode(data, &payload); err != nil {
		return nil, err
	}
	payStart, err := time.Parse(dto.DateLayout, payload.PayStart)
	if err != nil {
		return nil, apperrors.NewValidationFailedError("pay_start must be formatted as " + dto.DateLayout)
	}
	priority := defaultPriority
	if payload.Priority != nil {
		priority = *payload.Priority
	}
	payPeriod := payload.PayPeriod
	if payPeriod == "" {
		payPeriod = defaultPayPeriod
	}
	return &domain.Budget{
		Encapsulation: domain.Encapsulation{
			EncapsulationID: uuid.NewString(),
			PusherID:        pusherID,
			Name:            name,
			Priority:        priority,
			Category:        payload.Category,
			CreatedAt:       createdAt,
		},
		AllocAmt:  payload.AllocAmt,
		PayPeriod: payPeriod,
		PayStart:  payStart,
	}, nil
}

func (o *budgetOps) create(ctx context.Context, pusher *domain.Pusher, name string, data json.RawMessage) (any, error) {
	budget, err := o.buildBudget(pusher.PusherID, name, data, time.Now())
	if err != nil {
		return nil, err
	}
	if err := o.repo.SaveBudget(ctx, *budget); err != nil {
		return nil, err
	}
	return dto.ToBudgetResponse(budget, pusher.Name), nil
}

func (o *budgetOps) list(ctx context.Context, pusher *domain.Pusher) (any, error) {
	budgets, err := o.repo.ListBudgets(ctx, pusher.PusherID)
	if err != nil {
		return nil, err
	}
	list := make([]dto.BudgetResponse, len(budgets))
	for i, b := range budgets {
		list[i] = dto.ToBudgetResponse(&b, pusher.Name)
	}
	return list, nil
}

func (o *budgetOps) replace(ctx context.Context, pusher *domain.Pusher, name string, data json.RawMessage) (any, error) {
	existing, err := o.repo.FindBudgetByName(ctx, pusher.PusherID, name)
	if err != nil {
		return nil, err
	}
	budget, err := o.buildBudget(pusher.PusherID, name, data, existing.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := o.repo.ReplaceBudget(ctx, existing.EncapsulationID, *budget); err != nil {
		return nil, err
	}
	return dto.ToBudgetResponse(budget, pusher.Name), nil
}

func (o *budgetOps) remove(ctx context.Context, pusher *domain.Pusher, name string) error {
	existing, err := o.repo.FindBudgetByName(ctx, pusher.PusherID, name)
	if err != nil {
		return err
	}
	return o.repo.DeleteBudget(ctx, existing.EncapsulationID)
}

func (o *budgetOps) resolveID(ctx context.Context, pusherID, name string) (string, error) {
	existing, err := o.repo.FindBudgetByName(ctx, pusherID, name)
	if err != nil {
		return "", err
	}
	return existing.EncapsulationID, nil
}

func (o *budgetOps) saveValue(ctx context.Context, _ string, v domain.EncapsulationValue) (*domain.NetWorth, error) {
	return nil, o.repo.SaveBudgetValue(ctx, v)
}

func (o *budgetOps) listValues(ctx context.Context, encapsulationID string, limit, offset int) ([]domain.EncapsulationValue, int64, error) {
	return o.repo.ListBudgetValues(ctx, encapsulationID, limit, offset)
}

func (o *budgetOps) removeValue(ctx context.Context, encapsulationID string, ts time.Time) error {
	return o.repo.DeleteBudgetValue(ctx, encapsulationID, ts)
}

// fundOps backs the fund registry entry.
type fundOps struct {
	repo portsrepo.FundRepository
}

func (o *fundOps) buildFund(pusherID, name string, data json.RawMessage, createdAt time.Time) (*domain.Fund, error) {
	var payload dto.FundData
	if err := dto.Decode(data, &payload); err != nil {
		return nil, err
	}
	priority := defaultPriority
	if payload.Priority != nil {
		priority = *payload.Priority
	}
	return &domain.Fund{
		Encapsulation: domain.Encapsulation{
			EncapsulationID: uuid.NewString(),
			PusherID:        pusherID,
			Name:            name,
			Priority:        priority,
			Category:        payload.Category,
			CreatedAt:       createdAt,
		},
		GoalAmt: payload.GoalAmt,
	}, nil
}

func (o *fundOps) create(ctx context.Context, pusher *domain.Pusher, name string, data json.RawMessage) (any, error) {
	fund, err := o.buildFund(pusher.PusherID, name, data, time.Now())
	if err != nil {
		return nil, err
	}
	if err := o.repo.SaveFund(ctx, *fund); err != nil {
		return nil, err
	}
	return dto.ToFundResponse(fund, pusher.Name), nil
}

func (o *fundOps) list(ctx context.Context, pusher *domain.Pusher) (any, error) {
	funds, err := o.repo.ListFunds(ctx, pusher.PusherID)
	if err != nil {
		return nil, err
	}
	list := make([]dto.FundResponse, len(funds))
	for i, f := range funds {
		list[i] = dto.ToFundResponse(&f, pusher.Name)
	}
	return list, nil
}

func (o *fundOps) replace(ctx context.Context, pusher *domain.Pusher, name string, data json.RawMessage) (any, error) {
	existing, err := o.repo.FindFundByName(ctx, pusher.PusherID, name)
	if err != nil {
		return nil, err
	}
	fund, err := o.buildFund(pusher.PusherID, name, data, existing.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := o.repo.ReplaceFund(ctx, existing.EncapsulationID, *fund); err != nil {
		return nil, err
	}
	return dto.ToFundResponse(fund, pusher.Name), nil
}

func (o *fundOps) remove(ctx context.Context, pusher *domain.Pusher, name string) error {
	existing, err := o.repo.FindFundByName(ctx, pusher.PusherID, name)
	if err != nil {
		return err
	}
	return o.repo.DeleteFund(ctx, existing.EncapsulationID)
}

func (o *fundOps) resolveID(ctx context.Context, pusherID, name string) (string, error) {
	existing, err := o.repo.FindFundByName(ctx, pusherID, name)
	if err != nil {
		return "", err
	}
	return existing.EncapsulationID, nil
}

func (o *fundOps) saveValue(ctx context.Context, _ string, v domain.EncapsulationValue) (*domain.NetWorth, error) {
	return nil, o.repo.SaveFundValue(ctx, v)
}

func (o *fundOps) listValues(ctx context.Context, encapsulationID string, limit, offset int) ([]domain.EncapsulationValue, int64, error) {
	return o.repo.ListFundValues(ctx, encapsulationID, limit, offset)
}

func (o *fundOps) removeValue(ctx context.Context, encapsulationID string, ts time.Time) error {
	return o.repo.DeleteFundValue(ctx, encapsulationID, ts)
}

// accountOps backs the account registry entry. Recording an account value
// also refreshes the cached balance and appends a net-worth snapshot.
type accountOps struct {
	repo portsrepo.AccountRepository
}

func (o *accountOps) buildAccount(pusherID, name string, data json.RawMessage, createdAt time.Time) (*domain.Account, error) {
	var payload dto.AccountData
	if err := dto.Decode(data, &payload); err != nil {
		return nil, err
	}
	priority := defaultPriority
	if payload.Priority != nil {
		priority = *payload.Priority
	}
	return &domain.Account{
		Encapsulation: domain.Encapsulation{
			EncapsulationID: uuid.NewString(),
			PusherID:        pusherID,
			Name:            name,
			Priority:        priority,
			Category:        payload.Category,
			CreatedAt:       createdAt,
		},
		AcctNumber: payload.AcctNumber,
		RoutNumber: payload.RoutNumber,
	}, nil
}

func (o *accountOps) create(ctx context.Context, pusher *domain.Pusher, name string, data json.RawMessage) (any, error) {
	account, err := o.buildAccount(pusher.PusherID, name, data, time.Now())
	if err != nil {
		return nil, err
	}
	if err := o.repo.SaveAccount(ctx, *account); err != nil {
		return nil, err
	}
	return dto.ToAccountResponse(account, pusher.Name), nil
}

func (o *accountOps) list(ctx context.Context, pusher *domain.Pusher) (any, error) {
	accounts, err := o.repo.ListAccounts(ctx, pusher.PusherID)
	if err != nil {
		return nil, err
	}
	list := make([]dto.AccountResponse, len(accounts))
	for i, a := range accounts {
		list[i] = dto.ToAccountResponse(&a, pusher.Name)
	}
	return list, nil
}

func (o *accountOps) replace(ctx context.Context, pusher *domain.Pusher, name string, data json.RawMessage) (any, error) {
	existing, err := o.repo.FindAccountByName(ctx, pusher.PusherID, name)
	if err != nil {
		return nil, err
	}
	account, err := o.buildAccount(pusher.PusherID, name, data, existing.CreatedAt)
	if err != nil {
		return nil, err
	}
	// The balance survives the swap; only the descriptive fields change.
	account.CurrentValue = existing.CurrentValue
	if err := o.repo.ReplaceAccount(ctx, existing.EncapsulationID, *account); err != nil {
		return nil, err
	}
	return dto.ToAccountResponse(account, pusher.Name), nil
}

func (o *accountOps) remove(ctx context.Context, pusher *domain.Pusher, name string) error {
	existing, err := o.repo.FindAccountByName(ctx, pusher.PusherID, name)
	if err != nil {
		return err
	}
	return o.repo.DeleteAccount(ctx, existing.EncapsulationID)
}

func (o *accountOps) resolveID(ctx context.Context, pusherID, name string) (string, error) {
	existing, err := o.repo.FindAccountByName(ctx, pusherID, name)
	if err != nil {
		return "", err
	}
	return existing.EncapsulationID, nil
}

func (o *accountOps) saveValue(ctx context.Context, pusherID string, v domain.EncapsulationValue) (*domain.NetWorth, error) {
	return o.repo.SaveAccountValue(ctx, pusherID, v)
}

func (o *accountOps) listValues(ctx context.Context, encapsulationID string, limit, offset int) ([]domain.EncapsulationValue, int64, error) {
	return o.repo.ListAccountValues(ctx, encapsulationID, limit, offset)
}

func (o *accountOps) removeValue(ctx context.Context, encapsulationID string, ts time.Time) error {
	return o.repo.DeleteAccountValue(ctx, encapsulationID, ts)
}
