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

// paycheckIncomeCategory is the category stamped on the income row a
// paycheck owns.
const paycheckIncomeCategory = "Paychecks"

// entityOps is the per-kind behavior behind the entity registry.
type entityOps interface {
	create(ctx context.Context, pusher *domain.Pusher, userID string, data json.RawMessage) (any, error)
	list(ctx context.Context, pusher *domain.Pusher, limit, offset int) (any, int64, error)
	replace(ctx context.Context, pusher *domain.Pusher, userID string, data json.RawMessage) (any, error)
	remove(ctx context.Context, pusher *domain.Pusher, query dto.EntityQuery) error
}

type entityService struct {
	BaseService
	registry map[domain.EntityKind]entityOps
}

// NewEntityService creates the entity facade with one registry entry per
// supported kind. The for_sale and desired_purchase entries share the
// trade repository, split by trade type.
func NewEntityService(repos *portsrepo.RepositoryProvider) portssvc.EntitySvcFacade {
	links := &encapsulationLinker{budgetRepo: repos.Budget, fundRepo: repos.Fund}
	return &entityService{
		registry: map[domain.EntityKind]entityOps{
			domain.KindIncome:          &incomeOps{repo: repos.Income},
			domain.KindExpense:         &expenseOps{repo: repos.Expense, links: links},
			domain.KindPaycheck:        &paycheckOps{repo: repos.Paycheck},
			domain.KindBill:            &billOps{repo: repos.Bill, links: links},
			domain.KindSubscription:    &subscriptionOps{repo: repos.Subscription},
			domain.KindForSale:         &tradeOps{repo: repos.Trade, tradeType: string(domain.KindForSale)},
			domain.KindDesiredPurchase: &tradeOps{repo: repos.Trade, tradeType: string(domain.KindDesiredPurchase)},
		},
	}
}

var _ portssvc.EntitySvcFacade = (*entityService)(nil)

func (s *entityService) ops(kind domain.EntityKind) (entityOps, error) {
	ops, ok := s.registry[kind]
	if !ok {
		return nil, apperrors.NewValidationFailedError("The type [" + string(kind) + "] is not a valid entity type.")
	}
	return ops, nil
}

func (s *entityService) Create(ctx context.Context, pusher *domain.Pusher, userID string, kind domain.EntityKind, data json.RawMessage) (any, error) {
	ops, err := s.ops(kind)
	if err != nil {
		return nil, err
	}
	return ops.create(ctx, pusher, userID, data)
}

func (s *entityService) List(ctx context.Context, pusher *domain.Pusher, kind domain.EntityKind, params dto.PageParams) (*dto.PagedResponse, error) {
	ops, err := s.ops(kind)
	if err != nil {
		return nil, err
	}
	limit, offset := params.LimitOffset()
	results, total, err := ops.list(ctx, pusher, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewPagedResponse(total, params, results), nil
}

func (s *entityService) Replace(ctx context.Context, pusher *domain.Pusher, userID string, kind domain.EntityKind, data json.RawMessage) (any, error) {
	ops, err := s.ops(kind)
	if err != nil {
		return nil, err
	}
	if !kind.IsElective() {
		return nil, apperrors.NewValidationFailedError("The type [" + string(kind) + "] cannot be updated.")
	}
	return ops.replace(ctx, pusher, userID, data)
}

func (s *entityService) Delete(ctx context.Context, pusher *domain.Pusher, kind domain.EntityKind, query dto.EntityQuery) error {
	ops, err := s.ops(kind)
	if err != nil {
		return err
	}
	return ops.remove(ctx, pusher, query)
}

func parseWireDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperrors.NewValidationFailedError(field + " is required")
	}
	ts, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationFailedError(field + " must be formatted as " + dto.DateLayout)
	}
	return ts, nil
}

func parseWireTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperrors.NewValidationFailedError("timestamp is required")
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, apperrors.NewValidationFailedError("timestamp must be formatted as RFC 3339")
}

// encapsulationLinker resolves budget/fund display names on expense-like
// payloads to their row ids. When both names are present the budget wins
// and the fund link is left nil.
type encapsulationLinker struct {
	budgetRepo portsrepo.BudgetRepository
	fundRepo   portsrepo.FundRepository
}

func (l *encapsulationLinker) resolve(ctx context.Context, pusherID string, budgetName, fundName *string) (budgetID, fundID *string, err error) {
	if budgetName != nil {
		budget, err := l.budgetRepo.FindBudgetByName(ctx, pusherID, *budgetName)
		if err != nil {
			return nil, nil, err
		}
		return &budget.EncapsulationID, nil, nil
	}
	if fundName != nil {
		fund, err := l.fundRepo.FindFundByName(ctx, pusherID, *fundName)
		if err != nil {
			return nil, nil, err
		}
		return nil, &fund.EncapsulationID, nil
	}
	return nil, nil, nil
}

// incomeOps backs the income registry entry.
type incomeOps struct {
	repo portsrepo.IncomeRepository
}

func (o *incomeOps) create(ctx context.Context, pusher *domain.Pusher, userID string, data json.RawMessage) (any, error) {
	var payload dto.IncomeData
	if err := dto.Decode(data, &payload); err != nil {
		return nil, err
	}
	income := domain.Income{
		IncomeID:  uuid.NewString(),
		PusherID:  pusher.PusherID,
		UserID:    userID,
		Item:      payload.Item,
		Amount:    payload.Amount,
		Source:    payload.Source,
		Category:  payload.Category,
		Timestamp: time.Now(),
	}
	if err := o.repo.SaveIncome(ctx, income); err != nil {
		return nil, err
	}
	return dto.ToIncomeResponse(&income, pusher.Name), nil
}

func (o *incomeOps) list(ctx context.Context, pusher *domain.Pusher, limit, offset int) (any, int64, error) {
	incomes, total, err := o.repo.ListIncomes(ctx, pusher.PusherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.IncomeResponse, len(incomes))
	for i, in := range incomes {
		list[i] = dto.ToIncomeResponse(&in, pusher.Name)
	}
	return list, total, nil
}

func (o *incomeOps) replace(context.Context, *domain.Pusher, string, json.RawMessage) (any, error) {
	return nil, apperrors.NewValidationFailedError("The type [income] cannot be updated.")
}

func (o *incomeOps) remove(ctx context.Context, pusher *domain.Pusher, query dto.EntityQuery) error {
	ts, err := parseWireTimestamp(query.Timestamp)
	if err != nil {
		return err
	}
	income, err := o.repo.FindIncomeByTimestamp(ctx, pusher.PusherID, ts)
	if err != nil {
		return err
	}
	return o.repo.DeleteIncome(ctx, income.IncomeID)
}

// expenseOps backs the expense registry entry.
type expenseOps struct {
	repo  portsrepo.ExpenseRepository
	links *encapsulationLinker
}

func (o *expenseOps) create(ctx context.Context, pusher *domain.Pusher, userID string, data json.RawMessage) (any, error) {
	var payload dto.ExpenseData
	if err := dto.Decode(data, &payload); err != nil {
		return nil, err
	}
	budgetID, fundID, err := o.links.resolve(ctx, pusher.PusherID, payload.Budget, payload.Fund)
	if err != nil {
		return nil, err
	}
	expense := domain.Expense{
		ExpenseID:  uuid.NewString(),
		PusherID:   pusher.PusherID,
		UserID:     userID,
		Item:       payload.Item,
		Amount:     payload.Amount,
		Party:      payload.Party,
		Category:   payload.Category,
		BudgetID:   budgetID,
		FundID:     fundID,
		BudgetName: payload.Budget,
		FundName:   payload.Fund,
		Timestamp:  time.Now(),
	}
	if err := o.repo.SaveExpense(ctx, expense); err != nil {
		return nil, err
	}
	return dto.ToExpenseResponse(&expense, pusher.Name), nil
}

func (o *expenseOps) list(ctx context.Context, pusher *domain.Pusher, limit, offset int) (any, int64, error) {
	expenses, total, err := o.repo.ListExpenses(ctx, pusher.PusherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.ExpenseResponse, len(expenses))
	for i, e := range expenses {
		list[i] = dto.ToExpenseResponse(&e, pusher.Name)
	}
	return list, total, nil
}

func (o *expenseOps) replace(context.Context, *domain.Pusher, string, json.RawMessage) (any, error) {
	return nil, apperrors.NewValidationFailedError("The type [expense] cannot be updated.")
}

func (o *expenseOps) remove(ctx context.Context, pusher *domain.Pusher, query dto.EntityQuery) error {
	ts, err := parseWireTimestamp(query.Timestamp)
	if err != nil {
		return err
	}
	expense, err := o.repo.FindExpenseByTimestamp(ctx, pusher.PusherID, ts)
	if err != nil {
		return err
	}
	return o.repo.DeleteExpense(ctx, expense.ExpenseID)
}

// paycheckOps backs the paycheck registry entry. Creating a paycheck also
// creates the income row carrying its net amount; deleting removes both.
type paycheckOps struct {
	repo portsrepo.PaycheckRepository
}

func (o *paycheckOps) create(ctx context.Context, pusher *domain.Pusher, userID string, data json.RawMessage) (any, error) {
	var payload dto.PaycheckData
	if err := dto.Decode(data, &payload); err != nil {
		return nil, err
	}
	startDate, err := parseWireDate(payload.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := parseWireDate(payload.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	payDate, err := parseWireDate(payload.PayDate, "pay_date")
	if err != nil {
		return nil, err
	}

	income := domain.Income{
		IncomeID:  uuid.NewString(),
		PusherID:  pusher.PusherID,
		UserID:    userID,
		Item:      payload.Company + " paycheck",
		Amount:    payload.NetAmt,
		Source:    payload.Company,
		Category:  paycheckIncomeCategory,
		Timestamp: time.Now(),
	}
	paycheck := domain.Paycheck{
		PaycheckID:   uuid.NewString(),
		PusherID:     pusher.PusherID,
		UserID:       userID,
		Source:       payload.Company,
		Hours:        payload.Hours,
		StartDate:    startDate,
		EndDate:      endDate,
		PayDate:      payDate,
		GrossAmt:     payload.GrossAmt,
		PreTaxDeduc:  payload.PreTaxDeduc,
		PostTaxDeduc: payload.PostTaxDeduc,
		FederalWith:  payload.FederalWith,
		StateTax:     payload.StateTax,
		CityTax:      payload.CityTax,
		Medicare:     payload.Medicare,
		Oasdi:        payload.Oasdi,
		NetAmt:       payload.NetAmt,
		IncomeID:     income.IncomeID,
	}
	if err := o.repo.SavePaycheck(ctx, paycheck, income); err != nil {
		return nil, err
	}
	return dto.ToPaycheckResponse(&paycheck, pusher.Name), nil
}

func (o *paycheckOps) list(ctx context.Context, pusher *domain.Pusher, limit, offset int) (any, int64, error) {
	paychecks, total, err := o.repo.ListPaychecks(ctx, pusher.PusherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.PaycheckResponse, len(paychecks))
	for i, p := range paychecks {
		list[i] = dto.ToPaycheckResponse(&p, pusher.Name)
	}
	return list, total, nil
}

func (o *paycheckOps) replace(context.Context, *domain.Pusher, string, json.RawMessage) (any, error) {
	return nil, apperrors.NewValidationFailedError("The type [paycheck] cannot be updated.")
}

func (o *paycheckOps) remove(ctx context.Context, pusher *domain.Pusher, query dto.EntityQuery) error {
	payDate, err := parseWireDate(query.Timestamp, "timestamp")
	if err != nil {
		return err
	}
	paycheck, err := o.repo.FindPaycheckByPayDate(ctx, pusher.PusherID, payDate)
	if err != nil {
		return err
	}
	return o.repo.DeletePaycheck(ctx, paycheck.PaycheckID, paycheck.IncomeID)
}

// billOps backs the bill registry entry.
type billOps struct {
	repo  portsrepo.BillRepository
	links *encapsulationLinker
}

func (o *billOps) buildBill(ctx context.Context, pusher *domain.Pusher, userID string, data json.RawMessage) (*domain.Bill, error) {
	var payload dto.BillData
	if err := dto.Decode(data, &payload); err != nil {
		return nil, err
	}
	dueDate, err := parseWireDate(payload.DueDate, "due_date")
	if err != nil {
		return nil, err
	}
	budgetID, fundID, err := o.links.resolve(ctx, pusher.PusherID, payload.Budget, payload.Fund)
	if err != nil {
		return nil, err
	}
	return &domain.Bill{
		BillID:     uuid.NewString(),
		PusherID:   pusher.PusherID,
		UserID:     userID,
		Item:       payload.Item,
		Amount:     payload.Amount,
		Party:      payload.Party,
		Category:   payload.Category,
		BudgetID:   budgetID,
		FundID:     fundID,
		BudgetName: payload.Budget,
		FundName:   payload.Fund,
		Status:     payload.Status,
		DueDate:    dueDate,
	}, nil
}

func (o *billOps) create(ctx context.Context, pusher *domain.Pusher, userID string, data json.RawMessage) (any, error) {
	bill, err := o.buildBill(ctx, pusher, userID, data)
	if err != nil {
		return nil, err
	}
	if err := o.repo.SaveBill(ctx, *bill); err != nil {
		return nil, err
	}
	return dto.ToBillResponse(bill, pusher.Name), nil
}

func (o *billOps) list(ctx context.Context, pusher *domain.Pusher, limit, offset int) (any, int64, error) {
	bills, total, err := o.repo.ListBills(ctx, pusher.PusherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.BillResponse, len(bills))
	for i, b := range bills {
		list[i] = dto.ToBillResponse(&b, pusher.Name)
	}
	return list, total, nil
}

func (o *billOps) replace(ctx context.Context, pusher *domain.Pusher, userID string, data json.RawMessage) (any, error) {
	bill, err := o.buildBill(ctx, pusher, userID, data)
	if err != nil {
		return nil, err
	}
	existing, err := o.repo.FindBill(ctx, pusher.PusherID, bill.Item, bill.DueDate)
	if err != nil {
		return nil, err
	}
	if err := o.repo.ReplaceBill(ctx, existing.BillID, *bill); err != nil {
		return nil, err
	}
	return dto.ToBillResponse(bill, pusher.Name), nil
}

func (o *billOps) remove(ctx context.Context, pusher *domain.Pusher, query dto.EntityQuery) error {
	if query.Item == "" {
		return apperrors.NewValidationFailedError("item is required")
	}
	dueDate, err := parseWireDate(query.DueDate, "due_date")
	if err != nil {
		return err
	}
	existing, err := o.repo.FindBill(ctx, pusher.PusherID, query.Item, dueDate)
	if err != nil {
		return err
	}
	return o.repo.DeleteBill(ctx, existing.BillID)
}

// subscriptionOps backs the subscription registry entry.
type subscriptionOps struct {
	repo portsrepo.SubscriptionRepository
}

func (o *subscriptionOps) buildSubscription(pusher *domain.Pusher, data json.RawMessage) (*domain.Subscription, error) {
	var payload dto.SubscriptionData
	if err := dto.Decode(data, &payload); err != nil {
		return nil, err
	}
	startDate, err := parseWireDate(payload.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	return &domain.Subscription{
		SubscriptionID: uuid.NewString(),
		PusherID:       pusher.PusherID,
		Item:           payload.Item,
		Amount:         payload.Amount,
		PayPeriod:      payload.PayPeriod,
		StartDate:      startDate,
		Status:         payload.Status,
	}, nil
}

func (o *subscriptionOps) create(ctx context.Context, pusher *domain.Pusher, _ string, data json.RawMessage) (any, error) {
	sub, err := o.buildSubscription(pusher, data)
	if err != nil {
		return nil, err
	}
	if err := o.repo.SaveSubscription(ctx, *sub); err != nil {
		return nil, err
	}
	return dto.ToSubscriptionResponse(sub, pusher.Name), nil
}

func (o *subscriptionOps) list(ctx context.Context, pusher *domain.Pusher, limit, offset int) (any, int64, error) {
	subs, total, err := o.repo.ListSubscriptions(ctx, pusher.PusherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.SubscriptionResponse, len(subs))
	for i, s := range subs {
		list[i] = dto.ToSubscriptionResponse(&s, pusher.Name)
	}
	return list, total, nil
}

func (o *subscriptionOps) replace(ctx context.Context, pusher *domain.Pusher, _ string, data json.RawMessage) (any, error) {
	sub, err := o.buildSubscription(pusher, data)
	if err != nil {
		return nil, err
	}
	existing, err := o.repo.FindSubscription(ctx, pusher.PusherID, sub.Item)
	if err != nil {
		return nil, err
	}
	if err := o.repo.ReplaceSubscription(ctx, existing.SubscriptionID, *sub); err != nil {
		return nil, err
	}
	return dto.ToSubscriptionResponse(sub, pusher.Name), nil
}

func (o *subscriptionOps) remove(ctx context.Context, pusher *domain.Pusher, query dto.EntityQuery) error {
	if query.Item == "" {
		return apperrors.NewValidationFailedError("item is required")
	}
	existing, err := o.repo.FindSubscription(ctx, pusher.PusherID, query.Item)
	if err != nil {
		return err
	}
	return o.repo.DeleteSubscription(ctx, existing.SubscriptionID)
}

// tradeOps backs both trade-flavored registry entries; tradeType pins the
// tag each instance serves.
type tradeOps struct {
	repo      portsrepo.TradeRepository
	tradeType string
}

func (o *tradeOps) buildTrade(pusher *domain.Pusher, data json.RawMessage) (*domain.Trade, error) {
	var payload dto.TradeData
	if err := dto.Decode(data, &payload); err != nil {
		return nil, err
	}
	return &domain.Trade{
		TradeID:   uuid.NewString(),
		PusherID:  pusher.PusherID,
		Item:      payload.Item,
		Amount:    payload.Amount,
		Status:    payload.Status,
		TradeType: o.tradeType,
	}, nil
}

func (o *tradeOps) create(ctx context.Context, pusher *domain.Pusher, _ string, data json.RawMessage) (any, error) {
	trade, err := o.buildTrade(pusher, data)
	if err != nil {
		return nil, err
	}
	if err := o.repo.SaveTrade(ctx, *trade); err != nil {
		return nil, err
	}
	return dto.ToTradeResponse(trade, pusher.Name), nil
}

func (o *tradeOps) list(ctx context.Context, pusher *domain.Pusher, limit, offset int) (any, int64, error) {
	trades, total, err := o.repo.ListTrades(ctx, pusher.PusherID, o.tradeType, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.TradeResponse, len(trades))
	for i, t := range trades {
		list[i] = dto.ToTradeResponse(&t, pusher.Name)
	}
	return list, total, nil
}

func (o *tradeOps) replace(ctx context.Context, pusher *domain.Pusher, _ string, data json.RawMessage) (any, error) {
	trade, err := o.buildTrade(pusher, data)
	if err != nil {
		return nil, err
	}
	existing, err := o.repo.FindTrade(ctx, pusher.PusherID, o.tradeType, trade.Item)
	if err != nil {
		return nil, err
	}
	if err := o.repo.ReplaceTrade(ctx, existing.TradeID, *trade); err != nil {
		return nil, err
	}
	return dto.ToTradeResponse(trade, pusher.Name), nil
}

func (o *tradeOps) remove(ctx context.Context, pusher *domain.Pusher, query dto.EntityQuery) error {
	if query.Item == "" {
		return apperrors.NewValidationFailedError("item is required")
	}
	existing, err := o.repo.FindTrade(ctx, pusher.PusherID, o.tradeType, query.Item)
	if err != nil {
		return err
	}
	return o.repo.DeleteTrade(ctx, existing.TradeID)
}
