package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pennypusher/pennypusher/internal/apperrors"
	"github.com/pennypusher/pennypusher/internal/core/domain"
	portsrepo "github.com/pennypusher/pennypusher/internal/core/ports/repositories"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/core/services"
	"github.com/pennypusher/pennypusher/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock IncomeRepository ---
type MockIncomeRepository struct {
	mock.Mock
}

func (m *MockIncomeRepository) SaveIncome(ctx context.Context, income domain.Income) error {
	args := m.Called(ctx, income)
	return args.Error(0)
}

func (m *MockIncomeRepository) IncomeExists(ctx context.Context, pusherID string, ts time.Time) (bool, error) {
	args := m.Called(ctx, pusherID, ts)
	return args.Bool(0), args.Error(1)
}

func (m *MockIncomeRepository) FindIncomeByTimestamp(ctx context.Context, pusherID string, ts time.Time) (*domain.Income, error) {
	args := m.Called(ctx, pusherID, ts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Income), args.Error(1)
}

func (m *MockIncomeRepository) ListIncomes(ctx context.Context, pusherID string, limit, offset int) ([]domain.Income, int64, error) {
	args := m.Called(ctx, pusherID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Income), args.Get(1).(int64), args.Error(2)
}

func (m *MockIncomeRepository) DeleteIncome(ctx context.Context, incomeID string) error {
	args := m.Called(ctx, incomeID)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) ExpenseExists(ctx context.Context, pusherID string, ts time.Time) (bool, error) {
	args := m.Called(ctx, pusherID, ts)
	return args.Bool(0), args.Error(1)
}

func (m *MockExpenseRepository) FindExpenseByTimestamp(ctx context.Context, pusherID string, ts time.Time) (*domain.Expense, error) {
	args := m.Called(ctx, pusherID, ts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, pusherID string, limit, offset int) ([]domain.Expense, int64, error) {
	args := m.Called(ctx, pusherID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	args := m.Called(ctx, expenseID)
	return args.Error(0)
}

// --- Mock PaycheckRepository ---
type MockPaycheckRepository struct {
	mock.Mock
}

func (m *MockPaycheckRepository) SavePaycheck(ctx context.Context, paycheck domain.Paycheck, income domain.Income) error {
	args := m.Called(ctx, paycheck, income)
	return args.Error(0)
}

func (m *MockPaycheckRepository) PaycheckExists(ctx context.Context, pusherID string, payDate time.Time) (bool, error) {
	args := m.Called(ctx, pusherID, payDate)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaycheckRepository) FindPaycheckByPayDate(ctx context.Context, pusherID string, payDate time.Time) (*domain.Paycheck, error) {
	args := m.Called(ctx, pusherID, payDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Paycheck), args.Error(1)
}

func (m *MockPaycheckRepository) ListPaychecks(ctx context.Context, pusherID string, limit, offset int) ([]domain.Paycheck, int64, error) {
	args := m.Called(ctx, pusherID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Paycheck), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaycheckRepository) DeletePaycheck(ctx context.Context, paycheckID, incomeID string) error {
	args := m.Called(ctx, paycheckID, incomeID)
	return args.Error(0)
}

// --- Mock BillRepository ---
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) BillExists(ctx context.Context, pusherID, item string, dueDate time.Time) (bool, error) {
	args := m.Called(ctx, pusherID, item, dueDate)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillRepository) FindBill(ctx context.Context, pusherID, item string, dueDate time.Time) (*domain.Bill, error) {
	args := m.Called(ctx, pusherID, item, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepository) ListBills(ctx context.Context, pusherID string, limit, offset int) ([]domain.Bill, int64, error) {
	args := m.Called(ctx, pusherID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Bill), args.Get(1).(int64), args.Error(2)
}

func (m *MockBillRepository) ReplaceBill(ctx context.Context, oldID string, bill domain.Bill) error {
	args := m.Called(ctx, oldID, bill)
	return args.Error(0)
}

func (m *MockBillRepository) DeleteBill(ctx context.Context, billID string) error {
	args := m.Called(ctx, billID)
	return args.Error(0)
}

// --- Mock SubscriptionRepository ---
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) SaveSubscription(ctx context.Context, sub domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) SubscriptionExists(ctx context.Context, pusherID, item string) (bool, error) {
	args := m.Called(ctx, pusherID, item)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) FindSubscription(ctx context.Context, pusherID, item string) (*domain.Subscription, error) {
	args := m.Called(ctx, pusherID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListSubscriptions(ctx context.Context, pusherID string, limit, offset int) ([]domain.Subscription, int64, error) {
	args := m.Called(ctx, pusherID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Subscription), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubscriptionRepository) ReplaceSubscription(ctx context.Context, oldID string, sub domain.Subscription) error {
	args := m.Called(ctx, oldID, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

// --- Mock TradeRepository ---
type MockTradeRepository struct {
	mock.Mock
}

func (m *MockTradeRepository) SaveTrade(ctx context.Context, trade domain.Trade) error {
	args := m.Called(ctx, trade)
	return args.Error(0)
}

func (m *MockTradeRepository) TradeExists(ctx context.Context, pusherID, tradeType, item string) (bool, error) {
	args := m.Called(ctx, pusherID, tradeType, item)
	return args.Bool(0), args.Error(1)
}

func (m *MockTradeRepository) FindTrade(ctx context.Context, pusherID, tradeType, item string) (*domain.Trade, error) {
	args := m.Called(ctx, pusherID, tradeType, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trade), args.Error(1)
}

func (m *MockTradeRepository) ListTrades(ctx context.Context, pusherID, tradeType string, limit, offset int) ([]domain.Trade, int64, error) {
	args := m.Called(ctx, pusherID, tradeType, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Trade), args.Get(1).(int64), args.Error(2)
}

func (m *MockTradeRepository) ReplaceTrade(ctx context.Context, oldID string, trade domain.Trade) error {
	args := m.Called(ctx, oldID, trade)
	return args.Error(0)
}

func (m *MockTradeRepository) DeleteTrade(ctx context.Context, tradeID string) error {
	args := m.Called(ctx, tradeID)
	return args.Error(0)
}

// --- Test Suite ---
type EntityServiceTestSuite struct {
	suite.Suite
	mockIncomeRepo       *MockIncomeRepository
	mockExpenseRepo      *MockExpenseRepository
	mockPaycheckRepo     *MockPaycheckRepository
	mockBillRepo         *MockBillRepository
	mockSubscriptionRepo *MockSubscriptionRepository
	mockTradeRepo        *MockTradeRepository
	mockLinkBudgetRepo   *MockBudgetRepository
	mockLinkFundRepo     *MockFundRepository
	service              portssvc.EntitySvcFacade
	pusher               *domain.Pusher
	userID               string
}

func (suite *EntityServiceTestSuite) SetupTest() {
	suite.mockIncomeRepo = new(MockIncomeRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockPaycheckRepo = new(MockPaycheckRepository)
	suite.mockBillRepo = new(MockBillRepository)
	suite.mockSubscriptionRepo = new(MockSubscriptionRepository)
	suite.mockTradeRepo = new(MockTradeRepository)
	suite.mockLinkBudgetRepo = new(MockBudgetRepository)
	suite.mockLinkFundRepo = new(MockFundRepository)
	suite.service = services.NewEntityService(&portsrepo.RepositoryProvider{
		Income:       suite.mockIncomeRepo,
		Expense:      suite.mockExpenseRepo,
		Paycheck:     suite.mockPaycheckRepo,
		Bill:         suite.mockBillRepo,
		Subscription: suite.mockSubscriptionRepo,
		Trade:        suite.mockTradeRepo,
		Budget:       suite.mockLinkBudgetRepo,
		Fund:         suite.mockLinkFundRepo,
	})
	suite.pusher = &domain.Pusher{
		PusherID: uuid.NewString(),
		Name:     "household",
		Key:      "AB12CD34",
	}
	suite.userID = uuid.NewString()
}

func (suite *EntityServiceTestSuite) TestCreatePaycheck_WritesOwnedIncome() {
	ctx := context.Background()
	data := json.RawMessage(`{
		"company_name": "Acme",
		"hours": "80",
		"start_date": "2026-08-01",
		"end_date": "2026-08-14",
		"pay_date": "2026-08-15",
		"gross_amt": "3000.00",
		"net_amt": "2200.00"
	}`)

	var savedPaycheck domain.Paycheck
	var savedIncome domain.Income
	suite.mockPaycheckRepo.On("SavePaycheck", ctx, mock.AnythingOfType("domain.Paycheck"), mock.AnythingOfType("domain.Income")).
		Run(func(args mock.Arguments) {
			savedPaycheck = args.Get(1).(domain.Paycheck)
			savedIncome = args.Get(2).(domain.Income)
		}).Return(nil).Once()

	resp, err := suite.service.Create(ctx, suite.pusher, suite.userID, domain.KindPaycheck, data)

	suite.Require().NoError(err)
	suite.Equal("Acme paycheck", savedIncome.Item)
	suite.Equal("Paychecks", savedIncome.Category)
	suite.Equal("Acme", savedIncome.Source)
	suite.True(savedIncome.Amount.Equal(decimal.RequireFromString("2200.00")))
	suite.Equal(savedIncome.IncomeID, savedPaycheck.IncomeID)
	suite.Equal("2026-08-15", savedPaycheck.PayDate.Format(dto.DateLayout))

	paycheck, ok := resp.(dto.PaycheckResponse)
	suite.Require().True(ok)
	suite.Equal("Acme", paycheck.Company)
	suite.mockPaycheckRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestDeletePaycheck_CascadesToIncome() {
	ctx := context.Background()
	payDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	paycheck := &domain.Paycheck{
		PaycheckID: uuid.NewString(),
		PusherID:   suite.pusher.PusherID,
		PayDate:    payDate,
		IncomeID:   uuid.NewString(),
	}

	suite.mockPaycheckRepo.On("FindPaycheckByPayDate", ctx, suite.pusher.PusherID, payDate).Return(paycheck, nil).Once()
	suite.mockPaycheckRepo.On("DeletePaycheck", ctx, paycheck.PaycheckID, paycheck.IncomeID).Return(nil).Once()

	err := suite.service.Delete(ctx, suite.pusher, domain.KindPaycheck, dto.EntityQuery{Timestamp: "2026-08-15"})

	suite.Require().NoError(err)
	suite.mockPaycheckRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestCreateExpense_BudgetWinsOverFund() {
	ctx := context.Background()
	budget := &domain.Budget{
		Encapsulation: domain.Encapsulation{
			EncapsulationID: uuid.NewString(),
			PusherID:        suite.pusher.PusherID,
			Name:            "food",
		},
	}
	data := json.RawMessage(`{"item": "coffee", "amount": "4.50", "budget": "food", "fund": "vacation"}`)

	suite.mockLinkBudgetRepo.On("FindBudgetByName", ctx, suite.pusher.PusherID, "food").Return(budget, nil).Once()
	suite.mockExpenseRepo.On("SaveExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.BudgetID != nil && *e.BudgetID == budget.EncapsulationID && e.FundID == nil
	})).Return(nil).Once()

	resp, err := suite.service.Create(ctx, suite.pusher, suite.userID, domain.KindExpense, data)

	suite.Require().NoError(err)
	suite.NotNil(resp)
	suite.mockLinkFundRepo.AssertNotCalled(suite.T(), "FindFundByName", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestCreateExpense_ResolvesBudgetName() {
	ctx := context.Background()
	budget := &domain.Budget{
		Encapsulation: domain.Encapsulation{
			EncapsulationID: uuid.NewString(),
			PusherID:        suite.pusher.PusherID,
			Name:            "food",
		},
	}
	data := json.RawMessage(`{"item": "coffee", "amount": "4.50", "budget": "food"}`)

	suite.mockLinkBudgetRepo.On("FindBudgetByName", ctx, suite.pusher.PusherID, "food").Return(budget, nil).Once()
	suite.mockExpenseRepo.On("SaveExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.BudgetID != nil && *e.BudgetID == budget.EncapsulationID && e.FundID == nil
	})).Return(nil).Once()

	resp, err := suite.service.Create(ctx, suite.pusher, suite.userID, domain.KindExpense, data)

	suite.Require().NoError(err)
	expense, ok := resp.(dto.ExpenseResponse)
	suite.Require().True(ok)
	suite.Require().NotNil(expense.Budget)
	suite.Equal("food", *expense.Budget)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestReplaceIncome_Rejected() {
	ctx := context.Background()

	resp, err := suite.service.Replace(ctx, suite.pusher, suite.userID, domain.KindIncome, json.RawMessage(`{}`))

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "cannot be updated")
}

func (suite *EntityServiceTestSuite) TestReplaceBill_SwapsRowByItemAndDueDate() {
	ctx := context.Background()
	dueDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.Bill{
		BillID:   uuid.NewString(),
		PusherID: suite.pusher.PusherID,
		Item:     "electric",
		DueDate:  dueDate,
	}
	data := json.RawMessage(`{"item": "electric", "amount": "90.00", "status": "unpaid", "due_date": "2026-09-01"}`)

	suite.mockBillRepo.On("FindBill", ctx, suite.pusher.PusherID, "electric", dueDate).Return(existing, nil).Once()
	suite.mockBillRepo.On("ReplaceBill", ctx, existing.BillID, mock.MatchedBy(func(b domain.Bill) bool {
		return b.BillID != existing.BillID && b.Amount.Equal(decimal.RequireFromString("90.00"))
	})).Return(nil).Once()

	resp, err := suite.service.Replace(ctx, suite.pusher, suite.userID, domain.KindBill, data)

	suite.Require().NoError(err)
	bill, ok := resp.(dto.BillResponse)
	suite.Require().True(ok)
	suite.Equal("unpaid", bill.Status)
	suite.mockBillRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestDeleteBill_RequiresItem() {
	ctx := context.Background()

	err := suite.service.Delete(ctx, suite.pusher, domain.KindBill, dto.EntityQuery{DueDate: "2026-09-01"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBillRepo.AssertNotCalled(suite.T(), "FindBill", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestCreateTrade_StampsTradeType() {
	ctx := context.Background()
	data := json.RawMessage(`{"item": "old bike", "amount": "120.00", "status": "listed"}`)

	suite.mockTradeRepo.On("SaveTrade", ctx, mock.MatchedBy(func(t domain.Trade) bool {
		return t.TradeType == "for_sale" && t.Item == "old bike"
	})).Return(nil).Once()

	resp, err := suite.service.Create(ctx, suite.pusher, suite.userID, domain.KindForSale, data)

	suite.Require().NoError(err)
	trade, ok := resp.(dto.TradeResponse)
	suite.Require().True(ok)
	suite.Equal("for_sale", trade.Type)
	suite.mockTradeRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestListTrades_FiltersByTradeType() {
	ctx := context.Background()
	trades := []domain.Trade{
		{TradeID: uuid.NewString(), PusherID: suite.pusher.PusherID, Item: "guitar", TradeType: "desired_purchase"},
	}

	suite.mockTradeRepo.On("ListTrades", ctx, suite.pusher.PusherID, "desired_purchase", 50, 0).Return(trades, int64(1), nil).Once()

	resp, err := suite.service.List(ctx, suite.pusher, domain.KindDesiredPurchase, dto.PageParams{})

	suite.Require().NoError(err)
	suite.Equal(int64(1), resp.Count)
	results, ok := resp.Results.([]dto.TradeResponse)
	suite.Require().True(ok)
	suite.Len(results, 1)
	suite.Equal("guitar", results[0].Item)
	suite.mockTradeRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestCreate_UnknownKind() {
	ctx := context.Background()

	resp, err := suite.service.Create(ctx, suite.pusher, suite.userID, domain.EntityKind("stocks"), json.RawMessage(`{}`))

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EntityServiceTestSuite) TestDeleteIncome_ParsesTimestampAndDeletes() {
	ctx := context.Background()
	ts := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	income := &domain.Income{
		IncomeID: uuid.NewString(),
		PusherID: suite.pusher.PusherID,
	}

	suite.mockIncomeRepo.On("FindIncomeByTimestamp", ctx, suite.pusher.PusherID, ts).Return(income, nil).Once()
	suite.mockIncomeRepo.On("DeleteIncome", ctx, income.IncomeID).Return(nil).Once()

	err := suite.service.Delete(ctx, suite.pusher, domain.KindIncome, dto.EntityQuery{Timestamp: "2026-08-20T14:30:00Z"})

	suite.Require().NoError(err)
	suite.mockIncomeRepo.AssertExpectations(suite.T())
}

func TestEntityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntityServiceTestSuite))
}
