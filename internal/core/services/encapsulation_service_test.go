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

// --- Mock BudgetRepository ---
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) BudgetExists(ctx context.Context, pusherID, name string) (bool, error) {
	args := m.Called(ctx, pusherID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetByName(ctx context.Context, pusherID, name string) (*domain.Budget, error) {
	args := m.Called(ctx, pusherID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, pusherID string) ([]domain.Budget, error) {
	args := m.Called(ctx, pusherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ReplaceBudget(ctx context.Context, oldID string, budget domain.Budget) error {
	args := m.Called(ctx, oldID, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	args := m.Called(ctx, budgetID)
	return args.Error(0)
}

func (m *MockBudgetRepository) SaveBudgetValue(ctx context.Context, value domain.EncapsulationValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *MockBudgetRepository) BudgetValueExists(ctx context.Context, budgetID string, ts time.Time) (bool, error) {
	args := m.Called(ctx, budgetID, ts)
	return args.Bool(0), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgetValues(ctx context.Context, budgetID string, limit, offset int) ([]domain.EncapsulationValue, int64, error) {
	args := m.Called(ctx, budgetID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.EncapsulationValue), args.Get(1).(int64), args.Error(2)
}

func (m *MockBudgetRepository) DeleteBudgetValue(ctx context.Context, budgetID string, ts time.Time) error {
	args := m.Called(ctx, budgetID, ts)
	return args.Error(0)
}

// --- Mock FundRepository ---
type MockFundRepository struct {
	mock.Mock
}

func (m *MockFundRepository) SaveFund(ctx context.Context, fund domain.Fund) error {
	args := m.Called(ctx, fund)
	return args.Error(0)
}

func (m *MockFundRepository) FundExists(ctx context.Context, pusherID, name string) (bool, error) {
	args := m.Called(ctx, pusherID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockFundRepository) FindFundByName(ctx context.Context, pusherID, name string) (*domain.Fund, error) {
	args := m.Called(ctx, pusherID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockFundRepository) ListFunds(ctx context.Context, pusherID string) ([]domain.Fund, error) {
	args := m.Called(ctx, pusherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fund), args.Error(1)
}

func (m *MockFundRepository) ReplaceFund(ctx context.Context, oldID string, fund domain.Fund) error {
	args := m.Called(ctx, oldID, fund)
	return args.Error(0)
}

func (m *MockFundRepository) DeleteFund(ctx context.Context, fundID string) error {
	args := m.Called(ctx, fundID)
	return args.Error(0)
}

func (m *MockFundRepository) SaveFundValue(ctx context.Context, value domain.EncapsulationValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *MockFundRepository) FundValueExists(ctx context.Context, fundID string, ts time.Time) (bool, error) {
	args := m.Called(ctx, fundID, ts)
	return args.Bool(0), args.Error(1)
}

func (m *MockFundRepository) ListFundValues(ctx context.Context, fundID string, limit, offset int) ([]domain.EncapsulationValue, int64, error) {
	args := m.Called(ctx, fundID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.EncapsulationValue), args.Get(1).(int64), args.Error(2)
}

func (m *MockFundRepository) DeleteFundValue(ctx context.Context, fundID string, ts time.Time) error {
	args := m.Called(ctx, fundID, ts)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) AccountExists(ctx context.Context, pusherID, name string) (bool, error) {
	args := m.Called(ctx, pusherID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByName(ctx context.Context, pusherID, name string) (*domain.Account, error) {
	args := m.Called(ctx, pusherID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, pusherID string) ([]domain.Account, error) {
	args := m.Called(ctx, pusherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ReplaceAccount(ctx context.Context, oldID string, account domain.Account) error {
	args := m.Called(ctx, oldID, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccountValue(ctx context.Context, pusherID string, value domain.EncapsulationValue) (*domain.NetWorth, error) {
	args := m.Called(ctx, pusherID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetWorth), args.Error(1)
}

func (m *MockAccountRepository) AccountValueExists(ctx context.Context, accountID string, ts time.Time) (bool, error) {
	args := m.Called(ctx, accountID, ts)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) ListAccountValues(ctx context.Context, accountID string, limit, offset int) ([]domain.EncapsulationValue, int64, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.EncapsulationValue), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) DeleteAccountValue(ctx context.Context, accountID string, ts time.Time) error {
	args := m.Called(ctx, accountID, ts)
	return args.Error(0)
}

// --- Test Suite ---
type EncapsulationServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo  *MockBudgetRepository
	mockFundRepo    *MockFundRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.EncapsulationSvcFacade
	pusher          *domain.Pusher
}

func (suite *EncapsulationServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockFundRepo = new(MockFundRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewEncapsulationService(&portsrepo.RepositoryProvider{
		Budget:  suite.mockBudgetRepo,
		Fund:    suite.mockFundRepo,
		Account: suite.mockAccountRepo,
	})
	suite.pusher = &domain.Pusher{
		PusherID: uuid.NewString(),
		Name:     "household",
		Key:      "AB12CD34",
	}
}

func (suite *EncapsulationServiceTestSuite) TestCreateBudget_Success() {
	ctx := context.Background()
	data := json.RawMessage(`{"alloc_amt": "250.00", "pay_period": "monthly", "pay_start": "2026-01-01", "category": "groceries"}`)

	suite.mockBudgetRepo.On("SaveBudget", ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.PusherID == suite.pusher.PusherID && b.Name == "food" && b.AllocAmt.Equal(decimal.RequireFromString("250.00"))
	})).Return(nil).Once()

	resp, err := suite.service.Create(ctx, suite.pusher, domain.KindBudget, "food", data)

	suite.Require().NoError(err)
	budget, ok := resp.(dto.BudgetResponse)
	suite.Require().True(ok)
	suite.Equal("household", budget.Pusher)
	suite.Equal("food", budget.Name)
	suite.Equal("2026-01-01", budget.PayStart)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *EncapsulationServiceTestSuite) TestCreateBudget_MissingAllocAmt() {
	ctx := context.Background()
	data := json.RawMessage(`{"pay_start": "2026-01-01"}`)

	resp, err := suite.service.Create(ctx, suite.pusher, domain.KindBudget, "food", data)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *EncapsulationServiceTestSuite) TestCreate_UnknownKind() {
	ctx := context.Background()

	resp, err := suite.service.Create(ctx, suite.pusher, domain.EncapsulationKind("stocks"), "x", json.RawMessage(`{}`))

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EncapsulationServiceTestSuite) TestReplaceFund_SwapsRowKeepingCreatedAt() {
	ctx := context.Background()
	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.Fund{
		Encapsulation: domain.Encapsulation{
			EncapsulationID: uuid.NewString(),
			PusherID:        suite.pusher.PusherID,
			Name:            "vacation",
			CreatedAt:       createdAt,
		},
		GoalAmt: decimal.RequireFromString("1000"),
	}
	data := json.RawMessage(`{"goal_amt": "2500.00", "category": "travel"}`)

	suite.mockFundRepo.On("FindFundByName", ctx, suite.pusher.PusherID, "vacation").Return(existing, nil).Once()
	suite.mockFundRepo.On("ReplaceFund", ctx, existing.EncapsulationID, mock.MatchedBy(func(f domain.Fund) bool {
		return f.EncapsulationID != existing.EncapsulationID &&
			f.GoalAmt.Equal(decimal.RequireFromString("2500.00")) &&
			f.CreatedAt.Equal(createdAt)
	})).Return(nil).Once()

	resp, err := suite.service.Replace(ctx, suite.pusher, domain.KindFund, "vacation", data)

	suite.Require().NoError(err)
	fund, ok := resp.(dto.FundResponse)
	suite.Require().True(ok)
	suite.Equal("travel", fund.Category)
	suite.mockFundRepo.AssertExpectations(suite.T())
}

func (suite *EncapsulationServiceTestSuite) TestDeleteBudget_NotFound() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("FindBudgetByName", ctx, suite.pusher.PusherID, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.Delete(ctx, suite.pusher, domain.KindBudget, "ghost")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *EncapsulationServiceTestSuite) TestCreateAccountValue_AppendsNetWorth() {
	ctx := context.Background()
	account := &domain.Account{
		Encapsulation: domain.Encapsulation{
			EncapsulationID: uuid.NewString(),
			PusherID:        suite.pusher.PusherID,
			Name:            "checking",
		},
	}
	req := dto.CreateEncapsulationValueRequest{
		PusherKey: suite.pusher.Key,
		Type:      "account",
		Name:      "checking",
		Value:     decimal.RequireFromString("150.00"),
	}

	suite.mockAccountRepo.On("FindAccountByName", ctx, suite.pusher.PusherID, "checking").Return(account, nil).Once()
	suite.mockAccountRepo.On("SaveAccountValue", ctx, suite.pusher.PusherID, mock.MatchedBy(func(v domain.EncapsulationValue) bool {
		return v.EncapsulationID == account.EncapsulationID && v.Value.Equal(decimal.RequireFromString("150.00"))
	})).Return(&domain.NetWorth{
		NetWorthID: uuid.NewString(),
		PusherID:   suite.pusher.PusherID,
		Amount:     decimal.RequireFromString("200.00"),
	}, nil).Once()

	resp, err := suite.service.CreateValue(ctx, suite.pusher, domain.KindAccount, req)

	suite.Require().NoError(err)
	suite.Equal("checking", resp.Name)
	suite.True(resp.Value.Equal(decimal.RequireFromString("150.00")))
	suite.Require().NotNil(resp.NetWorth)
	suite.True(resp.NetWorth.Equal(decimal.RequireFromString("200.00")))
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *EncapsulationServiceTestSuite) TestCreateBudgetValue_NoNetWorthSideEffect() {
	ctx := context.Background()
	budget := &domain.Budget{
		Encapsulation: domain.Encapsulation{
			EncapsulationID: uuid.NewString(),
			PusherID:        suite.pusher.PusherID,
			Name:            "food",
		},
	}
	req := dto.CreateEncapsulationValueRequest{
		PusherKey: suite.pusher.Key,
		Type:      "budget",
		Name:      "food",
		Value:     decimal.RequireFromString("42.00"),
	}

	suite.mockBudgetRepo.On("FindBudgetByName", ctx, suite.pusher.PusherID, "food").Return(budget, nil).Once()
	suite.mockBudgetRepo.On("SaveBudgetValue", ctx, mock.AnythingOfType("domain.EncapsulationValue")).Return(nil).Once()

	resp, err := suite.service.CreateValue(ctx, suite.pusher, domain.KindBudget, req)

	suite.Require().NoError(err)
	suite.Equal("food", resp.Name)
	suite.Nil(resp.NetWorth)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *EncapsulationServiceTestSuite) TestListValues_PaginatedEnvelope() {
	ctx := context.Background()
	fund := &domain.Fund{
		Encapsulation: domain.Encapsulation{
			EncapsulationID: uuid.NewString(),
			PusherID:        suite.pusher.PusherID,
			Name:            "vacation",
		},
	}
	snapshots := []domain.EncapsulationValue{
		{ValueID: uuid.NewString(), EncapsulationID: fund.EncapsulationID, Value: decimal.RequireFromString("10")},
		{ValueID: uuid.NewString(), EncapsulationID: fund.EncapsulationID, Value: decimal.RequireFromString("20")},
	}

	suite.mockFundRepo.On("FindFundByName", ctx, suite.pusher.PusherID, "vacation").Return(fund, nil).Once()
	suite.mockFundRepo.On("ListFundValues", ctx, fund.EncapsulationID, 50, 0).Return(snapshots, int64(2), nil).Once()

	resp, err := suite.service.ListValues(ctx, suite.pusher, domain.KindFund, "vacation", dto.PageParams{})

	suite.Require().NoError(err)
	suite.Equal(int64(2), resp.Count)
	suite.Equal(1, resp.Page)
	suite.Equal(50, resp.PageSize)
	values, ok := resp.Results.([]dto.EncapsulationValueResponse)
	suite.Require().True(ok)
	suite.Len(values, 2)
}

func TestEncapsulationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EncapsulationServiceTestSuite))
}
