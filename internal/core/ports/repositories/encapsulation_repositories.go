package repositories

import (
	"context"
	"time"

	"github.com/pennypusher/pennypusher/internal/core/domain"
)

// BudgetRepository defines persistence operations for budgets and their
// value snapshots.
type BudgetRepository interface {
	SaveBudget(ctx context.Context, budget domain.Budget) error
	BudgetExists(ctx context.Context, pusherID, name string) (bool, error)
	FindBudgetByName(ctx context.Context, pusherID, name string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, pusherID string) ([]domain.Budget, error)
	// ReplaceBudget deletes the row identified by oldID and inserts the
	// replacement inside one transaction.
	ReplaceBudget(ctx context.Context, oldID string, budget domain.Budget) error
	DeleteBudget(ctx context.Context, budgetID string) error

	SaveBudgetValue(ctx context.Context, value domain.EncapsulationValue) error
	BudgetValueExists(ctx context.Context, budgetID string, ts time.Time) (bool, error)
	ListBudgetValues(ctx context.Context, budgetID string, limit, offset int) ([]domain.EncapsulationValue, int64, error)
	DeleteBudgetValue(ctx context.Context, budgetID string, ts time.Time) error
}

// FundRepository defines persistence operations for funds and their value
// snapshots.
type FundRepository interface {
	SaveFund(ctx context.Context, fund domain.Fund) error
	FundExists(ctx context.Context, pusherID, name string) (bool, error)
	FindFundByName(ctx context.Context, pusherID, name string) (*domain.Fund, error)
	ListFunds(ctx context.Context, pusherID string) ([]domain.Fund, error)
	ReplaceFund(ctx context.Context, oldID string, fund domain.Fund) error
	DeleteFund(ctx context.Context, fundID string) error

	SaveFundValue(ctx context.Context, value domain.EncapsulationValue) error
	FundValueExists(ctx context.Context, fundID string, ts time.Time) (bool, error)
	ListFundValues(ctx context.Context, fundID string, limit, offset int) ([]domain.EncapsulationValue, int64, error)
	DeleteFundValue(ctx context.Context, fundID string, ts time.Time) error
}

// AccountRepository defines persistence operations for accounts and their
// value snapshots. Recording a value also refreshes the cached current
// value and appends the pusher's net-worth snapshot, all in one
// transaction.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	AccountExists(ctx context.Context, pusherID, name string) (bool, error)
	FindAccountByName(ctx context.Context, pusherID, name string) (*domain.Account, error)
	ListAccounts(ctx context.Context, pusherID string) ([]domain.Account, error)
	ReplaceAccount(ctx context.Context, oldID string, account domain.Account) error
	DeleteAccount(ctx context.Context, accountID string) error

	SaveAccountValue(ctx context.Context, pusherID string, value domain.EncapsulationValue) (*domain.NetWorth, error)
	AccountValueExists(ctx context.Context, accountID string, ts time.Time) (bool, error)
	ListAccountValues(ctx context.Context, accountID string, limit, offset int) ([]domain.EncapsulationValue, int64, error)
	DeleteAccountValue(ctx context.Context, accountID string, ts time.Time) error
}

// NetWorthRepository reads the append-only net-worth history.
type NetWorthRepository interface {
	ListNetWorth(ctx context.Context, pusherID string, limit, offset int) ([]domain.NetWorth, int64, error)
}
