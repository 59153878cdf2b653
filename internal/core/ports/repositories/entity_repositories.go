package repositories

import (
	"context"
	"time"

	"github.com/pennypusher/pennypusher/internal/core/domain"
)

// IncomeRepository defines persistence operations for income rows.
type IncomeRepository interface {
	SaveIncome(ctx context.Context, income domain.Income) error
	IncomeExists(ctx context.Context, pusherID string, ts time.Time) (bool, error)
	FindIncomeByTimestamp(ctx context.Context, pusherID string, ts time.Time) (*domain.Income, error)
	ListIncomes(ctx context.Context, pusherID string, limit, offset int) ([]domain.Income, int64, error)
	DeleteIncome(ctx context.Context, incomeID string) error
}

// ExpenseRepository defines persistence operations for expense rows.
type ExpenseRepository interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	ExpenseExists(ctx context.Context, pusherID string, ts time.Time) (bool, error)
	FindExpenseByTimestamp(ctx context.Context, pusherID string, ts time.Time) (*domain.Expense, error)
	ListExpenses(ctx context.Context, pusherID string, limit, offset int) ([]domain.Expense, int64, error)
	DeleteExpense(ctx context.Context, expenseID string) error
}

// PaycheckRepository defines persistence operations for paychecks. A
// paycheck and its owned income row are written and removed together in
// one transaction; the cascade is explicit, not left to the database.
type PaycheckRepository interface {
	SavePaycheck(ctx context.Context, paycheck domain.Paycheck, income domain.Income) error
	PaycheckExists(ctx context.Context, pusherID string, payDate time.Time) (bool, error)
	FindPaycheckByPayDate(ctx context.Context, pusherID string, payDate time.Time) (*domain.Paycheck, error)
	ListPaychecks(ctx context.Context, pusherID string, limit, offset int) ([]domain.Paycheck, int64, error)
	DeletePaycheck(ctx context.Context, paycheckID, incomeID string) error
}

// BillRepository defines persistence operations for bills, keyed by
// (pusher, item, due date).
type BillRepository interface {
	SaveBill(ctx context.Context, bill domain.Bill) error
	BillExists(ctx context.Context, pusherID, item string, dueDate time.Time) (bool, error)
	FindBill(ctx context.Context, pusherID, item string, dueDate time.Time) (*domain.Bill, error)
	ListBills(ctx context.Context, pusherID string, limit, offset int) ([]domain.Bill, int64, error)
	ReplaceBill(ctx context.Context, oldID string, bill domain.Bill) error
	DeleteBill(ctx context.Context, billID string) error
}

// SubscriptionRepository defines persistence operations for
// subscriptions, keyed by (pusher, item).
type SubscriptionRepository interface {
	SaveSubscription(ctx context.Context, sub domain.Subscription) error
	SubscriptionExists(ctx context.Context, pusherID, item string) (bool, error)
	FindSubscription(ctx context.Context, pusherID, item string) (*domain.Subscription, error)
	ListSubscriptions(ctx context.Context, pusherID string, limit, offset int) ([]domain.Subscription, int64, error)
	ReplaceSubscription(ctx context.Context, oldID string, sub domain.Subscription) error
	DeleteSubscription(ctx context.Context, subscriptionID string) error
}

// TradeRepository defines persistence operations for trades, keyed by
// (pusher, item) within a trade type.
type TradeRepository interface {
	SaveTrade(ctx context.Context, trade domain.Trade) error
	TradeExists(ctx context.Context, pusherID, tradeType, item string) (bool, error)
	FindTrade(ctx context.Context, pusherID, tradeType, item string) (*domain.Trade, error)
	ListTrades(ctx context.Context, pusherID, tradeType string, limit, offset int) ([]domain.Trade, int64, error)
	ReplaceTrade(ctx context.Context, oldID string, trade domain.Trade) error
	DeleteTrade(ctx context.Context, tradeID string) error
}
