package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/pennypusher/pennypusher/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository over one shared
// connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		User:         newPgxUserRepository(pool),
		Pusher:       newPgxPusherRepository(pool),
		Budget:       newPgxBudgetRepository(pool),
		Fund:         newPgxFundRepository(pool),
		Account:      newPgxAccountRepository(pool),
		NetWorth:     newPgxNetWorthRepository(pool),
		Income:       newPgxIncomeRepository(pool),
		Expense:      newPgxExpenseRepository(pool),
		Paycheck:     newPgxPaycheckRepository(pool),
		Bill:         newPgxBillRepository(pool),
		Subscription: newPgxSubscriptionRepository(pool),
		Trade:        newPgxTradeRepository(pool),
	}
}
