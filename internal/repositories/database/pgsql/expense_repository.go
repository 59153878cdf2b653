package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennypusher/pennypusher/internal/apperrors"
	"github.com/pennypusher/pennypusher/internal/core/domain"
	portsrepo "github.com/pennypusher/pennypusher/internal/core/ports/repositories"
)

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expense data.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepository {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExpenseRepository = (*PgxExpenseRepository)(nil)

// Budget and fund names come from left joins so callers can render the
// linkage without extra lookups.
var expenseSelectQuery = `
SELECT
	e.expense_id, e.pusher_id, e.user_id, e.item, e.amount, e.party,
	e.category, e.budget_id, e.fund_id,
	b.name AS budget_name, f.name AS fund_name,
	e.timestamp
FROM expenses e
LEFT JOIN budgets b ON b.encapsulation_id = e.budget_id
LEFT JOIN funds f ON f.encapsulation_id = e.fund_id
`

func (r *PgxExpenseRepository) getExpenses(ctx context.Context, filterQuery string, args ...any) ([]domain.Expense, error) {
	rows, err := r.Pool.Query(ctx, expenseSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expenses", err)
	}
	defer rows.Close()
	expenses, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Expense])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Expense{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect expense rows", err)
	}
	return expenses, nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO expenses (expense_id, pusher_id, user_id, item, amount, party, category, budget_id, fund_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`, expense.ExpenseID, expense.PusherID, expense.UserID, expense.Item, expense.Amount,
		expense.Party, expense.Category, expense.BudgetID, expense.FundID, expense.Timestamp)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("An expense at this timestamp already exists.")
		}
		return apperrors.NewAppError(500, "failed to save expense "+expense.Item, err)
	}
	return nil
}

func (r *PgxExpenseRepository) ExpenseExists(ctx context.Context, pusherID string, ts time.Time) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM expenses WHERE pusher_id = $1 AND timestamp = $2)`,
		pusherID, ts).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check expense", err)
	}
	return exists, nil
}

func (r *PgxExpenseRepository) FindExpenseByTimestamp(ctx context.Context, pusherID string, ts time.Time) (*domain.Expense, error) {
	expenses, err := r.getExpenses(ctx, `WHERE e.pusher_id = $1 AND e.timestamp = $2`, pusherID, ts)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &expenses[0], nil
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, pusherID string, limit, offset int) ([]domain.Expense, int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses WHERE pusher_id = $1`,
		pusherID).Scan(&total)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count expenses", err)
	}
	expenses, err := r.getExpenses(ctx,
		`WHERE e.pusher_id = $1 ORDER BY e.timestamp DESC LIMIT $2 OFFSET $3`,
		pusherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1`, expenseID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete expense "+expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
