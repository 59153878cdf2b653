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

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget data.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepository {
	return &PgxBudgetRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BudgetRepository = (*PgxBudgetRepository)(nil)

var budgetSelectQuery = `
SELECT
	b.encapsulation_id, b.pusher_id, b.name, b.priority, b.category,
	b.created_at, b.alloc_amt, b.pay_period, b.pay_start
FROM budgets b
`

func (r *PgxBudgetRepository) getBudgets(ctx context.Context, filterQuery string, args ...any) ([]domain.Budget, error) {
	rows, err := r.Pool.Query(ctx, budgetSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query budgets", err)
	}
	defer rows.Close()
	budgets, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Budget])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Budget{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect budget rows", err)
	}
	return budgets, nil
}

func insertBudget(ctx context.Context, q queryExecer, b domain.Budget) error {
	_, err := q.Exec(ctx, `
		INSERT INTO budgets (encapsulation_id, pusher_id, name, priority, category, created_at, alloc_amt, pay_period, pay_start)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, b.EncapsulationID, b.PusherID, b.Name, b.Priority, b.Category, b.CreatedAt, b.AllocAmt, b.PayPeriod, b.PayStart)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("The budget [" + b.Name + "] already exists.")
		}
		return apperrors.NewAppError(500, "failed to save budget "+b.Name, err)
	}
	return nil
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	return insertBudget(ctx, r.Pool, budget)
}

func (r *PgxBudgetRepository) BudgetExists(ctx context.Context, pusherID, name string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM budgets WHERE pusher_id = $1 AND name = $2)`,
		pusherID, name).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check budget "+name, err)
	}
	return exists, nil
}

func (r *PgxBudgetRepository) FindBudgetByName(ctx context.Context, pusherID, name string) (*domain.Budget, error) {
	budgets, err := r.getBudgets(ctx, `WHERE b.pusher_id = $1 AND b.name = $2`, pusherID, name)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &budgets[0], nil
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, pusherID string) ([]domain.Budget, error) {
	return r.getBudgets(ctx, `WHERE b.pusher_id = $1 ORDER BY b.priority, b.name`, pusherID)
}

// ReplaceBudget removes the old row and inserts the replacement in one
// transaction, so readers never observe a missing budget.
func (r *PgxBudgetRepository) ReplaceBudget(ctx context.Context, oldID string, budget domain.Budget) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM budgets WHERE encapsulation_id = $1`, oldID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete budget "+oldID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if err := insertBudget(ctx, tx, budget); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE encapsulation_id = $1`, budgetID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete budget "+budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBudgetRepository) SaveBudgetValue(ctx context.Context, value domain.EncapsulationValue) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO budget_values (value_id, encapsulation_id, value, timestamp)
		VALUES ($1, $2, $3, $4);
	`, value.ValueID, value.EncapsulationID, value.Value, value.Timestamp)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save budget value", err)
	}
	return nil
}

func (r *PgxBudgetRepository) BudgetValueExists(ctx context.Context, budgetID string, ts time.Time) (bool, error) {
	return valueExists(ctx, r.Pool, "budget_values", budgetID, ts)
}

func (r *PgxBudgetRepository) ListBudgetValues(ctx context.Context, budgetID string, limit, offset int) ([]domain.EncapsulationValue, int64, error) {
	return listValues(ctx, r.Pool, "budget_values", budgetID, limit, offset)
}

func (r *PgxBudgetRepository) DeleteBudgetValue(ctx context.Context, budgetID string, ts time.Time) error {
	return deleteValue(ctx, r.Pool, "budget_values", budgetID, ts)
}
