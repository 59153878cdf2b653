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

type PgxIncomeRepository struct {
	BaseRepository
}

// newPgxIncomeRepository creates a new repository for income data.
func newPgxIncomeRepository(pool *pgxpool.Pool) portsrepo.IncomeRepository {
	return &PgxIncomeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.IncomeRepository = (*PgxIncomeRepository)(nil)

var incomeSelectQuery = `
SELECT
	i.income_id, i.pusher_id, i.user_id, i.item, i.amount, i.source,
	i.category, i.timestamp
FROM incomes i
`

func (r *PgxIncomeRepository) getIncomes(ctx context.Context, filterQuery string, args ...any) ([]domain.Income, error) {
	rows, err := r.Pool.Query(ctx, incomeSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query incomes", err)
	}
	defer rows.Close()
	incomes, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Income])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Income{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect income rows", err)
	}
	return incomes, nil
}

func insertIncome(ctx context.Context, q queryExecer, i domain.Income) error {
	_, err := q.Exec(ctx, `
		INSERT INTO incomes (income_id, pusher_id, user_id, item, amount, source, category, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, i.IncomeID, i.PusherID, i.UserID, i.Item, i.Amount, i.Source, i.Category, i.Timestamp)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("An income at this timestamp already exists.")
		}
		return apperrors.NewAppError(500, "failed to save income "+i.Item, err)
	}
	return nil
}

func (r *PgxIncomeRepository) SaveIncome(ctx context.Context, income domain.Income) error {
	return insertIncome(ctx, r.Pool, income)
}

func (r *PgxIncomeRepository) IncomeExists(ctx context.Context, pusherID string, ts time.Time) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM incomes WHERE pusher_id = $1 AND timestamp = $2)`,
		pusherID, ts).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check income", err)
	}
	return exists, nil
}

func (r *PgxIncomeRepository) FindIncomeByTimestamp(ctx context.Context, pusherID string, ts time.Time) (*domain.Income, error) {
	incomes, err := r.getIncomes(ctx, `WHERE i.pusher_id = $1 AND i.timestamp = $2`, pusherID, ts)
	if err != nil {
		return nil, err
	}
	if len(incomes) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &incomes[0], nil
}

func (r *PgxIncomeRepository) ListIncomes(ctx context.Context, pusherID string, limit, offset int) ([]domain.Income, int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM incomes WHERE pusher_id = $1`,
		pusherID).Scan(&total)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count incomes", err)
	}
	incomes, err := r.getIncomes(ctx,
		`WHERE i.pusher_id = $1 ORDER BY i.timestamp DESC LIMIT $2 OFFSET $3`,
		pusherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return incomes, total, nil
}

func (r *PgxIncomeRepository) DeleteIncome(ctx context.Context, incomeID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM incomes WHERE income_id = $1`, incomeID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationFailedError("This income belongs to a paycheck. Delete the paycheck instead.")
		}
		return apperrors.NewAppError(500, "failed to delete income "+incomeID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
