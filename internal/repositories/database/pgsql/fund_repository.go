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

type PgxFundRepository struct {
	BaseRepository
}

// newPgxFundRepository creates a new repository for fund data.
func newPgxFundRepository(pool *pgxpool.Pool) portsrepo.FundRepository {
	return &PgxFundRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FundRepository = (*PgxFundRepository)(nil)

var fundSelectQuery = `
SELECT
	f.encapsulation_id, f.pusher_id, f.name, f.priority, f.category,
	f.created_at, f.goal_amt
FROM funds f
`

func (r *PgxFundRepository) getFunds(ctx context.Context, filterQuery string, args ...any) ([]domain.Fund, error) {
	rows, err := r.Pool.Query(ctx, fundSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query funds", err)
	}
	defer rows.Close()
	funds, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Fund])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Fund{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect fund rows", err)
	}
	return funds, nil
}

func insertFund(ctx context.Context, q queryExecer, f domain.Fund) error {
	_, err := q.Exec(ctx, `
		INSERT INTO funds (encapsulation_id, pusher_id, name, priority, category, created_at, goal_amt)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, f.EncapsulationID, f.PusherID, f.Name, f.Priority, f.Category, f.CreatedAt, f.GoalAmt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("The fund [" + f.Name + "] already exists.")
		}
		return apperrors.NewAppError(500, "failed to save fund "+f.Name, err)
	}
	return nil
}

func (r *PgxFundRepository) SaveFund(ctx context.Context, fund domain.Fund) error {
	return insertFund(ctx, r.Pool, fund)
}

func (r *PgxFundRepository) FundExists(ctx context.Context, pusherID, name string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM funds WHERE pusher_id = $1 AND name = $2)`,
		pusherID, name).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check fund "+name, err)
	}
	return exists, nil
}

func (r *PgxFundRepository) FindFundByName(ctx context.Context, pusherID, name string) (*domain.Fund, error) {
	funds, err := r.getFunds(ctx, `WHERE f.pusher_id = $1 AND f.name = $2`, pusherID, name)
	if err != nil {
		return nil, err
	}
	if len(funds) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &funds[0], nil
}

func (r *PgxFundRepository) ListFunds(ctx context.Context, pusherID string) ([]domain.Fund, error) {
	return r.getFunds(ctx, `WHERE f.pusher_id = $1 ORDER BY f.priority, f.name`, pusherID)
}

func (r *PgxFundRepository) ReplaceFund(ctx context.Context, oldID string, fund domain.Fund) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM funds WHERE encapsulation_id = $1`, oldID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete fund "+oldID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if err := insertFund(ctx, tx, fund); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxFundRepository) DeleteFund(ctx context.Context, fundID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM funds WHERE encapsulation_id = $1`, fundID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete fund "+fundID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxFundRepository) SaveFundValue(ctx context.Context, value domain.EncapsulationValue) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO fund_values (value_id, encapsulation_id, value, timestamp)
		VALUES ($1, $2, $3, $4);
	`, value.ValueID, value.EncapsulationID, value.Value, value.Timestamp)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save fund value", err)
	}
	return nil
}

func (r *PgxFundRepository) FundValueExists(ctx context.Context, fundID string, ts time.Time) (bool, error) {
	return valueExists(ctx, r.Pool, "fund_values", fundID, ts)
}

func (r *PgxFundRepository) ListFundValues(ctx context.Context, fundID string, limit, offset int) ([]domain.EncapsulationValue, int64, error) {
	return listValues(ctx, r.Pool, "fund_values", fundID, limit, offset)
}

func (r *PgxFundRepository) DeleteFundValue(ctx context.Context, fundID string, ts time.Time) error {
	return deleteValue(ctx, r.Pool, "fund_values", fundID, ts)
}
