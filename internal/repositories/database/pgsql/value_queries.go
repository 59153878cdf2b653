package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pennypusher/pennypusher/internal/apperrors"
	"github.com/pennypusher/pennypusher/internal/core/domain"
)

// queryExecer is satisfied by both *pgxpool.Pool and pgx.Tx, letting the
// insert helpers run standalone or inside a transaction.
type queryExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// The budget_values, fund_values and account_values tables share one shape,
// so the snapshot queries are parameterized on the table name. Only the
// three fixed names above are ever passed in.
func valueExists(ctx context.Context, q queryExecer, table, encapsulationID string, ts time.Time) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE encapsulation_id = $1 AND timestamp = $2)`,
		encapsulationID, ts).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check "+table+" snapshot", err)
	}
	return exists, nil
}

func listValues(ctx context.Context, q queryExecer, table, encapsulationID string, limit, offset int) ([]domain.EncapsulationValue, int64, error) {
	var total int64
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE encapsulation_id = $1`,
		encapsulationID).Scan(&total)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count "+table+" rows", err)
	}

	rows, err := q.Query(ctx, `
		SELECT value_id, encapsulation_id, value, timestamp
		FROM `+table+`
		WHERE encapsulation_id = $1
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3
	`, encapsulationID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to query "+table, err)
	}
	defer rows.Close()
	values, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.EncapsulationValue])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.EncapsulationValue{}, total, nil
		}
		return nil, 0, apperrors.NewAppError(500, "failed to collect "+table+" rows", err)
	}
	return values, total, nil
}

func deleteValue(ctx context.Context, q queryExecer, table, encapsulationID string, ts time.Time) error {
	tag, err := q.Exec(ctx,
		`DELETE FROM `+table+` WHERE encapsulation_id = $1 AND timestamp = $2`,
		encapsulationID, ts)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete "+table+" snapshot", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
