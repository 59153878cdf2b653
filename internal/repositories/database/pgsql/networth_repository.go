package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennypusher/pennypusher/internal/apperrors"
	"github.com/pennypusher/pennypusher/internal/core/domain"
	portsrepo "github.com/pennypusher/pennypusher/internal/core/ports/repositories"
)

type PgxNetWorthRepository struct {
	BaseRepository
}

// newPgxNetWorthRepository creates a new repository for net-worth history.
func newPgxNetWorthRepository(pool *pgxpool.Pool) portsrepo.NetWorthRepository {
	return &PgxNetWorthRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.NetWorthRepository = (*PgxNetWorthRepository)(nil)

func (r *PgxNetWorthRepository) ListNetWorth(ctx context.Context, pusherID string, limit, offset int) ([]domain.NetWorth, int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM networth WHERE pusher_id = $1`,
		pusherID).Scan(&total)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count net worth rows", err)
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT networth_id, pusher_id, amount, timestamp
		FROM networth
		WHERE pusher_id = $1
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3
	`, pusherID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to query net worth history", err)
	}
	defer rows.Close()
	history, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.NetWorth])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.NetWorth{}, total, nil
		}
		return nil, 0, apperrors.NewAppError(500, "failed to collect net worth rows", err)
	}
	return history, total, nil
}
