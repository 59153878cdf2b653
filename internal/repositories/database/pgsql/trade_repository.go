package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennypusher/pennypusher/internal/apperrors"
	"github.com/pennypusher/pennypusher/internal/core/domain"
	portsrepo "github.com/pennypusher/pennypusher/internal/core/ports/repositories"
)

type PgxTradeRepository struct {
	BaseRepository
}

// newPgxTradeRepository creates a new repository for trade data.
func newPgxTradeRepository(pool *pgxpool.Pool) portsrepo.TradeRepository {
	return &PgxTradeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TradeRepository = (*PgxTradeRepository)(nil)

var tradeSelectQuery = `
SELECT
	t.trade_id, t.pusher_id, t.item, t.amount, t.status, t.trade_type
FROM trades t
`

func (r *PgxTradeRepository) getTrades(ctx context.Context, filterQuery string, args ...any) ([]domain.Trade, error) {
	rows, err := r.Pool.Query(ctx, tradeSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trades", err)
	}
	defer rows.Close()
	trades, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Trade])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Trade{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect trade rows", err)
	}
	return trades, nil
}

func insertTrade(ctx context.Context, q queryExecer, t domain.Trade) error {
	_, err := q.Exec(ctx, `
		INSERT INTO trades (trade_id, pusher_id, item, amount, status, trade_type)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, t.TradeID, t.PusherID, t.Item, t.Amount, t.Status, t.TradeType)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("The trade [" + t.Item + "] already exists.")
		}
		return apperrors.NewAppError(500, "failed to save trade "+t.Item, err)
	}
	return nil
}

func (r *PgxTradeRepository) SaveTrade(ctx context.Context, trade domain.Trade) error {
	return insertTrade(ctx, r.Pool, trade)
}

func (r *PgxTradeRepository) TradeExists(ctx context.Context, pusherID, tradeType, item string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM trades WHERE pusher_id = $1 AND trade_type = $2 AND item = $3)`,
		pusherID, tradeType, item).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check trade "+item, err)
	}
	return exists, nil
}

func (r *PgxTradeRepository) FindTrade(ctx context.Context, pusherID, tradeType, item string) (*domain.Trade, error) {
	trades, err := r.getTrades(ctx,
		`WHERE t.pusher_id = $1 AND t.trade_type = $2 AND t.item = $3`,
		pusherID, tradeType, item)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &trades[0], nil
}

func (r *PgxTradeRepository) ListTrades(ctx context.Context, pusherID, tradeType string, limit, offset int) ([]domain.Trade, int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM trades WHERE pusher_id = $1 AND trade_type = $2`,
		pusherID, tradeType).Scan(&total)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count trades", err)
	}
	trades, err := r.getTrades(ctx,
		`WHERE t.pusher_id = $1 AND t.trade_type = $2 ORDER BY t.item LIMIT $3 OFFSET $4`,
		pusherID, tradeType, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return trades, total, nil
}

func (r *PgxTradeRepository) ReplaceTrade(ctx context.Context, oldID string, trade domain.Trade) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM trades WHERE trade_id = $1`, oldID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete trade "+oldID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if err := insertTrade(ctx, tx, trade); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxTradeRepository) DeleteTrade(ctx context.Context, tradeID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM trades WHERE trade_id = $1`, tradeID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete trade "+tradeID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
