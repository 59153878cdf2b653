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

type PgxSubscriptionRepository struct {
	BaseRepository
}

// newPgxSubscriptionRepository creates a new repository for subscription data.
func newPgxSubscriptionRepository(pool *pgxpool.Pool) portsrepo.SubscriptionRepository {
	return &PgxSubscriptionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SubscriptionRepository = (*PgxSubscriptionRepository)(nil)

var subscriptionSelectQuery = `
SELECT
	s.subscription_id, s.pusher_id, s.item, s.amount, s.pay_period,
	s.start_date, s.status
FROM subscriptions s
`

func (r *PgxSubscriptionRepository) getSubscriptions(ctx context.Context, filterQuery string, args ...any) ([]domain.Subscription, error) {
	rows, err := r.Pool.Query(ctx, subscriptionSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query subscriptions", err)
	}
	defer rows.Close()
	subs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Subscription])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Subscription{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect subscription rows", err)
	}
	return subs, nil
}

func insertSubscription(ctx context.Context, q queryExecer, s domain.Subscription) error {
	_, err := q.Exec(ctx, `
		INSERT INTO subscriptions (subscription_id, pusher_id, item, amount, pay_period, start_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, s.SubscriptionID, s.PusherID, s.Item, s.Amount, s.PayPeriod, s.StartDate, s.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("The subscription [" + s.Item + "] already exists.")
		}
		return apperrors.NewAppError(500, "failed to save subscription "+s.Item, err)
	}
	return nil
}

func (r *PgxSubscriptionRepository) SaveSubscription(ctx context.Context, sub domain.Subscription) error {
	return insertSubscription(ctx, r.Pool, sub)
}

func (r *PgxSubscriptionRepository) SubscriptionExists(ctx context.Context, pusherID, item string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM subscriptions WHERE pusher_id = $1 AND item = $2)`,
		pusherID, item).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check subscription "+item, err)
	}
	return exists, nil
}

func (r *PgxSubscriptionRepository) FindSubscription(ctx context.Context, pusherID, item string) (*domain.Subscription, error) {
	subs, err := r.getSubscriptions(ctx, `WHERE s.pusher_id = $1 AND s.item = $2`, pusherID, item)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &subs[0], nil
}

func (r *PgxSubscriptionRepository) ListSubscriptions(ctx context.Context, pusherID string, limit, offset int) ([]domain.Subscription, int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE pusher_id = $1`,
		pusherID).Scan(&total)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count subscriptions", err)
	}
	subs, err := r.getSubscriptions(ctx,
		`WHERE s.pusher_id = $1 ORDER BY s.item LIMIT $2 OFFSET $3`,
		pusherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *PgxSubscriptionRepository) ReplaceSubscription(ctx context.Context, oldID string, sub domain.Subscription) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM subscriptions WHERE subscription_id = $1`, oldID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete subscription "+oldID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if err := insertSubscription(ctx, tx, sub); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxSubscriptionRepository) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM subscriptions WHERE subscription_id = $1`, subscriptionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete subscription "+subscriptionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
