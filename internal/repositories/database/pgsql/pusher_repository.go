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

type PgxPusherRepository struct {
	BaseRepository
}

// newPgxPusherRepository creates a new repository for pusher data.
func newPgxPusherRepository(pool *pgxpool.Pool) portsrepo.PusherRepository {
	return &PgxPusherRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PusherRepository = (*PgxPusherRepository)(nil)

var pusherSelectQuery = `
SELECT
	p.pusher_id, p.name, p.key, p.primary_user_id, p.created_at
FROM pushers p
`

var accessSelectQuery = `
SELECT
	pa.pusher_id, pa.user_id, u.username, p.name AS pusher_name, pa.access_time
FROM pusher_access pa
JOIN users u ON u.user_id = pa.user_id
JOIN pushers p ON p.pusher_id = pa.pusher_id
`

func (r *PgxPusherRepository) getPushers(ctx context.Context, filterQuery string, args ...any) ([]domain.Pusher, error) {
	rows, err := r.Pool.Query(ctx, pusherSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pushers", err)
	}
	defer rows.Close()
	pushers, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Pusher])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Pusher{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect pusher rows", err)
	}
	return pushers, nil
}

func (r *PgxPusherRepository) getAccessRows(ctx context.Context, filterQuery string, args ...any) ([]domain.PusherAccess, error) {
	rows, err := r.Pool.Query(ctx, accessSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pusher access", err)
	}
	defer rows.Close()
	access, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.PusherAccess])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.PusherAccess{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect pusher access rows", err)
	}
	return access, nil
}

// SavePusher inserts the pusher and the primary user's access row in one
// transaction, so a pusher never exists without its owner's membership.
func (r *PgxPusherRepository) SavePusher(ctx context.Context, pusher domain.Pusher) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		INSERT INTO pushers (pusher_id, name, key, primary_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`, pusher.PusherID, pusher.Name, pusher.Key, pusher.PrimaryUserID, pusher.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("The pusher " + pusher.Name + " already exists.")
		}
		return apperrors.NewAppError(500, "failed to save pusher "+pusher.PusherID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO pusher_access (pusher_id, user_id, access_time)
		VALUES ($1, $2, $3);
	`, pusher.PusherID, pusher.PrimaryUserID, pusher.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to grant primary access for pusher "+pusher.PusherID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxPusherRepository) FindPusherByKey(ctx context.Context, key string) (*domain.Pusher, error) {
	pushers, err := r.getPushers(ctx, `WHERE p.key = $1`, key)
	if err != nil {
		return nil, err
	}
	if len(pushers) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &pushers[0], nil
}

func (r *PgxPusherRepository) KeyExists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pushers WHERE key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check pusher key", err)
	}
	return exists, nil
}

func (r *PgxPusherRepository) PusherNameExists(ctx context.Context, primaryUserID, name string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM pushers WHERE primary_user_id = $1 AND name = $2)`,
		primaryUserID, name).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check pusher name "+name, err)
	}
	return exists, nil
}

func (r *PgxPusherRepository) ListPushersByPrimaryUser(ctx context.Context, userID string) ([]domain.Pusher, error) {
	return r.getPushers(ctx, `WHERE p.primary_user_id = $1 ORDER BY p.created_at`, userID)
}

func (r *PgxPusherRepository) RenamePusher(ctx context.Context, pusherID, name string) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE pushers SET name = $2 WHERE pusher_id = $1`, pusherID, name)
	if err != nil {
		return apperrors.NewAppError(500, "failed to rename pusher "+pusherID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPusherRepository) DeletePusher(ctx context.Context, pusherID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM pushers WHERE pusher_id = $1`, pusherID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete pusher "+pusherID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPusherRepository) GrantAccess(ctx context.Context, access domain.PusherAccess) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO pusher_access (pusher_id, user_id, access_time)
		VALUES ($1, $2, $3);
	`, access.PusherID, access.UserID, access.AccessTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("The user already has access to the specified pusher.")
		}
		return apperrors.NewAppError(500, "failed to grant access to pusher "+access.PusherID, err)
	}
	return nil
}

func (r *PgxPusherRepository) RevokeAccess(ctx context.Context, pusherID, userID string) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM pusher_access WHERE pusher_id = $1 AND user_id = $2`, pusherID, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to revoke access to pusher "+pusherID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPusherRepository) HasAccess(ctx context.Context, userID, pusherID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM pusher_access WHERE user_id = $1 AND pusher_id = $2)`,
		userID, pusherID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check access for user "+userID, err)
	}
	return exists, nil
}

func (r *PgxPusherRepository) ListAccessByPusher(ctx context.Context, pusherID string) ([]domain.PusherAccess, error) {
	return r.getAccessRows(ctx, `WHERE pa.pusher_id = $1 ORDER BY pa.access_time`, pusherID)
}

func (r *PgxPusherRepository) ListAccessByUser(ctx context.Context, userID string) ([]domain.PusherAccess, error) {
	return r.getAccessRows(ctx, `WHERE pa.user_id = $1 ORDER BY pa.access_time`, userID)
}
