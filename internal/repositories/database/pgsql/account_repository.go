package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennypusher/pennypusher/internal/apperrors"
	"github.com/pennypusher/pennypusher/internal/core/domain"
	portsrepo "github.com/pennypusher/pennypusher/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

var accountSelectQuery = `
SELECT
	a.encapsulation_id, a.pusher_id, a.name, a.priority, a.category,
	a.created_at, a.acct_number, a.rout_number, a.current_value
FROM accounts a
`

func (r *PgxAccountRepository) getAccounts(ctx context.Context, filterQuery string, args ...any) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, accountSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()
	accounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Account{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect account rows", err)
	}
	return accounts, nil
}

func insertAccount(ctx context.Context, q queryExecer, a domain.Account) error {
	_, err := q.Exec(ctx, `
		INSERT INTO accounts (encapsulation_id, pusher_id, name, priority, category, created_at, acct_number, rout_number, current_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, a.EncapsulationID, a.PusherID, a.Name, a.Priority, a.Category, a.CreatedAt, a.AcctNumber, a.RoutNumber, a.CurrentValue)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("The account [" + a.Name + "] already exists.")
		}
		return apperrors.NewAppError(500, "failed to save account "+a.Name, err)
	}
	return nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return insertAccount(ctx, r.Pool, account)
}

func (r *PgxAccountRepository) AccountExists(ctx context.Context, pusherID, name string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE pusher_id = $1 AND name = $2)`,
		pusherID, name).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check account "+name, err)
	}
	return exists, nil
}

func (r *PgxAccountRepository) FindAccountByName(ctx context.Context, pusherID, name string) (*domain.Account, error) {
	accounts, err := r.getAccounts(ctx, `WHERE a.pusher_id = $1 AND a.name = $2`, pusherID, name)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &accounts[0], nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, pusherID string) ([]domain.Account, error) {
	return r.getAccounts(ctx, `WHERE a.pusher_id = $1 ORDER BY a.priority, a.name`, pusherID)
}

func (r *PgxAccountRepository) ReplaceAccount(ctx context.Context, oldID string, account domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE encapsulation_id = $1`, oldID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete account "+oldID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if err := insertAccount(ctx, tx, account); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE encapsulation_id = $1`, accountID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveAccountValue records the snapshot, refreshes the account's cached
// current value, and appends a net-worth row summing every account the
// pusher owns. The three writes share a transaction so the net-worth
// history always reflects a consistent set of balances.
func (r *PgxAccountRepository) SaveAccountValue(ctx context.Context, pusherID string, value domain.EncapsulationValue) (*domain.NetWorth, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		INSERT INTO account_values (value_id, encapsulation_id, value, timestamp)
		VALUES ($1, $2, $3, $4);
	`, value.ValueID, value.EncapsulationID, value.Value, value.Timestamp)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to save account value", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE accounts SET current_value = $1 WHERE encapsulation_id = $2`,
		value.Value, value.EncapsulationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update account balance", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	var total decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(current_value), 0) FROM accounts WHERE pusher_id = $1`,
		pusherID).Scan(&total)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum account balances", err)
	}

	netWorth := domain.NetWorth{
		NetWorthID: uuid.NewString(),
		PusherID:   pusherID,
		Amount:     total,
		Timestamp:  value.Timestamp,
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO networth (networth_id, pusher_id, amount, timestamp)
		VALUES ($1, $2, $3, $4);
	`, netWorth.NetWorthID, netWorth.PusherID, netWorth.Amount, netWorth.Timestamp)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to save net worth snapshot", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &netWorth, nil
}

func (r *PgxAccountRepository) AccountValueExists(ctx context.Context, accountID string, ts time.Time) (bool, error) {
	return valueExists(ctx, r.Pool, "account_values", accountID, ts)
}

func (r *PgxAccountRepository) ListAccountValues(ctx context.Context, accountID string, limit, offset int) ([]domain.EncapsulationValue, int64, error) {
	return listValues(ctx, r.Pool, "account_values", accountID, limit, offset)
}

func (r *PgxAccountRepository) DeleteAccountValue(ctx context.Context, accountID string, ts time.Time) error {
	return deleteValue(ctx, r.Pool, "account_values", accountID, ts)
}
