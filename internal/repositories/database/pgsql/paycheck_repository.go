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

type PgxPaycheckRepository struct {
	BaseRepository
}

// newPgxPaycheckRepository creates a new repository for paycheck data.
func newPgxPaycheckRepository(pool *pgxpool.Pool) portsrepo.PaycheckRepository {
	return &PgxPaycheckRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PaycheckRepository = (*PgxPaycheckRepository)(nil)

var paycheckSelectQuery = `
SELECT
	p.paycheck_id, p.pusher_id, p.user_id, p.source, p.hours,
	p.start_date, p.end_date, p.pay_date, p.gross_amt,
	p.pre_tax_deduc, p.post_tax_deduc, p.federal_with, p.state_tax,
	p.city_tax, p.medicare, p.oasdi, p.net_amt, p.income_id
FROM paychecks p
`

func (r *PgxPaycheckRepository) getPaychecks(ctx context.Context, filterQuery string, args ...any) ([]domain.Paycheck, error) {
	rows, err := r.Pool.Query(ctx, paycheckSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query paychecks", err)
	}
	defer rows.Close()
	paychecks, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Paycheck])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Paycheck{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect paycheck rows", err)
	}
	return paychecks, nil
}

// SavePaycheck writes the income row the paycheck owns and the paycheck
// itself in one transaction, so the pair is never half-created.
func (r *PgxPaycheckRepository) SavePaycheck(ctx context.Context, paycheck domain.Paycheck, income domain.Income) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertIncome(ctx, tx, income); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO paychecks (paycheck_id, pusher_id, user_id, source, hours,
			start_date, end_date, pay_date, gross_amt,
			pre_tax_deduc, post_tax_deduc, federal_with, state_tax,
			city_tax, medicare, oasdi, net_amt, income_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`, paycheck.PaycheckID, paycheck.PusherID, paycheck.UserID, paycheck.Source, paycheck.Hours,
		paycheck.StartDate, paycheck.EndDate, paycheck.PayDate, paycheck.GrossAmt,
		paycheck.PreTaxDeduc, paycheck.PostTaxDeduc, paycheck.FederalWith, paycheck.StateTax,
		paycheck.CityTax, paycheck.Medicare, paycheck.Oasdi, paycheck.NetAmt, paycheck.IncomeID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("A paycheck for this pay date already exists.")
		}
		return apperrors.NewAppError(500, "failed to save paycheck", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxPaycheckRepository) PaycheckExists(ctx context.Context, pusherID string, payDate time.Time) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM paychecks WHERE pusher_id = $1 AND pay_date = $2)`,
		pusherID, payDate).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check paycheck", err)
	}
	return exists, nil
}

func (r *PgxPaycheckRepository) FindPaycheckByPayDate(ctx context.Context, pusherID string, payDate time.Time) (*domain.Paycheck, error) {
	paychecks, err := r.getPaychecks(ctx, `WHERE p.pusher_id = $1 AND p.pay_date = $2`, pusherID, payDate)
	if err != nil {
		return nil, err
	}
	if len(paychecks) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &paychecks[0], nil
}

func (r *PgxPaycheckRepository) ListPaychecks(ctx context.Context, pusherID string, limit, offset int) ([]domain.Paycheck, int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM paychecks WHERE pusher_id = $1`,
		pusherID).Scan(&total)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count paychecks", err)
	}
	paychecks, err := r.getPaychecks(ctx,
		`WHERE p.pusher_id = $1 ORDER BY p.pay_date DESC LIMIT $2 OFFSET $3`,
		pusherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return paychecks, total, nil
}

// DeletePaycheck removes the paycheck and the income row it owns in one
// transaction.
func (r *PgxPaycheckRepository) DeletePaycheck(ctx context.Context, paycheckID, incomeID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM paychecks WHERE paycheck_id = $1`, paycheckID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete paycheck "+paycheckID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM incomes WHERE income_id = $1`, incomeID); err != nil {
		return apperrors.NewAppError(500, "failed to delete paycheck income "+incomeID, err)
	}

	return r.Commit(ctx, tx)
}
