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

type PgxBillRepository struct {
	BaseRepository
}

// newPgxBillRepository creates a new repository for bill data.
func newPgxBillRepository(pool *pgxpool.Pool) portsrepo.BillRepository {
	return &PgxBillRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BillRepository = (*PgxBillRepository)(nil)

var billSelectQuery = `
SELECT
	bl.bill_id, bl.pusher_id, bl.user_id, bl.item, bl.amount, bl.party,
	bl.category, bl.budget_id, bl.fund_id,
	b.name AS budget_name, f.name AS fund_name,
	bl.status, bl.due_date
FROM bills bl
LEFT JOIN budgets b ON b.encapsulation_id = bl.budget_id
LEFT JOIN funds f ON f.encapsulation_id = bl.fund_id
`

func (r *PgxBillRepository) getBills(ctx context.Context, filterQuery string, args ...any) ([]domain.Bill, error) {
	rows, err := r.Pool.Query(ctx, billSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bills", err)
	}
	defer rows.Close()
	bills, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Bill])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Bill{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect bill rows", err)
	}
	return bills, nil
}

func insertBill(ctx context.Context, q queryExecer, b domain.Bill) error {
	_, err := q.Exec(ctx, `
		INSERT INTO bills (bill_id, pusher_id, user_id, item, amount, party, category, budget_id, fund_id, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`, b.BillID, b.PusherID, b.UserID, b.Item, b.Amount, b.Party, b.Category,
		b.BudgetID, b.FundID, b.Status, b.DueDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("The bill [" + b.Item + "] already exists for this due date.")
		}
		return apperrors.NewAppError(500, "failed to save bill "+b.Item, err)
	}
	return nil
}

func (r *PgxBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	return insertBill(ctx, r.Pool, bill)
}

func (r *PgxBillRepository) BillExists(ctx context.Context, pusherID, item string, dueDate time.Time) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM bills WHERE pusher_id = $1 AND item = $2 AND due_date = $3)`,
		pusherID, item, dueDate).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check bill "+item, err)
	}
	return exists, nil
}

func (r *PgxBillRepository) FindBill(ctx context.Context, pusherID, item string, dueDate time.Time) (*domain.Bill, error) {
	bills, err := r.getBills(ctx,
		`WHERE bl.pusher_id = $1 AND bl.item = $2 AND bl.due_date = $3`,
		pusherID, item, dueDate)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &bills[0], nil
}

func (r *PgxBillRepository) ListBills(ctx context.Context, pusherID string, limit, offset int) ([]domain.Bill, int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bills WHERE pusher_id = $1`,
		pusherID).Scan(&total)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count bills", err)
	}
	bills, err := r.getBills(ctx,
		`WHERE bl.pusher_id = $1 ORDER BY bl.due_date, bl.item LIMIT $2 OFFSET $3`,
		pusherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

func (r *PgxBillRepository) ReplaceBill(ctx context.Context, oldID string, bill domain.Bill) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM bills WHERE bill_id = $1`, oldID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete bill "+oldID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if err := insertBill(ctx, tx, bill); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxBillRepository) DeleteBill(ctx context.Context, billID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM bills WHERE bill_id = $1`, billID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete bill "+billID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
