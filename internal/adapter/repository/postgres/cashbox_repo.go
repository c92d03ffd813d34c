package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

const cashboxColumns = `id, branch_id, initial_balance, current_balance, is_active, created_at, updated_at`

// CashboxRepository implements usecase.CashboxRepository.
type CashboxRepository struct {
	pool *pgxpool.Pool
}

// NewCashboxRepository creates a new CashboxRepository.
func NewCashboxRepository(pool *pgxpool.Pool) *CashboxRepository {
	return &CashboxRepository{pool: pool}
}

// CreateTx creates a new cashbox within a transaction.
func (r *CashboxRepository) CreateTx(ctx context.Context, tx usecase.Transaction, cashbox *domain.Cashbox) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO cashboxes (id, branch_id, initial_balance, current_balance, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		cashbox.ID,
		cashbox.BranchID,
		decimalToNumeric(cashbox.InitialBalance),
		decimalToNumeric(cashbox.CurrentBalance),
		cashbox.IsActive,
		timeToPgTimestamptz(cashbox.CreatedAt),
		timeToPgTimestamptz(cashbox.UpdatedAt),
	)

	return err
}

// GetByID retrieves a cashbox by ID.
func (r *CashboxRepository) GetByID(ctx context.Context, id string) (*domain.Cashbox, error) {
	return scanCashbox(r.pool.QueryRow(ctx, `
		SELECT `+cashboxColumns+` FROM cashboxes WHERE id = $1`, id))
}

// GetByBranchID retrieves the cashbox belonging to a branch.
func (r *CashboxRepository) GetByBranchID(ctx context.Context, branchID string) (*domain.Cashbox, error) {
	return scanCashbox(r.pool.QueryRow(ctx, `
		SELECT `+cashboxColumns+` FROM cashboxes WHERE branch_id = $1`, branchID))
}

// GetByIDForUpdate retrieves a cashbox by ID with a FOR UPDATE lock. This is
// the per-cashbox serialization point: concurrent postings against the same
// cashbox queue here until the holding transaction finishes.
func (r *CashboxRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Cashbox, error) {
	return scanCashbox(txQuerier(tx).QueryRow(ctx, `
		SELECT `+cashboxColumns+` FROM cashboxes WHERE id = $1 FOR UPDATE`, id))
}

// UpdateBalance updates the cached balance of a cashbox.
func (r *CashboxRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE cashboxes SET current_balance = $2, updated_at = $3 WHERE id = $1`,
		id,
		decimalToNumeric(balance),
		timeToPgTimestamptz(updatedAt),
	)

	return err
}

// SetActive flips the active flag of a cashbox.
func (r *CashboxRepository) SetActive(ctx context.Context, tx usecase.Transaction, id string, active bool, updatedAt time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE cashboxes SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id,
		active,
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCashboxNotFound
	}

	return nil
}

func scanCashbox(row pgx.Row) (*domain.Cashbox, error) {
	var (
		cashbox              domain.Cashbox
		initial, current     pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&cashbox.ID,
		&cashbox.BranchID,
		&initial,
		&current,
		&cashbox.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCashboxNotFound
		}

		return nil, err
	}

	cashbox.InitialBalance = numericToDecimal(initial)
	cashbox.CurrentBalance = numericToDecimal(current)
	cashbox.CreatedAt = createdAt.Time
	cashbox.UpdatedAt = updatedAt.Time

	return &cashbox, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
