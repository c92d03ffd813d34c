package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

const entryColumns = `id, cashbox_id, direction, amount, balance_after, category,
	reference_type, reference_id, reversed_entry_id, metadata, created_by, created_at, seq`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts an entry and fills in its database-assigned sequence number.
// There is deliberately no update or delete statement in this repository.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	var (
		refType, refID *string
		metadata       []byte
		err            error
	)

	if entry.Reference != nil {
		refType = &entry.Reference.Type
		refID = &entry.Reference.ID
	}
	if entry.Metadata != nil {
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
	}

	return txQuerier(tx).QueryRow(ctx, `
		INSERT INTO entries (id, cashbox_id, direction, amount, balance_after, category,
			reference_type, reference_id, reversed_entry_id, metadata, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`,
		entry.ID,
		entry.CashboxID,
		string(entry.Direction),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.BalanceAfter),
		entry.Category,
		refType,
		refID,
		entry.ReversedEntryID,
		metadata,
		entry.CreatedBy,
		timeToPgTimestamptz(entry.CreatedAt),
	).Scan(&entry.Seq)
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+` FROM entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return entry, nil
}

// HasReversal reports whether a reversal entry pointing at entryID exists.
// Callers hold the cashbox row lock, so a false answer stays true until they
// commit.
func (r *EntryRepository) HasReversal(ctx context.Context, tx usecase.Transaction, entryID string) (bool, error) {
	var exists bool

	err := txQuerier(tx).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM entries WHERE reversed_entry_id = $1)`, entryID).Scan(&exists)

	return exists, err
}

// ListByCashbox retrieves entries for a cashbox in append order.
func (r *EntryRepository) ListByCashbox(ctx context.Context, cashboxID string, filter usecase.EntryFilter, limit, offset int) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE cashbox_id = $1`
	args := []any{cashboxID}

	var conds []string
	if filter.From != nil {
		args = append(args, timeToPgTimestamptz(*filter.From))
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, timeToPgTimestamptz(*filter.To))
		conds = append(conds, fmt.Sprintf("created_at < $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.ReferenceType != "" {
		args = append(args, filter.ReferenceType)
		conds = append(conds, fmt.Sprintf("reference_type = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " AND " + strings.Join(conds, " AND ")
	}

	args = append(args, int32(limit), int32(offset))
	query += fmt.Sprintf(" ORDER BY seq LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.Entry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SumSignedAmounts replays the full entry stream of a cashbox. A reversal's
// effect is the opposite of the direction of the entry it reverses, which the
// join resolves in one pass.
func (r *EntryRepository) SumSignedAmounts(ctx context.Context, tx usecase.Transaction, cashboxID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := txQuerier(tx).QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE
			WHEN e.direction = 'income' THEN e.amount
			WHEN e.direction = 'expense' THEN -e.amount
			WHEN o.direction = 'income' THEN -e.amount
			ELSE e.amount
		END), 0)
		FROM entries e
		LEFT JOIN entries o ON o.id = e.reversed_entry_id
		WHERE e.cashbox_id = $1`, cashboxID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry                domain.Entry
		amount, balanceAfter pgtype.Numeric
		refType, refID       *string
		metadata             []byte
		createdAt            pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.CashboxID,
		&entry.Direction,
		&amount,
		&balanceAfter,
		&entry.Category,
		&refType,
		&refID,
		&entry.ReversedEntryID,
		&metadata,
		&entry.CreatedBy,
		&createdAt,
		&entry.Seq,
	)
	if err != nil {
		return nil, err
	}

	entry.Amount = numericToDecimal(amount)
	entry.BalanceAfter = numericToDecimal(balanceAfter)
	entry.CreatedAt = createdAt.Time

	if refType != nil && refID != nil {
		entry.Reference = &domain.Reference{Type: *refType, ID: *refID}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, err
		}
	}

	return &entry, nil
}
