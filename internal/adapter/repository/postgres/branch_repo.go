package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

// BranchRepository implements usecase.BranchRepository.
type BranchRepository struct {
	pool *pgxpool.Pool
}

// NewBranchRepository creates a new BranchRepository.
func NewBranchRepository(pool *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{pool: pool}
}

// CreateTx creates a new branch within a transaction.
func (r *BranchRepository) CreateTx(ctx context.Context, tx usecase.Transaction, branch *domain.Branch) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO branches (id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		branch.ID,
		branch.Name,
		branch.Address,
		timeToPgTimestamptz(branch.CreatedAt),
		timeToPgTimestamptz(branch.UpdatedAt),
	)

	return err
}

// GetByID retrieves a branch by ID.
func (r *BranchRepository) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, address, created_at, updated_at FROM branches WHERE id = $1`, id)

	branch, err := scanBranch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBranchNotFound
		}

		return nil, err
	}

	return branch, nil
}

// List lists branches with pagination, oldest first.
func (r *BranchRepository) List(ctx context.Context, limit, offset int) ([]*domain.Branch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, created_at, updated_at FROM branches
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`,
		int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := make([]*domain.Branch, 0, limit)
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}

		branches = append(branches, branch)
	}

	return branches, rows.Err()
}

func scanBranch(row pgx.Row) (*domain.Branch, error) {
	var (
		branch               domain.Branch
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&branch.ID, &branch.Name, &branch.Address, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	branch.CreatedAt = createdAt.Time
	branch.UpdatedAt = updatedAt.Time

	return &branch, nil
}
