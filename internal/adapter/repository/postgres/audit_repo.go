package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// CreateTx creates an audit log within a transaction, so the log commits or
// rolls back together with the change it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	before, err := marshalState(log.BeforeState)
	if err != nil {
		return err
	}
	after, err := marshalState(log.AfterState)
	if err != nil {
		return err
	}

	_, err = txQuerier(tx).Exec(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, resource_type, resource_id, before_state, after_state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.ID,
		log.ActorID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		before,
		after,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// List retrieves audit logs matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `SELECT id, actor_id, action, resource_type, resource_id, before_state, after_state, created_at
		FROM audit_logs`
	var (
		args  []any
		conds []string
	)

	if filter.ActorID != "" {
		args = append(args, filter.ActorID)
		conds = append(conds, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		conds = append(conds, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.ResourceType != "" {
		args = append(args, filter.ResourceType)
		conds = append(conds, fmt.Sprintf("resource_type = $%d", len(args)))
	}
	if filter.ResourceID != "" {
		args = append(args, filter.ResourceID)
		conds = append(conds, fmt.Sprintf("resource_id = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, timeToPgTimestamptz(*filter.StartDate))
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, timeToPgTimestamptz(*filter.EndDate))
		conds = append(conds, fmt.Sprintf("created_at < $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, int32(limit), int32(filter.Offset))
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0, limit)
	for rows.Next() {
		var (
			log           domain.AuditLog
			before, after []byte
			createdAt     pgtype.Timestamptz
		)

		err := rows.Scan(&log.ID, &log.ActorID, &log.Action, &log.ResourceType, &log.ResourceID, &before, &after, &createdAt)
		if err != nil {
			return nil, err
		}

		log.CreatedAt = createdAt.Time
		if len(before) > 0 {
			if err := json.Unmarshal(before, &log.BeforeState); err != nil {
				return nil, err
			}
		}
		if len(after) > 0 {
			if err := json.Unmarshal(after, &log.AfterState); err != nil {
				return nil, err
			}
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

func marshalState(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}

	return json.Marshal(state)
}
