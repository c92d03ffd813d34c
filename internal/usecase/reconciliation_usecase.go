package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/infrastructure/metrics"
)

// ReconciliationUseCase rebuilds a cashbox's cached balance from its entry
// stream. It is a diagnostic and repair tool, not a posting: it does not
// consult the non-negative invariant, and a drifted negative balance is
// reported faithfully rather than clamped.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	cashboxRepo CashboxRepository
	entryRepo   EntryRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	txManager TransactionManager,
	cashboxRepo CashboxRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		cashboxRepo: cashboxRepo,
		entryRepo:   entryRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     m,
	}
}

// RecalculateResult reports the outcome of a balance rebuild.
type RecalculateResult struct {
	CashboxID  string
	OldBalance decimal.Decimal
	NewBalance decimal.Decimal
	Corrected  bool
	CheckedAt  time.Time
}

// Recalculate replays initial_balance plus the signed entry stream under the
// same per-cashbox row lock postings take, so it cannot race with a
// concurrent Post or Reverse. Entries themselves are never touched.
func (uc *ReconciliationUseCase) Recalculate(ctx context.Context, cashboxID, actor string) (*RecalculateResult, error) {
	// A correction writes an audit row, so the actor must be known up front.
	if strings.TrimSpace(actor) == "" {
		return nil, domain.ErrActorRequired
	}

	var result *RecalculateResult

	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.recalculate(ctx, cashboxID, actor)
		if err != nil {
			return err
		}

		result = r

		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.Recalculations.Inc()
		if result.Corrected {
			uc.metrics.RecalculationsDrifted.Inc()
			uc.metrics.RecalculationDriftSize.Observe(result.NewBalance.Sub(result.OldBalance).Abs().InexactFloat64())
			uc.metrics.AuditLogsCreated.WithLabelValues(string(domain.AuditActionCashboxRecalculate)).Inc()
		}
	}

	return result, nil
}

func (uc *ReconciliationUseCase) recalculate(ctx context.Context, cashboxID, actor string) (*RecalculateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cashbox, err := uc.cashboxRepo.GetByIDForUpdate(ctx, tx, cashboxID)
	if err != nil {
		return nil, err
	}

	sum, err := uc.entryRepo.SumSignedAmounts(ctx, tx, cashboxID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	replayed := cashbox.InitialBalance.Add(sum)
	result := &RecalculateResult{
		CashboxID:  cashboxID,
		OldBalance: cashbox.CurrentBalance,
		NewBalance: replayed,
		Corrected:  !replayed.Equal(cashbox.CurrentBalance),
		CheckedAt:  now,
	}

	if result.Corrected {
		if err := uc.cashboxRepo.UpdateBalance(ctx, tx, cashboxID, replayed, now); err != nil {
			return nil, err
		}

		audit := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			ActorID:      actor,
			Action:       string(domain.AuditActionCashboxRecalculate),
			ResourceType: "cashbox",
			ResourceID:   cashboxID,
			BeforeState:  domain.JSON{"current_balance": result.OldBalance.String()},
			AfterState:   domain.JSON{"current_balance": replayed.String()},
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}
