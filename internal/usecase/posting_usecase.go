package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/infrastructure/metrics"
)

// PostingUseCase is the single choke point through which every balance change
// passes. Post and Reverse share the same locked read-check-write path: the
// cashbox row lock is taken first, the balance is re-derived from the locked
// row, and the entry insert plus balance update commit as one unit.
type PostingUseCase struct {
	txManager   TransactionManager
	cashboxRepo CashboxRepository
	entryRepo   EntryRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	cashboxRepo CashboxRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:   txManager,
		cashboxRepo: cashboxRepo,
		entryRepo:   entryRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     m,
	}
}

// PostInput represents input for creating a posting.
type PostInput struct {
	Metadata  map[string]any
	Reference *domain.Reference
	CashboxID string
	Direction domain.Direction
	Amount    decimal.Decimal
	Category  string
	Actor     string
}

// Post creates an income or expense entry against a cashbox.
func (uc *PostingUseCase) Post(ctx context.Context, input PostInput) (*domain.Entry, error) {
	// All shape validation happens before any lock is taken.
	if _, err := domain.ParseDirection(string(input.Direction)); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateCategory(input.Category); err != nil {
		return nil, err
	}

	if err := domain.ValidateReference(input.Reference); err != nil {
		return nil, err
	}

	if err := domain.ValidateMetadata(input.Metadata); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Actor) == "" {
		return nil, domain.ErrActorRequired
	}

	start := time.Now()

	var entry *domain.Entry

	err := uc.retrier.Retry(ctx, func() error {
		e, err := uc.post(ctx, input)
		if err != nil {
			return err
		}

		entry = e

		return nil
	})
	if err != nil {
		uc.recordRejection(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PostingsCreated.WithLabelValues(string(input.Direction)).Inc()
		uc.metrics.PostingAmount.Observe(input.Amount.InexactFloat64())
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
		uc.metrics.AuditLogsCreated.WithLabelValues(string(domain.AuditActionPostingCreate)).Inc()
	}

	return entry, nil
}

func (uc *PostingUseCase) recordRejection(err error) {
	if uc.metrics == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		uc.metrics.PostingsRejected.WithLabelValues("insufficient_funds").Inc()
	case errors.Is(err, domain.ErrCashboxInactive):
		uc.metrics.PostingsRejected.WithLabelValues("cashbox_inactive").Inc()
	case errors.Is(err, domain.ErrEntryAlreadyReversed):
		uc.metrics.PostingsRejected.WithLabelValues("already_reversed").Inc()
	}
}

func (uc *PostingUseCase) post(ctx context.Context, input PostInput) (*domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cashbox, err := uc.cashboxRepo.GetByIDForUpdate(ctx, tx, input.CashboxID)
	if err != nil {
		return nil, err
	}

	if !cashbox.IsActive {
		return nil, domain.ErrCashboxInactive
	}

	now := time.Now().UTC()
	entry := &domain.Entry{
		ID:        uc.idGen.Generate(),
		CashboxID: cashbox.ID,
		Direction: input.Direction,
		Amount:    input.Amount,
		Category:  input.Category,
		Reference: input.Reference,
		CreatedBy: input.Actor,
		Metadata:  input.Metadata,
		CreatedAt: now,
	}

	if err := uc.apply(ctx, tx, cashbox, input.Direction, entry, now); err != nil {
		return nil, err
	}

	audit := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      input.Actor,
		Action:       string(domain.AuditActionPostingCreate),
		ResourceType: "entry",
		ResourceID:   entry.ID,
		AfterState:   domain.MarshalState(entry),
		CreatedAt:    now,
	}
	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

// ReverseInput represents input for reversing an entry.
type ReverseInput struct {
	EntryID string
	Actor   string
	Notes   string
}

// Reverse posts a new entry that offsets a prior one. The original entry is
// never altered; reversing an income is subject to the same non-negative
// balance check as any expense.
func (uc *PostingUseCase) Reverse(ctx context.Context, input ReverseInput) (*domain.Entry, error) {
	if strings.TrimSpace(input.Actor) == "" {
		return nil, domain.ErrActorRequired
	}

	var entry *domain.Entry

	err := uc.retrier.Retry(ctx, func() error {
		e, err := uc.reverse(ctx, input)
		if err != nil {
			return err
		}

		entry = e

		return nil
	})
	if err != nil {
		uc.recordRejection(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesReversed.Inc()
		uc.metrics.AuditLogsCreated.WithLabelValues(string(domain.AuditActionEntryReverse)).Inc()
	}

	return entry, nil
}

func (uc *PostingUseCase) reverse(ctx context.Context, input ReverseInput) (*domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	original, err := uc.entryRepo.GetByID(ctx, input.EntryID)
	if err != nil {
		return nil, err
	}

	if original.IsReversal() {
		return nil, domain.ErrCannotReverseReversal
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cashbox, err := uc.cashboxRepo.GetByIDForUpdate(ctx, tx, original.CashboxID)
	if err != nil {
		return nil, err
	}

	if !cashbox.IsActive {
		return nil, domain.ErrCashboxInactive
	}

	// The at-most-once check runs under the cashbox row lock, so two
	// concurrent reversals of the same entry serialize here. The partial
	// unique index on reversed_entry_id is the storage-level backstop.
	reversed, err := uc.entryRepo.HasReversal(ctx, tx, original.ID)
	if err != nil {
		return nil, err
	}

	if reversed {
		return nil, domain.ErrEntryAlreadyReversed
	}

	now := time.Now().UTC()
	metadata := map[string]any{}
	if input.Notes != "" {
		metadata["notes"] = input.Notes
	}

	originalID := original.ID
	entry := &domain.Entry{
		ID:              uc.idGen.Generate(),
		CashboxID:       cashbox.ID,
		Direction:       domain.DirectionReversal,
		Amount:          original.Amount,
		Category:        ReversalCategory,
		Reference:       original.Reference,
		ReversedEntryID: &originalID,
		CreatedBy:       input.Actor,
		Metadata:        metadata,
		CreatedAt:       now,
	}

	// Reversing an income behaves like an expense of the same amount, and
	// vice versa.
	if err := uc.apply(ctx, tx, cashbox, original.Direction.Opposite(), entry, now); err != nil {
		return nil, err
	}

	audit := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      input.Actor,
		Action:       string(domain.AuditActionEntryReverse),
		ResourceType: "entry",
		ResourceID:   original.ID,
		BeforeState:  domain.MarshalState(original),
		AfterState:   domain.MarshalState(entry),
		CreatedAt:    now,
	}
	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

// apply performs the locked read-check-write: enforce the non-negative
// invariant for expense effects, stamp balance_after, insert the entry, and
// move the cached balance to the same value. Caller holds the row lock and
// commits.
func (uc *PostingUseCase) apply(
	ctx context.Context,
	tx Transaction,
	cashbox *domain.Cashbox,
	effect domain.Direction,
	entry *domain.Entry,
	now time.Time,
) error {
	var newBalance decimal.Decimal

	switch effect {
	case domain.DirectionExpense:
		if err := cashbox.ValidateExpense(entry.Amount); err != nil {
			return err
		}

		newBalance = cashbox.ApplyExpense(entry.Amount)
	default:
		newBalance = cashbox.ApplyIncome(entry.Amount)
	}

	entry.BalanceAfter = newBalance

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	if err := uc.cashboxRepo.UpdateBalance(ctx, tx, cashbox.ID, newBalance, now); err != nil {
		return err
	}

	cashbox.CurrentBalance = newBalance

	return nil
}
