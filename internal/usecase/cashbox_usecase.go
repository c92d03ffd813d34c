package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/infrastructure/metrics"
)

// CashboxUseCase handles branch and cashbox lifecycle. A branch and its
// cashbox are created in one transaction; partial creation cannot be
// observed.
type CashboxUseCase struct {
	txManager   TransactionManager
	branchRepo  BranchRepository
	cashboxRepo CashboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewCashboxUseCase creates a new CashboxUseCase.
func NewCashboxUseCase(
	txManager TransactionManager,
	branchRepo BranchRepository,
	cashboxRepo CashboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *CashboxUseCase {
	return &CashboxUseCase{
		txManager:   txManager,
		branchRepo:  branchRepo,
		cashboxRepo: cashboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// CreateBranchInput represents input for creating a branch with its cashbox.
type CreateBranchInput struct {
	Name           string
	Address        string
	OpeningBalance decimal.Decimal
	Actor          string
}

// CreateBranch creates a branch and its cashbox atomically. The opening
// balance becomes the cashbox's immutable initial_balance.
func (uc *CashboxUseCase) CreateBranch(ctx context.Context, input CreateBranchInput) (*domain.Branch, *domain.Cashbox, error) {
	if err := domain.ValidateBranchName(input.Name); err != nil {
		return nil, nil, err
	}

	if strings.TrimSpace(input.Actor) == "" {
		return nil, nil, domain.ErrActorRequired
	}

	// Zero is a valid opening float; negative or sub-cent values are not.
	if input.OpeningBalance.IsNegative() || !input.OpeningBalance.Equal(input.OpeningBalance.Round(2)) {
		return nil, nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()
	branch := &domain.Branch{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cashbox := &domain.Cashbox{
		ID:             uc.idGen.Generate(),
		BranchID:       branch.ID,
		InitialBalance: input.OpeningBalance,
		CurrentBalance: input.OpeningBalance,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.branchRepo.CreateTx(ctx, tx, branch); err != nil {
		return nil, nil, err
	}

	if err := uc.cashboxRepo.CreateTx(ctx, tx, cashbox); err != nil {
		return nil, nil, err
	}

	audit := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      input.Actor,
		Action:       string(domain.AuditActionBranchCreate),
		ResourceType: "branch",
		ResourceID:   branch.ID,
		AfterState:   domain.MarshalState(branch),
		CreatedAt:    now,
	}
	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BranchesCreated.Inc()
		uc.metrics.AuditLogsCreated.WithLabelValues(string(domain.AuditActionBranchCreate)).Inc()
	}

	return branch, cashbox, nil
}

// GetBranch retrieves a branch by ID.
func (uc *CashboxUseCase) GetBranch(ctx context.Context, id string) (*domain.Branch, *domain.Cashbox, error) {
	branch, err := uc.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	cashbox, err := uc.cashboxRepo.GetByBranchID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return branch, cashbox, nil
}

// ListBranches lists branches with pagination.
func (uc *CashboxUseCase) ListBranches(ctx context.Context, limit, offset int) ([]*domain.Branch, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.branchRepo.List(ctx, limit, offset)
}

// GetCashbox retrieves a cashbox by ID.
func (uc *CashboxUseCase) GetCashbox(ctx context.Context, id string) (*domain.Cashbox, error) {
	return uc.cashboxRepo.GetByID(ctx, id)
}

// GetBalance returns the cached balance. It never replays history; use
// ReconciliationUseCase.Recalculate when the cache is suspect.
func (uc *CashboxUseCase) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	cashbox, err := uc.cashboxRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	return cashbox.CurrentBalance, nil
}

// ListAuditLogs returns audit records, newest first.
func (uc *CashboxUseCase) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.auditRepo.List(ctx, filter)
}

// SetActive enables or disables a cashbox. Inactive cashboxes reject new
// postings but remain readable; this is the only form of removal.
func (uc *CashboxUseCase) SetActive(ctx context.Context, id string, active bool, actor string) (*domain.Cashbox, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, domain.ErrActorRequired
	}

	cashbox, err := uc.cashboxRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	action := domain.AuditActionCashboxDeactivate
	if active {
		action = domain.AuditActionCashboxActivate
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.cashboxRepo.SetActive(ctx, tx, id, active, now); err != nil {
		return nil, err
	}

	audit := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actor,
		Action:       string(action),
		ResourceType: "cashbox",
		ResourceID:   id,
		BeforeState:  domain.JSON{"is_active": cashbox.IsActive},
		AfterState:   domain.JSON{"is_active": active},
		CreatedAt:    now,
	}
	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action)).Inc()
	}

	cashbox.IsActive = active
	cashbox.UpdatedAt = now

	return cashbox, nil
}
