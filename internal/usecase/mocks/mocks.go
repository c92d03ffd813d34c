package mocks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

// MockTransaction is an in-memory transaction. Repositories register release
// hooks (row-lock unlocks) that fire exactly once, on whichever of Commit or
// Rollback runs first.
type MockTransaction struct {
	mu        sync.Mutex
	done      bool
	finishers []func()

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

// OnFinish registers a hook to run when the transaction ends.
func (t *MockTransaction) OnFinish(f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finishers = append(t.finishers, f)
}

func (t *MockTransaction) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	for _, f := range t.finishers {
		f()
	}
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.finish()
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	t.finish()
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockCashboxRepository is a mock implementation of CashboxRepository with
// real per-cashbox row-lock semantics: GetByIDForUpdate blocks while another
// transaction holds the same cashbox, exactly like SELECT ... FOR UPDATE.
type MockCashboxRepository struct {
	mu        sync.Mutex
	cashboxes map[string]*domain.Cashbox
	rowLocks  map[string]*sync.Mutex

	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, cashbox *domain.Cashbox) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Cashbox, error)
	GetByBranchIDFunc    func(ctx context.Context, branchID string) (*domain.Cashbox, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Cashbox, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	SetActiveFunc        func(ctx context.Context, tx usecase.Transaction, id string, active bool, updatedAt time.Time) error
}

func NewMockCashboxRepository() *MockCashboxRepository {
	return &MockCashboxRepository{
		cashboxes: make(map[string]*domain.Cashbox),
		rowLocks:  make(map[string]*sync.Mutex),
	}
}

// Seed stores a cashbox directly, bypassing any transaction.
func (m *MockCashboxRepository) Seed(cashbox *domain.Cashbox) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cashbox
	m.cashboxes[cashbox.ID] = &cp
}

func (m *MockCashboxRepository) rowLock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rowLocks[id]; !ok {
		m.rowLocks[id] = &sync.Mutex{}
	}
	return m.rowLocks[id]
}

func (m *MockCashboxRepository) CreateTx(ctx context.Context, tx usecase.Transaction, cashbox *domain.Cashbox) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, cashbox)
	}
	m.Seed(cashbox)
	return nil
}

func (m *MockCashboxRepository) GetByID(ctx context.Context, id string) (*domain.Cashbox, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cb, ok := m.cashboxes[id]; ok {
		cp := *cb
		return &cp, nil
	}
	return nil, domain.ErrCashboxNotFound
}

func (m *MockCashboxRepository) GetByBranchID(ctx context.Context, branchID string) (*domain.Cashbox, error) {
	if m.GetByBranchIDFunc != nil {
		return m.GetByBranchIDFunc(ctx, branchID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cb := range m.cashboxes {
		if cb.BranchID == branchID {
			cp := *cb
			return &cp, nil
		}
	}
	return nil, domain.ErrCashboxNotFound
}

func (m *MockCashboxRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Cashbox, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}

	lock := m.rowLock(id)
	lock.Lock()
	if mt, ok := tx.(*MockTransaction); ok {
		mt.OnFinish(lock.Unlock)
	} else {
		defer lock.Unlock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cb, ok := m.cashboxes[id]; ok {
		cp := *cb
		return &cp, nil
	}
	return nil, domain.ErrCashboxNotFound
}

func (m *MockCashboxRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cb, ok := m.cashboxes[id]; ok {
		cb.CurrentBalance = balance
		cb.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrCashboxNotFound
}

func (m *MockCashboxRepository) SetActive(ctx context.Context, tx usecase.Transaction, id string, active bool, updatedAt time.Time) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, tx, id, active, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cb, ok := m.cashboxes[id]; ok {
		cb.IsActive = active
		cb.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrCashboxNotFound
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.Mutex
	entries []*domain.Entry
	nextSeq int64

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Entry, error)
	HasReversalFunc      func(ctx context.Context, tx usecase.Transaction, entryID string) (bool, error)
	ListByCashboxFunc    func(ctx context.Context, cashboxID string, filter usecase.EntryFilter, limit, offset int) ([]*domain.Entry, error)
	SumSignedAmountsFunc func(ctx context.Context, tx usecase.Transaction, cashboxID string) (decimal.Decimal, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

// Entries returns a snapshot of all stored entries in append order.
func (m *MockEntryRepository) Entries() []*domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	entry.Seq = m.nextSeq
	cp := *entry
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) HasReversal(ctx context.Context, tx usecase.Transaction, entryID string) (bool, error) {
	if m.HasReversalFunc != nil {
		return m.HasReversalFunc(ctx, tx, entryID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ReversedEntryID != nil && *e.ReversedEntryID == entryID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntryRepository) ListByCashbox(ctx context.Context, cashboxID string, filter usecase.EntryFilter, limit, offset int) ([]*domain.Entry, error) {
	if m.ListByCashboxFunc != nil {
		return m.ListByCashboxFunc(ctx, cashboxID, filter, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*domain.Entry
	for _, e := range m.entries {
		if e.CashboxID != cashboxID {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.ReferenceType != "" && (e.Reference == nil || e.Reference.Type != filter.ReferenceType) {
			continue
		}
		if filter.From != nil && e.CreatedAt.Before(*filter.From) {
			continue
		}
		// Upper bound is exclusive, matching the repository's created_at < to.
		if filter.To != nil && !e.CreatedAt.Before(*filter.To) {
			continue
		}
		cp := *e
		matched = append(matched, &cp)
	}

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MockEntryRepository) SumSignedAmounts(ctx context.Context, tx usecase.Transaction, cashboxID string) (decimal.Decimal, error) {
	if m.SumSignedAmountsFunc != nil {
		return m.SumSignedAmountsFunc(ctx, tx, cashboxID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	byID := make(map[string]*domain.Entry, len(m.entries))
	for _, e := range m.entries {
		byID[e.ID] = e
	}

	sum := decimal.Zero
	for _, e := range m.entries {
		if e.CashboxID != cashboxID {
			continue
		}
		var reversedDir domain.Direction
		if e.ReversedEntryID != nil {
			if original, ok := byID[*e.ReversedEntryID]; ok {
				reversedDir = original.Direction
			}
		}
		sum = sum.Add(domain.SignedAmount(e.Amount, e.Direction, reversedDir))
	}
	return sum, nil
}

// MockBranchRepository is a mock implementation of BranchRepository.
type MockBranchRepository struct {
	mu       sync.Mutex
	branches []*domain.Branch

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, branch *domain.Branch) error
	GetByIDFunc  func(ctx context.Context, id string) (*domain.Branch, error)
	ListFunc     func(ctx context.Context, limit, offset int) ([]*domain.Branch, error)
}

func NewMockBranchRepository() *MockBranchRepository {
	return &MockBranchRepository{}
}

func (m *MockBranchRepository) CreateTx(ctx context.Context, tx usecase.Transaction, branch *domain.Branch) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, branch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *branch
	m.branches = append(m.branches, &cp)
	return nil
}

func (m *MockBranchRepository) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.branches {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrBranchNotFound
}

func (m *MockBranchRepository) List(ctx context.Context, limit, offset int) ([]*domain.Branch, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if offset >= len(m.branches) {
		return nil, nil
	}
	out := m.branches[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	result := make([]*domain.Branch, len(out))
	copy(result, out)
	return result, nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.Mutex
	logs []*domain.AuditLog

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc     func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out, nil
}

// Logs returns a snapshot of recorded audit logs.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	counter atomic.Int64

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return fmt.Sprintf("id-%d", m.counter.Add(1))
}

// NopRetrier runs the operation exactly once with no retry.
type NopRetrier struct{}

func NewNopRetrier() *NopRetrier {
	return &NopRetrier{}
}

func (r *NopRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}
