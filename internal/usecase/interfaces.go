package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
)

// BranchRepository defines data access for branches.
type BranchRepository interface {
	CreateTx(ctx context.Context, tx Transaction, branch *domain.Branch) error
	GetByID(ctx context.Context, id string) (*domain.Branch, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Branch, error)
}

// CashboxRepository defines data access for cashboxes.
type CashboxRepository interface {
	CreateTx(ctx context.Context, tx Transaction, cashbox *domain.Cashbox) error
	GetByID(ctx context.Context, id string) (*domain.Cashbox, error)
	GetByBranchID(ctx context.Context, branchID string) (*domain.Cashbox, error)
	// GetByIDForUpdate takes the per-cashbox row lock. Every balance-affecting
	// operation must go through this before reading the balance.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Cashbox, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	SetActive(ctx context.Context, tx Transaction, id string, active bool, updatedAt time.Time) error
}

// EntryFilter narrows an entry listing. Zero values mean "no filter".
type EntryFilter struct {
	From          *time.Time
	To            *time.Time
	Category      string
	ReferenceType string
}

// EntryRepository defines data access for ledger entries. Entries are
// append-only: there is no update or delete.
type EntryRepository interface {
	// Create inserts the entry and fills in its append sequence number.
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	// HasReversal reports whether a reversal entry pointing at entryID exists.
	// Must be called under the cashbox row lock to be race-free.
	HasReversal(ctx context.Context, tx Transaction, entryID string) (bool, error)
	ListByCashbox(ctx context.Context, cashboxID string, filter EntryFilter, limit, offset int) ([]*domain.Entry, error)
	// SumSignedAmounts replays the whole entry stream of a cashbox, resolving
	// each reversal's sign against the entry it reverses.
	SumSignedAmounts(ctx context.Context, tx Transaction, cashboxID string) (decimal.Decimal, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts (deadlocks,
// serialization failures) so callers never see the locking strategy.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyState is what an idempotency lookup found for a key.
type IdempotencyState int

const (
	// IdempotencyNew means the key was unknown and this caller now owns it.
	IdempotencyNew IdempotencyState = iota
	// IdempotencyInFlight means another request owns the key and has not
	// finished. Running the operation again would execute it twice.
	IdempotencyInFlight
	// IdempotencyCompleted means a finished response is cached for the key.
	IdempotencyCompleted
)

// IdempotencyStore handles idempotency key storage. How in-flight keys are
// marked is the store's business; callers only see the state.
type IdempotencyStore interface {
	// CheckAndSet atomically claims the key if it is unknown. For a known key
	// it reports whether the owning request is still running or has a cached
	// response.
	CheckAndSet(ctx context.Context, key string, ttl time.Duration) (IdempotencyState, []byte, error)
	// Update stores the final response for a claimed key.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release frees a claimed key so the client can retry after a failure.
	Release(ctx context.Context, key string) error
}
