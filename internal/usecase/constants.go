package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction.
	// This prevents a stuck posting from pinning a cashbox row lock.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// ReversalCategory is the category stamped on reversal entries.
	ReversalCategory = "reversal"
)
