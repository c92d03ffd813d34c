package domain

import "errors"

var (
	// Posting errors
	ErrInvalidAmount     = errors.New("amount must be a positive value with at most two decimal places")
	ErrInvalidDirection  = errors.New("direction must be income or expense")
	ErrInsufficientFunds = errors.New("cashbox balance is insufficient for this expense")
	ErrCashboxInactive   = errors.New("cashbox is inactive and rejects new postings")
	ErrActorRequired     = errors.New("created_by actor is required")

	// Reversal errors
	ErrEntryAlreadyReversed  = errors.New("entry has already been reversed")
	ErrCannotReverseReversal = errors.New("reversal entries cannot be reversed")

	// Lookup errors
	ErrBranchNotFound  = errors.New("branch not found")
	ErrCashboxNotFound = errors.New("cashbox not found")
	ErrEntryNotFound   = errors.New("entry not found")
)
