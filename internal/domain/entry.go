package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction determines the sign an entry applies to the running balance.
type Direction string

const (
	DirectionIncome   Direction = "income"
	DirectionExpense  Direction = "expense"
	DirectionReversal Direction = "reversal"
)

// ParseDirection parses a postable direction. Reversal is deliberately not
// postable through this path; reversal entries are created only by the
// reversal protocol.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionIncome, DirectionExpense:
		return Direction(s), nil
	default:
		return "", ErrInvalidDirection
	}
}

// Opposite maps income to expense and vice versa.
func (d Direction) Opposite() Direction {
	if d == DirectionIncome {
		return DirectionExpense
	}

	return DirectionIncome
}

// Reference is an opaque pointer to the collaborator entity that caused an
// entry (payment, custody, expense, payroll). The ledger never dereferences it.
type Reference struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Entry represents one immutable ledger record. Amount is always a positive
// magnitude; Direction carries the sign. Entries have no update path.
type Entry struct {
	CreatedAt       time.Time
	Metadata        map[string]any
	Reference       *Reference
	ReversedEntryID *string
	ID              string
	CashboxID       string
	Direction       Direction
	Category        string
	CreatedBy       string
	Amount          decimal.Decimal
	BalanceAfter    decimal.Decimal
	Seq             int64
}

// IsReversal reports whether this entry offsets another entry.
func (e *Entry) IsReversal() bool {
	return e.Direction == DirectionReversal
}

// SignedAmount returns the balance effect of an entry. For reversal entries
// the sign is the opposite of the reversed entry's direction, so replaying
// a stream needs the original's direction alongside each reversal.
func SignedAmount(amount decimal.Decimal, dir, reversedDir Direction) decimal.Decimal {
	effective := dir
	if dir == DirectionReversal {
		effective = reversedDir.Opposite()
	}

	if effective == DirectionExpense {
		return amount.Neg()
	}

	return amount
}
