package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cashbox is the per-branch cash register account. CurrentBalance is a cache
// maintained transactionally with every entry write; the entry stream plus
// InitialBalance is the authoritative history.
type Cashbox struct {
	ID             string
	BranchID       string
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateExpense checks that paying out amount would not drive the balance
// negative.
func (c *Cashbox) ValidateExpense(amount decimal.Decimal) error {
	if c.CurrentBalance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}

	return nil
}

// ApplyIncome returns the balance after receiving amount.
func (c *Cashbox) ApplyIncome(amount decimal.Decimal) decimal.Decimal {
	return c.CurrentBalance.Add(amount)
}

// ApplyExpense returns the balance after paying out amount.
func (c *Cashbox) ApplyExpense(amount decimal.Decimal) decimal.Decimal {
	return c.CurrentBalance.Sub(amount)
}
