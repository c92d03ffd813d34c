package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCashbox_ValidateExpense(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		amount      decimal.Decimal
		expectError bool
	}{
		{
			name:        "expense more than balance",
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(150),
			expectError: true,
		},
		{
			name:        "expense exact balance",
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(100),
			expectError: false,
		},
		{
			name:        "expense less than balance",
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(50),
			expectError: false,
		},
		{
			name:        "expense against zero balance",
			balance:     decimal.Zero,
			amount:      decimal.RequireFromString("0.01"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := &Cashbox{CurrentBalance: tt.balance}

			err := cb.ValidateExpense(tt.amount)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCashbox_Apply(t *testing.T) {
	cb := &Cashbox{CurrentBalance: decimal.RequireFromString("500.00")}

	if got := cb.ApplyIncome(decimal.RequireFromString("120.50")); !got.Equal(decimal.RequireFromString("620.50")) {
		t.Errorf("ApplyIncome = %s, want 620.50", got)
	}

	if got := cb.ApplyExpense(decimal.RequireFromString("120.50")); !got.Equal(decimal.RequireFromString("379.50")) {
		t.Errorf("ApplyExpense = %s, want 379.50", got)
	}
}
