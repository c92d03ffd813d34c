package dto

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
)

func TestCreateBranchRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateBranchRequest{
		Name:           "Main",
		Address:        "1 High St",
		OpeningBalance: decimal.RequireFromString("100.00"),
		Actor:          "admin",
	}

	got := req.ToUseCaseInput()
	if got.Name != "Main" || got.Address != "1 High St" || got.Actor != "admin" {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
	if !got.OpeningBalance.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("opening balance = %s, want 100.00", got.OpeningBalance)
	}
}

func TestCreatePostingRequest_ToUseCaseInput(t *testing.T) {
	req := &CreatePostingRequest{
		Direction: "income",
		Amount:    decimal.RequireFromString("12.34"),
		Category:  "payment",
		Reference: &ReferenceRequest{Type: "payment", ID: "p-1"},
		Metadata:  map[string]any{"register": "front"},
		Actor:     "user-1",
	}

	got := req.ToUseCaseInput("cb-1")
	if got.CashboxID != "cb-1" {
		t.Fatalf("cashbox id = %s, want cb-1", got.CashboxID)
	}
	if got.Direction != domain.DirectionIncome {
		t.Fatalf("direction = %s, want income", got.Direction)
	}
	if got.Reference == nil || got.Reference.Type != "payment" || got.Reference.ID != "p-1" {
		t.Fatalf("reference = %+v", got.Reference)
	}
	if got.Metadata["register"] != "front" {
		t.Fatalf("metadata = %+v", got.Metadata)
	}
}

func TestCreatePostingRequest_ToUseCaseInput_NoReference(t *testing.T) {
	req := &CreatePostingRequest{
		Direction: "expense",
		Amount:    decimal.RequireFromString("5.00"),
		Category:  "expense",
		Actor:     "user-1",
	}

	got := req.ToUseCaseInput("cb-1")
	if got.Reference != nil {
		t.Fatalf("expected nil reference, got %+v", got.Reference)
	}
}

func TestReverseEntryRequest_ToUseCaseInput(t *testing.T) {
	req := &ReverseEntryRequest{Actor: "admin", Notes: "duplicate"}

	got := req.ToUseCaseInput("e-1")
	if got.EntryID != "e-1" || got.Actor != "admin" || got.Notes != "duplicate" {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
}
