package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
)

func TestBranchFromDomain(t *testing.T) {
	now := time.Now()
	branch := &domain.Branch{ID: "br-1", Name: "Main", Address: "1 High St", CreatedAt: now, UpdatedAt: now}
	cashbox := &domain.Cashbox{
		ID:             "cb-1",
		BranchID:       "br-1",
		InitialBalance: decimal.RequireFromString("100.00"),
		CurrentBalance: decimal.RequireFromString("123.45"),
		IsActive:       true,
	}

	resp := BranchFromDomain(branch, cashbox)
	if resp.ID != "br-1" || resp.Cashbox == nil || resp.Cashbox.ID != "cb-1" {
		t.Fatalf("unexpected branch response: %+v", resp)
	}
	if !resp.Cashbox.CurrentBalance.Equal(decimal.RequireFromString("123.45")) {
		t.Fatalf("cashbox balance = %s", resp.Cashbox.CurrentBalance)
	}

	bare := BranchFromDomain(branch, nil)
	if bare.Cashbox != nil {
		t.Fatalf("expected nil cashbox, got %+v", bare.Cashbox)
	}

	list := BranchesFromDomain([]*domain.Branch{branch})
	if len(list) != 1 || list[0].ID != branch.ID {
		t.Fatalf("BranchesFromDomain returned %+v", list)
	}
}

func TestEntryFromDomain(t *testing.T) {
	reversed := "e-0"
	entry := &domain.Entry{
		ID:              "e-1",
		CashboxID:       "cb-1",
		Direction:       domain.DirectionReversal,
		Amount:          decimal.RequireFromString("5.00"),
		BalanceAfter:    decimal.RequireFromString("15.00"),
		Category:        "reversal",
		Reference:       &domain.Reference{Type: "payment", ID: "p-1"},
		ReversedEntryID: &reversed,
		CreatedBy:       "admin",
		CreatedAt:       time.Now(),
		Seq:             7,
	}

	resp := EntryFromDomain(entry)
	if resp.Direction != "reversal" || resp.Seq != 7 {
		t.Fatalf("unexpected entry response: %+v", resp)
	}
	if resp.Reference == nil || resp.Reference.ID != "p-1" {
		t.Fatalf("reference = %+v", resp.Reference)
	}
	if resp.ReversedEntryID == nil || *resp.ReversedEntryID != "e-0" {
		t.Fatal("reversed entry id must carry through")
	}

	list := EntriesFromDomain([]*domain.Entry{entry})
	if len(list) != 1 || list[0].ID != entry.ID {
		t.Fatalf("EntriesFromDomain returned %+v", list)
	}
}
