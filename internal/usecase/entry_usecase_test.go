package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/usecase"
	"github.com/atelier-erp/cashbox/internal/usecase/mocks"
)

func seedEntries(t *testing.T, entryRepo *mocks.MockEntryRepository) {
	t.Helper()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []*domain.Entry{
		{ID: "e-1", CashboxID: "cb-1", Direction: domain.DirectionIncome, Amount: decimal.RequireFromString("100.00"), Category: "payment", Reference: &domain.Reference{Type: "payment", ID: "p-1"}, CreatedAt: base},
		{ID: "e-2", CashboxID: "cb-1", Direction: domain.DirectionExpense, Amount: decimal.RequireFromString("40.00"), Category: "expense", CreatedAt: base.Add(time.Hour)},
		{ID: "e-3", CashboxID: "cb-1", Direction: domain.DirectionIncome, Amount: decimal.RequireFromString("60.00"), Category: "custody_deposit", Reference: &domain.Reference{Type: "custody", ID: "c-1"}, CreatedAt: base.Add(48 * time.Hour)},
		{ID: "e-4", CashboxID: "cb-2", Direction: domain.DirectionIncome, Amount: decimal.RequireFromString("10.00"), Category: "payment", CreatedAt: base},
	}
	for _, e := range entries {
		if err := entryRepo.Create(context.Background(), &mocks.MockTransaction{}, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestEntryUseCase_ListEntries(t *testing.T) {
	cashboxRepo := mocks.NewMockCashboxRepository()
	entryRepo := mocks.NewMockEntryRepository()
	cashboxRepo.Seed(&domain.Cashbox{ID: "cb-1", IsActive: true})
	cashboxRepo.Seed(&domain.Cashbox{ID: "cb-2", IsActive: true})
	seedEntries(t, entryRepo)

	uc := usecase.NewEntryUseCase(cashboxRepo, entryRepo)

	t.Run("all entries in append order", func(t *testing.T) {
		entries, err := uc.ListEntries(context.Background(), usecase.ListEntriesInput{CashboxID: "cb-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}
		for i := 1; i < len(entries); i++ {
			if entries[i].Seq <= entries[i-1].Seq {
				t.Error("entries must be in append order")
			}
		}
	})

	t.Run("category filter", func(t *testing.T) {
		entries, err := uc.ListEntries(context.Background(), usecase.ListEntriesInput{
			CashboxID: "cb-1",
			Filter:    usecase.EntryFilter{Category: "payment"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 || entries[0].ID != "e-1" {
			t.Errorf("expected only e-1, got %d entries", len(entries))
		}
	})

	t.Run("reference type filter", func(t *testing.T) {
		entries, err := uc.ListEntries(context.Background(), usecase.ListEntriesInput{
			CashboxID: "cb-1",
			Filter:    usecase.EntryFilter{ReferenceType: "custody"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 || entries[0].ID != "e-3" {
			t.Errorf("expected only e-3, got %d entries", len(entries))
		}
	})

	t.Run("date range filter", func(t *testing.T) {
		from := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
		to := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
		entries, err := uc.ListEntries(context.Background(), usecase.ListEntriesInput{
			CashboxID: "cb-1",
			Filter:    usecase.EntryFilter{From: &from, To: &to},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 || entries[0].ID != "e-2" {
			t.Errorf("expected only e-2, got %d entries", len(entries))
		}
	})

	t.Run("upper date bound is exclusive", func(t *testing.T) {
		// An entry stamped exactly at the bound falls outside it, the same
		// way the SQL created_at < to behaves.
		to := time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)
		entries, err := uc.ListEntries(context.Background(), usecase.ListEntriesInput{
			CashboxID: "cb-1",
			Filter:    usecase.EntryFilter{To: &to},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 || entries[0].ID != "e-1" {
			t.Errorf("expected only e-1 below the bound, got %d entries", len(entries))
		}
	})

	t.Run("pagination is restartable", func(t *testing.T) {
		first, err := uc.ListEntries(context.Background(), usecase.ListEntriesInput{CashboxID: "cb-1", Limit: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rest, err := uc.ListEntries(context.Background(), usecase.ListEntriesInput{CashboxID: "cb-1", Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(first) != 2 || len(rest) != 1 {
			t.Fatalf("pages = (%d, %d), want (2, 1)", len(first), len(rest))
		}
		if first[1].Seq >= rest[0].Seq {
			t.Error("pages must not overlap or reorder")
		}
	})

	t.Run("unknown cashbox", func(t *testing.T) {
		_, err := uc.ListEntries(context.Background(), usecase.ListEntriesInput{CashboxID: "missing"})
		if !errors.Is(err, domain.ErrCashboxNotFound) {
			t.Fatalf("expected ErrCashboxNotFound, got %v", err)
		}
	})
}

func TestEntryUseCase_GetEntry(t *testing.T) {
	cashboxRepo := mocks.NewMockCashboxRepository()
	entryRepo := mocks.NewMockEntryRepository()
	seedEntries(t, entryRepo)

	uc := usecase.NewEntryUseCase(cashboxRepo, entryRepo)

	entry, err := uc.GetEntry(context.Background(), "e-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Direction != domain.DirectionExpense {
		t.Errorf("direction = %s, want expense", entry.Direction)
	}

	if _, err := uc.GetEntry(context.Background(), "missing"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}
