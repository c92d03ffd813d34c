package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/usecase"
	"github.com/atelier-erp/cashbox/internal/usecase/mocks"
)

type cashboxFixture struct {
	uc          *usecase.CashboxUseCase
	branchRepo  *mocks.MockBranchRepository
	cashboxRepo *mocks.MockCashboxRepository
	auditRepo   *mocks.MockAuditRepository
}

func newCashboxFixture() *cashboxFixture {
	branchRepo := mocks.NewMockBranchRepository()
	cashboxRepo := mocks.NewMockCashboxRepository()
	auditRepo := mocks.NewMockAuditRepository()

	uc := usecase.NewCashboxUseCase(
		mocks.NewMockTransactionManager(),
		branchRepo,
		cashboxRepo,
		auditRepo,
		mocks.NewMockIDGenerator(),
		nil,
	)

	return &cashboxFixture{
		uc:          uc,
		branchRepo:  branchRepo,
		cashboxRepo: cashboxRepo,
		auditRepo:   auditRepo,
	}
}

func TestCashboxUseCase_CreateBranch(t *testing.T) {
	t.Run("branch and cashbox created together", func(t *testing.T) {
		f := newCashboxFixture()

		branch, cashbox, err := f.uc.CreateBranch(context.Background(), usecase.CreateBranchInput{
			Name:           "Downtown Atelier",
			Address:        "12 Needle St",
			OpeningBalance: decimal.RequireFromString("250.00"),
			Actor:          "admin",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cashbox.BranchID != branch.ID {
			t.Error("cashbox must belong to the created branch")
		}
		if !cashbox.InitialBalance.Equal(decimal.RequireFromString("250.00")) {
			t.Errorf("initial balance = %s, want 250.00", cashbox.InitialBalance)
		}
		if !cashbox.CurrentBalance.Equal(cashbox.InitialBalance) {
			t.Error("current balance must start equal to initial balance")
		}
		if !cashbox.IsActive {
			t.Error("new cashbox must be active")
		}
	})

	t.Run("zero opening float allowed", func(t *testing.T) {
		f := newCashboxFixture()

		_, cashbox, err := f.uc.CreateBranch(context.Background(), usecase.CreateBranchInput{
			Name:  "Harbour Atelier",
			Actor: "admin",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cashbox.CurrentBalance.Equal(decimal.Zero) {
			t.Errorf("balance = %s, want 0", cashbox.CurrentBalance)
		}
	})

	t.Run("negative opening float rejected", func(t *testing.T) {
		f := newCashboxFixture()

		_, _, err := f.uc.CreateBranch(context.Background(), usecase.CreateBranchInput{
			Name:           "Bad Branch",
			OpeningBalance: decimal.RequireFromString("-1.00"),
			Actor:          "admin",
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("empty name rejected before any write", func(t *testing.T) {
		f := newCashboxFixture()

		_, _, err := f.uc.CreateBranch(context.Background(), usecase.CreateBranchInput{
			Name:  "  ",
			Actor: "admin",
		})
		if !errors.Is(err, domain.ErrInvalidBranchName) {
			t.Fatalf("expected ErrInvalidBranchName, got %v", err)
		}

		branches, _ := f.branchRepo.List(context.Background(), 10, 0)
		if len(branches) != 0 {
			t.Error("no branch should be written on validation failure")
		}
	})
}

func TestCashboxUseCase_GetBalance(t *testing.T) {
	f := newCashboxFixture()
	f.cashboxRepo.Seed(&domain.Cashbox{
		ID:             "cb-1",
		CurrentBalance: decimal.RequireFromString("42.42"),
		IsActive:       true,
	})

	balance, err := f.uc.GetBalance(context.Background(), "cb-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("42.42")) {
		t.Errorf("balance = %s, want 42.42", balance)
	}

	// Idempotent read: no intervening writes, same answer.
	again, err := f.uc.GetBalance(context.Background(), "cb-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Equal(balance) {
		t.Errorf("repeated read differs: %s vs %s", again, balance)
	}

	if _, err := f.uc.GetBalance(context.Background(), "missing"); !errors.Is(err, domain.ErrCashboxNotFound) {
		t.Fatalf("expected ErrCashboxNotFound, got %v", err)
	}
}

func TestCashboxUseCase_SetActive(t *testing.T) {
	f := newCashboxFixture()
	f.cashboxRepo.Seed(&domain.Cashbox{ID: "cb-1", IsActive: true})

	cb, err := f.uc.SetActive(context.Background(), "cb-1", false, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cb.IsActive {
		t.Error("cashbox should be inactive")
	}

	stored, _ := f.cashboxRepo.GetByID(context.Background(), "cb-1")
	if stored.IsActive {
		t.Error("stored cashbox should be inactive")
	}

	if len(f.auditRepo.Logs()) != 1 {
		t.Errorf("expected 1 audit log, got %d", len(f.auditRepo.Logs()))
	}
}

// Every mutation that writes an audit row must name who did it; an empty
// actor would leave an untraceable record.
func TestCashboxUseCase_MutationsRequireActor(t *testing.T) {
	f := newCashboxFixture()
	f.cashboxRepo.Seed(&domain.Cashbox{ID: "cb-1", IsActive: true})

	if _, _, err := f.uc.CreateBranch(context.Background(), usecase.CreateBranchInput{
		Name:  "Anonymous Atelier",
		Actor: "   ",
	}); !errors.Is(err, domain.ErrActorRequired) {
		t.Fatalf("CreateBranch: expected ErrActorRequired, got %v", err)
	}

	if _, err := f.uc.SetActive(context.Background(), "cb-1", false, ""); !errors.Is(err, domain.ErrActorRequired) {
		t.Fatalf("SetActive: expected ErrActorRequired, got %v", err)
	}

	if len(f.auditRepo.Logs()) != 0 {
		t.Errorf("expected no audit logs, got %d", len(f.auditRepo.Logs()))
	}

	stored, _ := f.cashboxRepo.GetByID(context.Background(), "cb-1")
	if !stored.IsActive {
		t.Error("rejected deactivation must not change the cashbox")
	}
}
