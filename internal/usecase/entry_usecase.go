package usecase

import (
	"context"

	"github.com/atelier-erp/cashbox/internal/domain"
)

// EntryUseCase handles read access to the entry stream.
type EntryUseCase struct {
	cashboxRepo CashboxRepository
	entryRepo   EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(cashboxRepo CashboxRepository, entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{
		cashboxRepo: cashboxRepo,
		entryRepo:   entryRepo,
	}
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	CashboxID string
	Filter    EntryFilter
	Limit     int
	Offset    int
}

// ListEntries lists a cashbox's entries in append order. Pagination is plain
// limit/offset, so a listing can be restarted from any point with no hidden
// cursor state.
func (uc *EntryUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, error) {
	if _, err := uc.cashboxRepo.GetByID(ctx, input.CashboxID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entryRepo.ListByCashbox(ctx, input.CashboxID, input.Filter, limit, offset)
}

// GetEntry retrieves an entry by ID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}
