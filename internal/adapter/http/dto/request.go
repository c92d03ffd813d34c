package dto

import (
	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

// CreateBranchRequest represents a request to create a branch with its cashbox.
type CreateBranchRequest struct {
	Name           string          `json:"name"`
	Address        string          `json:"address,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Actor          string          `json:"actor"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBranchRequest) ToUseCaseInput() usecase.CreateBranchInput {
	return usecase.CreateBranchInput{
		Name:           r.Name,
		Address:        r.Address,
		OpeningBalance: r.OpeningBalance,
		Actor:          r.Actor,
	}
}

// ReferenceRequest points at the collaborator entity that caused a posting.
type ReferenceRequest struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// CreatePostingRequest represents a request to post an entry to a cashbox.
type CreatePostingRequest struct {
	Direction string            `json:"direction"`
	Amount    decimal.Decimal   `json:"amount"`
	Category  string            `json:"category"`
	Reference *ReferenceRequest `json:"reference,omitempty"`
	Metadata  map[string]any    `json:"metadata,omitempty"`
	Actor     string            `json:"actor"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePostingRequest) ToUseCaseInput(cashboxID string) usecase.PostInput {
	var ref *domain.Reference
	if r.Reference != nil {
		ref = &domain.Reference{Type: r.Reference.Type, ID: r.Reference.ID}
	}

	return usecase.PostInput{
		CashboxID: cashboxID,
		Direction: domain.Direction(r.Direction),
		Amount:    r.Amount,
		Category:  r.Category,
		Reference: ref,
		Metadata:  r.Metadata,
		Actor:     r.Actor,
	}
}

// ReverseEntryRequest represents a request to reverse an entry.
type ReverseEntryRequest struct {
	Actor string `json:"actor"`
	Notes string `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReverseEntryRequest) ToUseCaseInput(entryID string) usecase.ReverseInput {
	return usecase.ReverseInput{
		EntryID: entryID,
		Actor:   r.Actor,
		Notes:   r.Notes,
	}
}

// ActorRequest carries the actor for operations with no other payload, such
// as recalculation and activation.
type ActorRequest struct {
	Actor string `json:"actor"`
}
