package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

// BranchResponse represents a branch in API responses.
type BranchResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Address   string           `json:"address,omitempty"`
	Cashbox   *CashboxResponse `json:"cashbox,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// BranchFromDomain converts a domain branch to a response.
func BranchFromDomain(b *domain.Branch, cashbox *domain.Cashbox) *BranchResponse {
	resp := &BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if cashbox != nil {
		resp.Cashbox = CashboxFromDomain(cashbox)
	}

	return resp
}

// BranchesFromDomain converts domain branches to responses.
func BranchesFromDomain(branches []*domain.Branch) []*BranchResponse {
	result := make([]*BranchResponse, len(branches))
	for i, b := range branches {
		result[i] = BranchFromDomain(b, nil)
	}

	return result
}

// CashboxResponse represents a cashbox in API responses.
type CashboxResponse struct {
	ID             string          `json:"id"`
	BranchID       string          `json:"branch_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CashboxFromDomain converts a domain cashbox to a response.
func CashboxFromDomain(c *domain.Cashbox) *CashboxResponse {
	return &CashboxResponse{
		ID:             c.ID,
		BranchID:       c.BranchID,
		InitialBalance: c.InitialBalance,
		CurrentBalance: c.CurrentBalance,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// BalanceResponse represents a cashbox balance in API responses.
type BalanceResponse struct {
	CashboxID string          `json:"cashbox_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID              string            `json:"id"`
	CashboxID       string            `json:"cashbox_id"`
	Direction       string            `json:"direction"`
	Amount          decimal.Decimal   `json:"amount"`
	BalanceAfter    decimal.Decimal   `json:"balance_after"`
	Category        string            `json:"category"`
	Reference       *ReferenceRequest `json:"reference,omitempty"`
	ReversedEntryID *string           `json:"reversed_entry_id,omitempty"`
	Metadata        map[string]any    `json:"metadata,omitempty"`
	CreatedBy       string            `json:"created_by"`
	CreatedAt       time.Time         `json:"created_at"`
	Seq             int64             `json:"seq"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	resp := &EntryResponse{
		ID:              e.ID,
		CashboxID:       e.CashboxID,
		Direction:       string(e.Direction),
		Amount:          e.Amount,
		BalanceAfter:    e.BalanceAfter,
		Category:        e.Category,
		ReversedEntryID: e.ReversedEntryID,
		Metadata:        e.Metadata,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
		Seq:             e.Seq,
	}
	if e.Reference != nil {
		resp.Reference = &ReferenceRequest{Type: e.Reference.Type, ID: e.Reference.ID}
	}

	return resp
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}

	return result
}

// RecalculateResponse represents a balance rebuild outcome in API responses.
type RecalculateResponse struct {
	CashboxID  string          `json:"cashbox_id"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Corrected  bool            `json:"corrected"`
	CheckedAt  time.Time       `json:"checked_at"`
}

// RecalculateFromResult converts a recalculation result to a response.
func RecalculateFromResult(r *usecase.RecalculateResult) *RecalculateResponse {
	return &RecalculateResponse{
		CashboxID:  r.CashboxID,
		OldBalance: r.OldBalance,
		NewBalance: r.NewBalance,
		Corrected:  r.Corrected,
		CheckedAt:  r.CheckedAt,
	}
}

// AuditLogResponse represents an audit record in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	ActorID      string         `json:"actor_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogFromDomain converts a domain audit log to a response.
func AuditLogFromDomain(l *domain.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           l.ID,
		ActorID:      l.ActorID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		BeforeState:  l.BeforeState,
		AfterState:   l.AfterState,
		CreatedAt:    l.CreatedAt,
	}
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = AuditLogFromDomain(l)
	}

	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
