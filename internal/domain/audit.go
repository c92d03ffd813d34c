package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records who did what to which ledger resource, with before/after
// state, for compliance and drift forensics.
type AuditLog struct {
	ID           string
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	BeforeState  JSON
	AfterState   JSON
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionBranchCreate       AuditAction = "branch.create"
	AuditActionPostingCreate      AuditAction = "posting.create"
	AuditActionEntryReverse       AuditAction = "entry.reverse"
	AuditActionCashboxRecalculate AuditAction = "cashbox.recalculate"
	AuditActionCashboxActivate    AuditAction = "cashbox.activate"
	AuditActionCashboxDeactivate  AuditAction = "cashbox.deactivate"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
