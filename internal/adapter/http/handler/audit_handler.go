package handler

import (
	"net/http"
	"time"

	"github.com/atelier-erp/cashbox/internal/adapter/http/dto"
	"github.com/atelier-erp/cashbox/internal/domain"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

// AuditHandler handles audit log HTTP requests.
type AuditHandler struct {
	cashboxUC *usecase.CashboxUseCase
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(cashboxUC *usecase.CashboxUseCase) *AuditHandler {
	return &AuditHandler{cashboxUC: cashboxUC}
}

// List returns audit records, newest first. Supports actor_id, action,
// resource_type, resource_id, start_date and end_date query filters.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAuditFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	logs, err := h.cashboxUC.ListAuditLogs(r.Context(), filter)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list audit logs", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}

func parseAuditFilter(r *http.Request) (domain.AuditFilter, error) {
	filter := domain.AuditFilter{
		ActorID:      r.URL.Query().Get("actor_id"),
		Action:       r.URL.Query().Get("action"),
		ResourceType: r.URL.Query().Get("resource_type"),
		ResourceID:   r.URL.Query().Get("resource_id"),
		Limit:        parseIntQuery(r, "limit", 100),
		Offset:       parseIntQuery(r, "offset", 0),
	}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &start
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &end
	}

	return filter, nil
}
