package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atelier-erp/cashbox/internal/adapter/http/dto"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC   *usecase.EntryUseCase
	postingUC *usecase.PostingUseCase
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC *usecase.EntryUseCase, postingUC *usecase.PostingUseCase) *EntryHandler {
	return &EntryHandler{
		entryUC:   entryUC,
		postingUC: postingUC,
	}
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.entryUC.GetEntry(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get entry", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// ListByCashbox lists a cashbox's entries in append order. Supports category,
// reference_type, from and to query filters.
func (h *EntryHandler) ListByCashbox(w http.ResponseWriter, r *http.Request) {
	cashboxID := chi.URLParam(r, "id")
	if cashboxID == "" {
		writeError(w, http.StatusBadRequest, "missing cashbox ID", "")
		return
	}

	filter, err := parseEntryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	entries, err := h.entryUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		CashboxID: cashboxID,
		Filter:    filter,
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list entries", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Reverse posts a reversal entry offsetting a prior entry.
func (h *EntryHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.ReverseEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	reversal, err := h.postingUC.Reverse(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reverse entry", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(reversal))
}

func parseEntryFilter(r *http.Request) (usecase.EntryFilter, error) {
	filter := usecase.EntryFilter{
		Category:      r.URL.Query().Get("category"),
		ReferenceType: r.URL.Query().Get("reference_type"),
	}

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}

	return filter, nil
}
