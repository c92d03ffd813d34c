package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atelier-erp/cashbox/internal/adapter/http/dto"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

// CashboxHandler handles cashbox-related HTTP requests.
type CashboxHandler struct {
	cashboxUC        *usecase.CashboxUseCase
	postingUC        *usecase.PostingUseCase
	reconciliationUC *usecase.ReconciliationUseCase
}

// NewCashboxHandler creates a new CashboxHandler.
func NewCashboxHandler(
	cashboxUC *usecase.CashboxUseCase,
	postingUC *usecase.PostingUseCase,
	reconciliationUC *usecase.ReconciliationUseCase,
) *CashboxHandler {
	return &CashboxHandler{
		cashboxUC:        cashboxUC,
		postingUC:        postingUC,
		reconciliationUC: reconciliationUC,
	}
}

// Get retrieves a cashbox by ID.
func (h *CashboxHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing cashbox ID", "")
		return
	}

	cashbox, err := h.cashboxUC.GetCashbox(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get cashbox", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CashboxFromDomain(cashbox))
}

// GetBalance returns the cached balance of a cashbox.
func (h *CashboxHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing cashbox ID", "")
		return
	}

	balance, err := h.cashboxUC.GetBalance(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{CashboxID: id, Balance: balance})
}

// CreatePosting posts an income or expense entry to a cashbox.
func (h *CashboxHandler) CreatePosting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing cashbox ID", "")
		return
	}

	var req dto.CreatePostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.postingUC.Post(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create posting", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Recalculate rebuilds the cashbox balance from its entry history.
func (h *CashboxHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing cashbox ID", "")
		return
	}

	actor, ok := decodeActor(w, r)
	if !ok {
		return
	}

	result, err := h.reconciliationUC.Recalculate(r.Context(), id, actor)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to recalculate balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.RecalculateFromResult(result))
}

// Activate re-enables a cashbox for postings.
func (h *CashboxHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate disables a cashbox. Its history stays readable.
func (h *CashboxHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *CashboxHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing cashbox ID", "")
		return
	}

	actor, ok := decodeActor(w, r)
	if !ok {
		return
	}

	cashbox, err := h.cashboxUC.SetActive(r.Context(), id, active, actor)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update cashbox", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CashboxFromDomain(cashbox))
}

// decodeActor reads the actor from the request body. An empty body is allowed;
// the use case decides whether the operation requires an actor.
func decodeActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req dto.ActorRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return "", false
	}

	return req.Actor, true
}
