package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atelier-erp/cashbox/internal/adapter/http/dto"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

// BranchHandler handles branch-related HTTP requests.
type BranchHandler struct {
	cashboxUC *usecase.CashboxUseCase
}

// NewBranchHandler creates a new BranchHandler.
func NewBranchHandler(cashboxUC *usecase.CashboxUseCase) *BranchHandler {
	return &BranchHandler{cashboxUC: cashboxUC}
}

// Create creates a branch together with its cashbox.
func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	branch, cashbox, err := h.cashboxUC.CreateBranch(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create branch", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.BranchFromDomain(branch, cashbox))
}

// Get retrieves a branch with its cashbox.
func (h *BranchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing branch ID", "")
		return
	}

	branch, cashbox, err := h.cashboxUC.GetBranch(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get branch", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BranchFromDomain(branch, cashbox))
}

// List lists branches.
func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	branches, err := h.cashboxUC.ListBranches(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list branches", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BranchesFromDomain(branches))
}
