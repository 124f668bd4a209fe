package handler

import (
	"net/http"
	"strconv"

	"github.com/budgify/budgify/internal/model"
	"github.com/budgify/budgify/internal/service"
)

type BalanceHandler struct {
	balanceService *service.BalanceService
	entryService   *service.EntryService
}

func NewBalanceHandler(balanceService *service.BalanceService, entryService *service.EntryService) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
		entryService:   entryService,
	}
}

func (h *BalanceHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	balance, err := h.balanceService.Snapshot(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondServiceError(w, r, err, "calculate balance")
		return
	}

	respondData(w, http.StatusOK, balance, "")
}

// MonthIncome lists this month's income rows.
func (h *BalanceHandler) MonthIncome(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entryService.MonthEntries(r.Context(), model.EntryKindIncome, r.PathValue("userId"))
	if err != nil {
		respondServiceError(w, r, err, "load transactions")
		return
	}

	respondList(w, entries, "")
}

func (h *BalanceHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	rows, err := h.balanceService.Recent(r.Context(), r.PathValue("userId"), limit)
	if err != nil {
		respondServiceError(w, r, err, "load transactions")
		return
	}

	respondList(w, rows, "")
}
