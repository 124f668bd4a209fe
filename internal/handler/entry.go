package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/budgify/budgify/internal/ctxkeys"
	"github.com/budgify/budgify/internal/model"
	"github.com/budgify/budgify/internal/service"
	"github.com/shopspring/decimal"
)

// EntryHandler serves one ledger kind: income or expense.
type EntryHandler struct {
	entryService *service.EntryService
	kind         model.EntryKind
	label        string
}

func NewEntryHandler(entryService *service.EntryService, kind model.EntryKind) *EntryHandler {
	label := "Income"
	if kind == model.EntryKindExpense {
		label = "Expense"
	}

	return &EntryHandler{
		entryService: entryService,
		kind:         kind,
		label:        label,
	}
}

type entryRequest struct {
	UserID   string          `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Entity   string          `json:"entity"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
	Time     string          `json:"time"`
}

func (req entryRequest) input() service.EntryInput {
	return service.EntryInput{
		Amount:   req.Amount,
		Source:   req.Entity,
		Category: req.Category,
		Date:     req.Date,
		Time:     req.Time,
	}
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err, "create "+string(h.kind))
		return
	}
	if err := checkBodyOwner(r, req.UserID); err != nil {
		respondServiceError(w, r, err, "create "+string(h.kind))
		return
	}

	entry, err := h.entryService.Create(r.Context(), h.kind, ctxkeys.UserID(r.Context()), req.input())
	if err != nil {
		respondServiceError(w, r, err, "create "+string(h.kind))
		return
	}

	respondData(w, http.StatusCreated, entry, h.label+" added successfully")
}

func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err, "update "+string(h.kind))
		return
	}
	if err := checkBodyOwner(r, req.UserID); err != nil {
		respondServiceError(w, r, err, "update "+string(h.kind))
		return
	}

	entry, err := h.entryService.Update(r.Context(), h.kind, ctxkeys.UserID(r.Context()), r.PathValue("id"), req.input())
	if service.IsNotFound(err) {
		respondError(w, http.StatusNotFound, h.label+" not found")
		return
	}
	if err != nil {
		respondServiceError(w, r, err, "update "+string(h.kind))
		return
	}

	respondData(w, http.StatusOK, entry, h.label+" updated successfully")
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entryService.Delete(r.Context(), h.kind, ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if service.IsNotFound(err) {
		respondError(w, http.StatusNotFound, h.label+" not found")
		return
	}
	if err != nil {
		respondServiceError(w, r, err, "delete "+string(h.kind))
		return
	}

	respondData(w, http.StatusOK, entry, h.label+" deleted successfully")
}

func (h *EntryHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	period := service.Period(r.PathValue("period"))

	totals, err := h.entryService.ByCategory(r.Context(), h.kind, r.PathValue("userId"), period)
	if err != nil {
		respondServiceError(w, r, err, "load "+string(h.kind)+" by category")
		return
	}

	respondList(w, totals, "")
}

// ByDate totals one month per day. ?year= and ?month= default to the current month.
func (h *EntryHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		respondError(w, http.StatusBadRequest, "year must be a number")
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		respondError(w, http.StatusBadRequest, "month must be a number")
		return
	}

	totals, err := h.entryService.ByDate(r.Context(), h.kind, r.PathValue("userId"), year, time.Month(month))
	if err != nil {
		respondServiceError(w, r, err, "load "+string(h.kind)+" by date")
		return
	}

	respondList(w, totals, "")
}

// queryInt returns 0 for an absent parameter.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
