package handler

import (
	"net/http"

	"github.com/budgify/budgify/internal/ctxkeys"
	"github.com/budgify/budgify/internal/service"
	"github.com/shopspring/decimal"
)

type SavingsHandler struct {
	savingsService *service.SavingsService
}

func NewSavingsHandler(savingsService *service.SavingsService) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
	}
}

type goalRequest struct {
	UserID       string          `json:"user_id"`
	GoalName     string          `json:"goal_name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
}

type contributionRequest struct {
	UserID string          `json:"user_id"`
	GoalID string          `json:"goal_id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Time   string          `json:"time"`
	Notes  string          `json:"notes"`
}

func (h *SavingsHandler) Goals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.savingsService.Goals(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondServiceError(w, r, err, "load savings goals")
		return
	}

	respondList(w, goals, "")
}

func (h *SavingsHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err, "create savings goal")
		return
	}
	if err := checkBodyOwner(r, req.UserID); err != nil {
		respondServiceError(w, r, err, "create savings goal")
		return
	}

	goal, err := h.savingsService.CreateGoal(r.Context(), ctxkeys.UserID(r.Context()), req.GoalName, req.TargetAmount)
	if err != nil {
		respondServiceError(w, r, err, "create savings goal")
		return
	}

	respondData(w, http.StatusCreated, goal, "Savings goal created successfully")
}

func (h *SavingsHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err, "update savings goal")
		return
	}
	if err := checkBodyOwner(r, req.UserID); err != nil {
		respondServiceError(w, r, err, "update savings goal")
		return
	}

	goal, err := h.savingsService.UpdateGoal(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("goalId"), req.GoalName, req.TargetAmount)
	if err != nil {
		respondServiceError(w, r, err, "update savings goal")
		return
	}

	respondData(w, http.StatusOK, goal, "Savings goal updated successfully")
}

func (h *SavingsHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.savingsService.DeleteGoal(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("goalId"))
	if err != nil {
		respondServiceError(w, r, err, "delete savings goal")
		return
	}

	respondData(w, http.StatusOK, goal, "Savings goal deleted successfully")
}

func (h *SavingsHandler) GoalTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.savingsService.GoalTransactions(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("goalId"))
	if err != nil {
		respondServiceError(w, r, err, "load goal transactions")
		return
	}

	respondList(w, txns, "")
}

func (h *SavingsHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err, "add savings transaction")
		return
	}
	if err := checkBodyOwner(r, req.UserID); err != nil {
		respondServiceError(w, r, err, "add savings transaction")
		return
	}

	contribution, err := h.savingsService.Contribute(r.Context(), ctxkeys.UserID(r.Context()), service.ContributionInput{
		GoalID: req.GoalID,
		Amount: req.Amount,
		Date:   req.Date,
		Time:   req.Time,
		Notes:  req.Notes,
	})
	if err != nil {
		respondServiceError(w, r, err, "add savings transaction")
		return
	}

	message := "Savings transaction added successfully"
	if contribution.GoalAchieved {
		message = "Congratulations! You achieved your savings goal"
	}
	respondData(w, http.StatusCreated, contribution, message)
}

// Transactions lists contributions, optionally narrowed with ?goalId=.
func (h *SavingsHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.savingsService.Transactions(r.Context(), r.PathValue("userId"), r.URL.Query().Get("goalId"))
	if err != nil {
		respondServiceError(w, r, err, "load savings transactions")
		return
	}

	respondList(w, txns, "")
}

func (h *SavingsHandler) TransactionsInRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	txns, err := h.savingsService.TransactionsInRange(r.Context(), r.PathValue("userId"), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		respondServiceError(w, r, err, "load savings transactions")
		return
	}

	respondList(w, txns, "")
}

func (h *SavingsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.savingsService.Summary(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondServiceError(w, r, err, "load savings summary")
		return
	}

	respondData(w, http.StatusOK, summary, "")
}

func (h *SavingsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	months, err := h.savingsService.Monthly(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondServiceError(w, r, err, "load monthly savings")
		return
	}

	respondList(w, months, "")
}
