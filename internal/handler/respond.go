package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/budgify/budgify/internal/ctxkeys"
	"github.com/budgify/budgify/internal/repository"
	"github.com/budgify/budgify/internal/service"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("invalid request body")

// envelope is the shape of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

// respondList always sends an array, never null, plus its length.
func respondList[T any](w http.ResponseWriter, items []T, message string) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items, Count: &count, Message: message})
}

func respondError(w http.ResponseWriter, status int, errMsg string) {
	writeJSON(w, status, envelope{Success: false, Error: errMsg})
}

// respondServiceError maps service and repository errors to status codes.
// Unexpected errors are logged and hidden behind a generic 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, errBadBody):
		respondError(w, http.StatusBadRequest, "Invalid request body")
	case service.IsNotFound(err):
		respondError(w, http.StatusNotFound, notFoundMessage(err))
	case errors.Is(err, service.ErrEmailAlreadyExists):
		respondError(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "Access denied")
	default:
		slog.Error("failed to "+action,
			"error", err,
			"user_id", ctxkeys.UserID(r.Context()),
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		respondError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, repository.ErrSavingsGoalNotFound):
		return "Savings goal not found"
	case errors.Is(err, repository.ErrEntryNotFound):
		return "Transaction not found"
	default:
		return "Not found"
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	return nil
}

// checkBodyOwner rejects a body user_id that differs from the caller.
// An omitted user_id means the caller.
func checkBodyOwner(r *http.Request, bodyUserID string) error {
	if bodyUserID != "" && bodyUserID != ctxkeys.UserID(r.Context()) {
		return service.ErrForbidden
	}
	return nil
}

// NotFound answers unknown routes with the JSON error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "Route not found")
}
