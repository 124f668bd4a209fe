package middleware

import (
	"encoding/json"
	"net/http"
)

// Chain wraps h so the middlewares run in the order given.
//
//	handler := Chain(mux,
//	    RequestLogging, // outermost
//	    Recover,
//	    Authenticate(authService),
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// writeError writes the same error envelope the handlers use.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
