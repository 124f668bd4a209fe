package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/budgify/budgify/internal/ctxkeys"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	VerifyJWT(token string) (string, error)
}

// Authenticate puts the bearer token's user id in the context.
// Requests without an Authorization header continue anonymously; a malformed or
// invalid token is rejected with 401.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			userID, err := verifier.VerifyJWT(strings.TrimSpace(token))
			if err != nil {
				slog.Debug("rejected token", "error", err, "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.UserID(r.Context()) == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next(w, r)
	}
}

// RequireOwner allows the request only when the {param} path value is the
// authenticated user. Implies RequireAuth.
func RequireOwner(param string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			userID := ctxkeys.UserID(r.Context())
			if r.PathValue(param) != userID {
				slog.Warn("cross-user access denied",
					"user_id", userID,
					"path_user_id", r.PathValue(param),
					"path", r.URL.Path,
				)
				writeError(w, http.StatusForbidden, "Access denied")
				return
			}
			next(w, r)
		})
	}
}
