package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bobalog/bobalog-go/internal/crypto"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the verified user embedded in a bearer token.
type Identity struct {
	UserID int64
	Name   string
}

// Auth returns middleware that validates a Bearer token from the Authorization
// header. Every rejection carries the same generic payload; the underlying
// verification error is only logged server-side.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "not authorized")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "not authorized")
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				slog.Info("token verification failed", "path", r.URL.Path, "error", err)
				writeJSONError(w, http.StatusUnauthorized, "not authorized")
				return
			}

			identity := Identity{UserID: claims.UserID, Name: claims.Name}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
