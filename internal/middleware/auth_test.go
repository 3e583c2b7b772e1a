package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bobalog/bobalog-go/internal/crypto"
)

const testSecret = "test-secret"

func authedEcho(t *testing.T) http.Handler {
	t.Helper()
	return Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity in context")
		}
		json.NewEncoder(w).Encode(identity)
	}))
}

func TestAuth_ValidToken(t *testing.T) {
	token, err := crypto.GenerateToken(7, "alice", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/purchases/7", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	authedEcho(t).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var identity Identity
	if err := json.NewDecoder(w.Body).Decode(&identity); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if identity.UserID != 7 || identity.Name != "alice" {
		t.Errorf("unexpected identity: %+v", identity)
	}
}

func TestAuth_Rejections(t *testing.T) {
	expired, err := crypto.GenerateToken(7, "alice", testSecret, -time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	wrongSecret, err := crypto.GenerateToken(7, "alice", "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expired},
		{"wrong secret", "Bearer " + wrongSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/purchases/7", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			authedEcho(t).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", w.Code)
			}

			// Every rejection carries the same generic payload.
			var payload map[string]string
			if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if payload["error"] != "not authorized" {
				t.Errorf("expected generic rejection, got %q", payload["error"])
			}
		})
	}
}
