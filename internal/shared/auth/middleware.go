package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/enutri/platform/internal/shared/types"
)

type contextKey string

const professionalContextKey contextKey = "professional"

// Middleware creates JWT authentication middleware. Every request behind it
// carries the authenticated professional's ID in the context; core handlers
// trust this identity without further verification.
func Middleware(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			professionalID, err := issuer.Parse(parts[1], TokenTypeAccess)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), professionalContextKey, professionalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProfessionalID extracts the authenticated professional's ID from the context
func ProfessionalID(ctx context.Context) types.ID {
	id, ok := ctx.Value(professionalContextKey).(types.ID)
	if !ok {
		return ""
	}
	return id
}

// WithProfessionalID returns a context carrying the given professional
// identity. Used by tests and internal callers.
func WithProfessionalID(ctx context.Context, id types.ID) context.Context {
	return context.WithValue(ctx, professionalContextKey, id)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
