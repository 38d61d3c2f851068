package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/ecofinds/marketplace-api/internal/domain/auth"
)

type identityKey struct{}

// apiKeyHeader carries the raw API key. A Bearer token in Authorization is
// accepted as an alternative.
const apiKeyHeader = "X-Api-Key"

// requireAuth authenticates the request's API key and checks it carries the
// given scope. The resolved identity is stored in the request context.
func (h *Handler) requireAuth(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawKey := r.Header.Get(apiKeyHeader)
			if rawKey == "" {
				rawKey = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			}
			if rawKey == "" {
				writeError(w, http.StatusUnauthorized, "missing api key")
				return
			}

			info, err := h.auth.Authenticate(r.Context(), rawKey)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid api key")
				return
			}
			if !info.HasScope(scope) {
				writeError(w, http.StatusForbidden, "insufficient scope")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// identity returns the authenticated key for the request. Only valid behind
// requireAuth.
func identity(ctx context.Context) *auth.APIKeyInfo {
	info, _ := ctx.Value(identityKey{}).(*auth.APIKeyInfo)
	return info
}
