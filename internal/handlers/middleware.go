package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dnovoa/payledger/internal/models"
)

// Context key type to avoid collisions.
type contextKey string

const accountContextKey contextKey = "account"

// Wire format for payment timestamps.
const timeFormat = time.RFC3339

// RequireAccount guards a route behind the access gate: it reads the
// Authorization header (with or without a Bearer prefix), authorizes the
// token and stores the resolved account in the request context. Any
// failed check ends the request here.
func (h *Handlers) RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))

		account, err := h.gate.Authorize(r.Context(), raw)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountFromContext retrieves the account resolved by RequireAccount.
func AccountFromContext(r *http.Request) *models.Account {
	if account, ok := r.Context().Value(accountContextKey).(*models.Account); ok {
		return account
	}
	return nil
}
