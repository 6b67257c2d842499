package handlers

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"

	"sched/logger"
)

// contextKey is an unexported type for keys in context
type contextKey struct{}

var txKey = contextKey{}

// WithTx wraps a handler with the per-request persistence session: a
// transaction begun at request start, carried in the context, committed at
// request end, and rolled back if the handler panics. Nothing survives the
// request; there is no cross-request transaction reuse.
func (a *App) WithTx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tx, err := a.DB.Beginx()
		if err != nil {
			logger.Log.Errorw("failed to begin transaction", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		defer func() {
			if rec := recover(); rec != nil {
				tx.Rollback()
				panic(rec)
			}
		}()

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), txKey, tx)))

		if err := tx.Commit(); err != nil {
			logger.Log.Errorw("failed to commit transaction", "error", err)
		}
	})
}

// RequestTx retrieves the request's transaction from the context. Returns
// nil if not present.
func RequestTx(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey).(*sqlx.Tx)
	return tx
}

// SecurityHeaders sets the baseline response headers on every route.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self'")

		next.ServeHTTP(w, r)
	})
}
