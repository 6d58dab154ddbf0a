package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"vitaleco/m/internal/ledger"
)

// respondLedgerError maps ledger errors onto HTTP statuses. Store failures
// are logged and passed through as 500.
func (h *Handler) respondLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrValidation), errors.Is(err, ledger.ErrExceedsTotal):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("ledger operation failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Any("error", err),
		)
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
