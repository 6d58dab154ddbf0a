package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.ListInventory(r.Context())
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) getInventory(w http.ResponseWriter, r *http.Request) {
	product := chi.URLParam(r, "product")
	// chi routes on RawPath when it is set, leaving the param escaped.
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(product)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid product name")
			return
		}
		product = decoded
	}
	entry, err := h.ledger.GetInventory(r.Context(), product)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}
