package api

import (
	"net/http"
	"strings"

	"vitaleco/m/internal/ledger"
)

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid purchase order id")
		return
	}
	items, err := h.ledger.ListItems(r.Context(), orderID)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	orderID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}
	item, err := h.ledger.GetItem(r.Context(), orderID, itemID)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid purchase order id")
		return
	}
	var in ledger.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Product = strings.TrimSpace(in.Product)

	item, err := h.ledger.AddItem(r.Context(), orderID, in)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	orderID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}
	var in ledger.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Product = strings.TrimSpace(in.Product)

	item, err := h.ledger.UpdateItem(r.Context(), orderID, itemID, in)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	orderID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}
	if err := h.ledger.DeleteItem(r.Context(), orderID, itemID); err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "line item deleted"})
}

func itemPath(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	orderID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid purchase order id")
		return 0, 0, false
	}
	itemID, ok := pathID(r, "itemID")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid line item id")
		return 0, 0, false
	}
	return orderID, itemID, true
}
