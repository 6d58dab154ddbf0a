package api

import (
	"net/http"
	"strconv"
	"strings"

	"vitaleco/m/domain"
	"vitaleco/m/internal/ledger"
)

// orderRequest mirrors ledger.OrderInput. paid_amount is accepted so
// clients may echo a full order back, but it is always recomputed.
type orderRequest struct {
	ID          *int64      `json:"id,omitempty"`
	Date        domain.Date `json:"date"`
	Supplier    string      `json:"supplier"`
	TotalAmount float64     `json:"total_amount"`
	PaidAmount  *float64    `json:"paid_amount,omitempty"`
}

func (req orderRequest) input() ledger.OrderInput {
	return ledger.OrderInput{
		ID:          req.ID,
		Date:        req.Date,
		Supplier:    strings.TrimSpace(req.Supplier),
		TotalAmount: req.TotalAmount,
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.ledger.ListOrders(r.Context())
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid purchase order id")
		return
	}
	if expand, _ := strconv.ParseBool(r.URL.Query().Get("expand")); expand {
		detail, err := h.ledger.GetOrderDetail(r.Context(), id)
		if err != nil {
			h.respondLedgerError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, detail)
		return
	}
	po, err := h.ledger.GetOrder(r.Context(), id)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, po)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	in := req.input()
	if raw := strings.TrimSpace(r.URL.Query().Get("id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusBadRequest, "invalid purchase order id")
			return
		}
		in.ID = &id
	}

	po, err := h.ledger.CreateOrder(r.Context(), in)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, po)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid purchase order id")
		return
	}
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	in := req.input()
	in.ID = nil

	po, err := h.ledger.UpdateOrder(r.Context(), id, in)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, po)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid purchase order id")
		return
	}
	if err := h.ledger.DeleteOrder(r.Context(), id); err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "purchase order " + strconv.FormatInt(id, 10) + " deleted"})
}
