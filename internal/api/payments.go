package api

import (
	"net/http"

	"vitaleco/m/internal/ledger"
)

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid purchase order id")
		return
	}
	payments, err := h.ledger.ListPayments(r.Context(), orderID)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	orderID, paymentID, ok := paymentPath(w, r)
	if !ok {
		return
	}
	payment, err := h.ledger.GetPayment(r.Context(), orderID, paymentID)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid purchase order id")
		return
	}
	var in ledger.PaymentInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := h.ledger.AddPayment(r.Context(), orderID, in)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	orderID, paymentID, ok := paymentPath(w, r)
	if !ok {
		return
	}
	var in ledger.PaymentInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := h.ledger.UpdatePayment(r.Context(), orderID, paymentID, in)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	orderID, paymentID, ok := paymentPath(w, r)
	if !ok {
		return
	}
	if err := h.ledger.DeletePayment(r.Context(), orderID, paymentID); err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "payment deleted"})
}

func paymentPath(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	orderID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid purchase order id")
		return 0, 0, false
	}
	paymentID, ok := pathID(r, "paymentID")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid payment id")
		return 0, 0, false
	}
	return orderID, paymentID, true
}
