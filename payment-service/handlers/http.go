package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/draftea/order-system/payment-service/application"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

// PaymentHandlers contains payment HTTP handlers
type PaymentHandlers struct {
	authorizePayment *application.AuthorizePayment
	refundPayment    *application.RefundPayment
	listPayments     *application.ListPayments
}

// NewPaymentHandlers creates new payment handlers
func NewPaymentHandlers(
	authorizePayment *application.AuthorizePayment,
	refundPayment *application.RefundPayment,
	listPayments *application.ListPayments,
) *PaymentHandlers {
	return &PaymentHandlers{
		authorizePayment: authorizePayment,
		refundPayment:    refundPayment,
		listPayments:     listPayments,
	}
}

// AuthorizePayment handles the forward saga action
func (h *PaymentHandlers) AuthorizePayment(w http.ResponseWriter, r *http.Request) {
	var cmd application.AuthorizePaymentCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.authorizePayment.Execute(r.Context(), &cmd)
	if err != nil {
		if errors.Is(err, application.ErrPaymentDeclined) {
			writeError(w, http.StatusPaymentRequired, err, cmd.OrderID)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// RefundPayment handles the compensating saga action. It succeeds even when
// no authorized payment exists for the order.
func (h *PaymentHandlers) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var cmd application.RefundPaymentCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.refundPayment.Execute(r.Context(), &cmd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// ListPayments handles payment listing requests
func (h *PaymentHandlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	response, err := h.listPayments.Execute(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// RegisterRoutes registers payment routes
func (h *PaymentHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Post("/", h.AuthorizePayment)
		r.Post("/refund", h.RefundPayment)
		r.Get("/", h.ListPayments)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error, orderID string) {
	writeJSON(w, status, map[string]string{
		"error":    err.Error(),
		"order_id": orderID,
	})
}
