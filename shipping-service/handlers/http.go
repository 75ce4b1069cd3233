package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/draftea/order-system/shipping-service/application"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

// ShippingHandlers contains shipping HTTP handlers
type ShippingHandlers struct {
	createShipment *application.CreateShipment
	listShipments  *application.ListShipments
}

// NewShippingHandlers creates new shipping handlers
func NewShippingHandlers(
	createShipment *application.CreateShipment,
	listShipments *application.ListShipments,
) *ShippingHandlers {
	return &ShippingHandlers{
		createShipment: createShipment,
		listShipments:  listShipments,
	}
}

// CreateShipment handles the forward saga action. Shipping is the last step
// and has no compensating counterpart.
func (h *ShippingHandlers) CreateShipment(w http.ResponseWriter, r *http.Request) {
	var cmd application.CreateShipmentCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.createShipment.Execute(r.Context(), &cmd)
	if err != nil {
		if errors.Is(err, application.ErrCarrierUnavailable) {
			writeError(w, http.StatusServiceUnavailable, err, cmd.OrderID)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// ListShipments handles shipment listing requests
func (h *ShippingHandlers) ListShipments(w http.ResponseWriter, r *http.Request) {
	response, err := h.listShipments.Execute(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// RegisterRoutes registers shipping routes
func (h *ShippingHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/shipments", func(r chi.Router) {
		r.Post("/", h.CreateShipment)
		r.Get("/", h.ListShipments)
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
