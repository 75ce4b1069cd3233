package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/draftea/order-system/inventory-service/application"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

// InventoryHandlers contains inventory HTTP handlers
type InventoryHandlers struct {
	reserveStock     *application.ReserveStock
	releaseStock     *application.ReleaseStock
	listReservations *application.ListReservations
}

// NewInventoryHandlers creates new inventory handlers
func NewInventoryHandlers(
	reserveStock *application.ReserveStock,
	releaseStock *application.ReleaseStock,
	listReservations *application.ListReservations,
) *InventoryHandlers {
	return &InventoryHandlers{
		reserveStock:     reserveStock,
		releaseStock:     releaseStock,
		listReservations: listReservations,
	}
}

// ReserveStock handles the forward saga action
func (h *InventoryHandlers) ReserveStock(w http.ResponseWriter, r *http.Request) {
	var cmd application.ReserveStockCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.reserveStock.Execute(r.Context(), &cmd)
	if err != nil {
		if errors.Is(err, application.ErrOutOfStock) {
			writeError(w, http.StatusConflict, err, cmd.OrderID)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// ReleaseStock handles the compensating saga action. It succeeds even when no
// active reservation exists for the order.
func (h *InventoryHandlers) ReleaseStock(w http.ResponseWriter, r *http.Request) {
	var cmd application.ReleaseStockCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.releaseStock.Execute(r.Context(), &cmd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// ListReservations handles reservation listing requests
func (h *InventoryHandlers) ListReservations(w http.ResponseWriter, r *http.Request) {
	response, err := h.listReservations.Execute(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/reservations", func(r chi.Router) {
		r.Post("/", h.ReserveStock)
		r.Post("/release", h.ReleaseStock)
		r.Get("/", h.ListReservations)
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
