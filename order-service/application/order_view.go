package application

import (
	"time"

	"github.com/draftea/order-system/order-service/domain"
)

// OrderView is the external representation of an order
type OrderView struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func newOrderView(order *domain.Order) *OrderView {
	return &OrderView{
		OrderID:    order.ID.String(),
		CustomerID: order.CustomerID.String(),
		Amount:     order.Amount.Amount,
		Currency:   order.Amount.Currency,
		Status:     string(order.Status),
		CreatedAt:  order.Timestamps.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  order.Timestamps.UpdatedAt.Format(time.RFC3339),
	}
}
