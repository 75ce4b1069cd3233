package application

import (
	"context"

	"github.com/draftea/order-system/order-service/domain"
	"github.com/pkg/errors"
)

// ListOrdersResponse represents the response for listing orders
type ListOrdersResponse struct {
	Orders []*OrderView `json:"orders"`
}

// ListOrders use case, newest orders first
type ListOrders struct {
	orderRepository domain.OrderRepository
}

// NewListOrders creates a new ListOrders use case
func NewListOrders(orderRepository domain.OrderRepository) *ListOrders {
	return &ListOrders{orderRepository: orderRepository}
}

// Execute executes the list orders use case
func (uc *ListOrders) Execute(ctx context.Context) (*ListOrdersResponse, error) {
	orders, err := uc.orderRepository.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	views := make([]*OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, newOrderView(order))
	}

	return &ListOrdersResponse{Orders: views}, nil
}
