package response

import (
	"time"

	"shopline/internal/data/entity"
)

type OrderItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

type OrderResponse struct {
	ID                    string                `json:"id"`
	OrderID               string                `json:"order_id"`
	Status                entity.OrderStatus    `json:"status"`
	TotalAmount           float64               `json:"total_amount"`
	PaymentMethod         *entity.PaymentMethod `json:"payment_method,omitempty"`
	PreferredDeliveryTime time.Time             `json:"preferred_delivery_time"`
	Items                 []OrderItemResponse   `json:"items,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
}

// OutOfStockResponse is the checkout failure payload: the short line plus
// alternative products the user might want instead.
type OutOfStockResponse struct {
	ProductID       string            `json:"product_id"`
	ProductName     string            `json:"product_name"`
	Requested       int               `json:"requested"`
	Available       int               `json:"available"`
	Recommendations []ProductResponse `json:"recommendations,omitempty"`
}

type ReturnResponse struct {
	ID          string              `json:"id"`
	OrderID     string              `json:"order_id"`
	Description string              `json:"description"`
	Status      entity.ReturnStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Helper converters
func OrderItemToResponse(item *entity.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ProductID:   item.ProductID.String(),
		ProductName: item.ProductName,
		Price:       item.Price,
		Quantity:    item.Quantity,
		Subtotal:    item.Price * float64(item.Quantity),
	}
}

func OrderToResponse(order *entity.Order, items []*entity.OrderItem) OrderResponse {
	resp := OrderResponse{
		ID:                    order.ID.String(),
		OrderID:               order.OrderID,
		Status:                order.Status,
		TotalAmount:           order.TotalAmount,
		PaymentMethod:         order.PaymentMethod,
		PreferredDeliveryTime: order.PreferredDeliveryTime,
		CreatedAt:             order.CreatedAt,
	}

	for _, item := range items {
		resp.Items = append(resp.Items, OrderItemToResponse(item))
	}

	return resp
}

func OrdersToResponse(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderToResponse(o, nil))
	}
	return out
}

func ReturnToResponse(ret *entity.ReturnRequest, publicOrderID string) ReturnResponse {
	return ReturnResponse{
		ID:          ret.ID.String(),
		OrderID:     publicOrderID,
		Description: ret.Description,
		Status:      ret.Status,
		CreatedAt:   ret.CreatedAt,
	}
}
