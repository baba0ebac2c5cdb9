package response

import (
	"shopline/internal/data/entity"
)

type CartItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total float64            `json:"total"`
}

// CartToResponse joins cart lines with their product rows. Lines whose
// product disappeared from the catalog are skipped.
func CartToResponse(items []*entity.CartItem, products map[string]*entity.Product) *CartResponse {
	resp := &CartResponse{Items: make([]CartItemResponse, 0, len(items))}

	for _, item := range items {
		p, ok := products[item.ProductID.String()]
		if !ok {
			continue
		}
		line := CartItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: p.Name,
			Price:       p.Price,
			Quantity:    item.Quantity,
			Subtotal:    p.Price * float64(item.Quantity),
		}
		resp.Items = append(resp.Items, line)
		resp.Total += line.Subtotal
	}

	return resp
}
