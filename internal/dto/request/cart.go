package request

type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
}
