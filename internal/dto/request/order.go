package request

// CheckoutRequest turns the whole cart into an order. Exactly one of
// AddressID (an existing saved address) or Address (a new one, saved as a
// side effect) must be provided.
type CheckoutRequest struct {
	AddressID             *string            `json:"address_id,omitempty" validate:"omitempty,uuid4"`
	Address               *AddAddressRequest `json:"address,omitempty"`
	PreferredDeliveryTime string             `json:"preferred_delivery_time" validate:"required"` // "2006-01-02 15:04"
}

type PayOrderRequest struct {
	OrderID       string `json:"order_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=credit_card debit_card upi cash_on_delivery"`
}

type ReturnOrderRequest struct {
	OrderID     string `json:"order_id" validate:"required"`
	Description string `json:"description" validate:"required,min=5,max=2000"`
}
