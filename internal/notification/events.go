// Package notification carries every outbound message through Kafka: the
// request path only publishes an event, a consumer worker pool does the
// actual sending.
package notification

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventUserRegistered  = "user.registered"
	EventOTPIssued       = "otp.issued"
	EventOrderPaid       = "order.paid"
	EventDeliveryDue     = "order.delivery_due"
	EventReturnRequested = "return.requested"
)

type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

// ---- Payload types per event ----

type UserRegisteredPayload struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	VerifyLink string `json:"verify_link"`
}

type OTPIssuedPayload struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"` // login | setup
}

type OrderPaidPayload struct {
	OrderID       string  `json:"order_id"`
	Email         string  `json:"email"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentMethod string  `json:"payment_method"`
}

type DeliveryDuePayload struct {
	ID      string `json:"id"` // internal order UUID
	OrderID string `json:"order_id"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type ReturnRequestedPayload struct {
	OrderID     string `json:"order_id"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// UnwrapPayload decodes an envelope payload into its concrete type
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
