package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusAdvancesForwardOnly(t *testing.T) {
	assert.True(t, OrderStatusConfirmed.CanAdvanceTo(OrderStatusPaid))
	assert.True(t, OrderStatusPaid.CanAdvanceTo(OrderStatusDelivered))

	// No skipping and no going back
	assert.False(t, OrderStatusConfirmed.CanAdvanceTo(OrderStatusDelivered))
	assert.False(t, OrderStatusPaid.CanAdvanceTo(OrderStatusConfirmed))
	assert.False(t, OrderStatusDelivered.CanAdvanceTo(OrderStatusPaid))
	assert.False(t, OrderStatusDelivered.CanAdvanceTo(OrderStatusConfirmed))
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range PaymentMethods() {
		assert.True(t, m.Valid(), string(m))
	}
	assert.False(t, PaymentMethod("bitcoin").Valid())
	assert.False(t, PaymentMethod("").Valid())
}
