package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopline/internal/data/entity"
	"shopline/internal/data/repository"
	"shopline/internal/dto/request"
	"shopline/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	svc       OrderService
	repo      *repository.Repository
	orders    *fakeOrderRepo
	addresses *fakeAddressRepo
	pub       *fakePublisher
	rec       *fakeRecommender
	userID    uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	repo := newTestRepository()
	orders := repo.Order.(*fakeOrderRepo)
	addresses := repo.Address.(*fakeAddressRepo)
	pub := &fakePublisher{}
	rec := &fakeRecommender{source: RecommendSourceRandom}

	userID := uuid.New()
	user := &entity.User{
		Base:     entity.Base{ID: userID},
		Username: "alice",
		Email:    "alice@example.com",
		Verified: true,
		IsActive: true,
	}
	require.NoError(t, repo.User.Create(context.Background(), user))

	svc := NewOrderService(repo, newTestConfig(), pub, rec, zap.NewNop())

	return &orderFixture{
		svc:       svc,
		repo:      repo,
		orders:    orders,
		addresses: addresses,
		pub:       pub,
		rec:       rec,
		userID:    userID,
	}
}

func futureDeliveryTime() string {
	return time.Now().UTC().Add(2 * time.Hour).Format(deliveryTimeLayout)
}

func (f *orderFixture) savedAddress(t *testing.T, userID uuid.UUID) *entity.Address {
	t.Helper()
	address := &entity.Address{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     userID,
		Street:     "1 Main St",
		City:       "Mumbai",
		State:      "MH",
		ZipCode:    "400001",
		Country:    "India",
	}
	require.NoError(t, f.addresses.Create(context.Background(), address))
	return address
}

func TestCheckoutWithSavedAddress(t *testing.T) {
	f := newOrderFixture(t)
	address := f.savedAddress(t, f.userID)

	f.orders.placeTotal = 123.45
	f.orders.placeItems = []*entity.OrderItem{
		{ProductName: "Widget", Price: 123.45, Quantity: 1},
	}

	id := address.ID.String()
	resp, err := f.svc.Checkout(context.Background(), f.userID, &request.CheckoutRequest{
		AddressID:             &id,
		PreferredDeliveryTime: futureDeliveryTime(),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, resp.Status)
	assert.Equal(t, 123.45, resp.TotalAmount)
	assert.Len(t, resp.Items, 1)
	assert.NotEmpty(t, resp.OrderID)

	require.NotNil(t, f.orders.placedOrder)
	assert.Equal(t, address.ID, f.orders.placedOrder.AddressID)
}

func TestCheckoutWithNewAddress(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.svc.Checkout(context.Background(), f.userID, &request.CheckoutRequest{
		Address: &request.AddAddressRequest{
			Street:  "2 Side St",
			City:    "Delhi",
			State:   "DL",
			ZipCode: "110001",
			Country: "India",
		},
		PreferredDeliveryTime: futureDeliveryTime(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.OrderID)

	// The new address was saved for the user
	saved, err := f.addresses.FindByUserID(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestCheckoutRejectsForeignAddress(t *testing.T) {
	f := newOrderFixture(t)
	other := f.savedAddress(t, uuid.New())

	id := other.ID.String()
	_, err := f.svc.Checkout(context.Background(), f.userID, &request.CheckoutRequest{
		AddressID:             &id,
		PreferredDeliveryTime: futureDeliveryTime(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address not found")
}

func TestCheckoutRejectsPastDeliveryTime(t *testing.T) {
	f := newOrderFixture(t)
	address := f.savedAddress(t, f.userID)

	id := address.ID.String()
	_, err := f.svc.Checkout(context.Background(), f.userID, &request.CheckoutRequest{
		AddressID:             &id,
		PreferredDeliveryTime: time.Now().UTC().Add(-time.Hour).Format(deliveryTimeLayout),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be in the future")

	// Nothing was placed
	assert.Nil(t, f.orders.placedOrder)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newOrderFixture(t)
	address := f.savedAddress(t, f.userID)
	f.orders.placeErr = repository.ErrEmptyCart

	id := address.ID.String()
	_, err := f.svc.Checkout(context.Background(), f.userID, &request.CheckoutRequest{
		AddressID:             &id,
		PreferredDeliveryTime: futureDeliveryTime(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart is empty")
}

func TestCheckoutOutOfStockCarriesRecommendations(t *testing.T) {
	f := newOrderFixture(t)
	address := f.savedAddress(t, f.userID)

	shortProduct := uuid.New()
	f.orders.placeErr = &repository.InsufficientStockError{
		ProductID:   shortProduct,
		ProductName: "Widget",
		Requested:   3,
		Available:   1,
	}
	f.rec.products = []*entity.Product{
		{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Name: "Gadget", Price: 9.99, Stock: 5},
	}
	f.rec.source = RecommendSourcePersonalized

	id := address.ID.String()
	_, err := f.svc.Checkout(context.Background(), f.userID, &request.CheckoutRequest{
		AddressID:             &id,
		PreferredDeliveryTime: futureDeliveryTime(),
	})
	require.Error(t, err)

	var stockErr *OutOfStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Widget", stockErr.Payload.ProductName)
	assert.Equal(t, 3, stockErr.Payload.Requested)
	assert.Equal(t, 1, stockErr.Payload.Available)
	require.Len(t, stockErr.Payload.Recommendations, 1)
	assert.Equal(t, "Gadget", stockErr.Payload.Recommendations[0].Name)
}

func placeTestOrder(t *testing.T, f *orderFixture) *entity.Order {
	t.Helper()
	address := f.savedAddress(t, f.userID)
	id := address.ID.String()
	resp, err := f.svc.Checkout(context.Background(), f.userID, &request.CheckoutRequest{
		AddressID:             &id,
		PreferredDeliveryTime: futureDeliveryTime(),
	})
	require.NoError(t, err)
	order, err := f.orders.FindByOrderID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	return order
}

func TestPay(t *testing.T) {
	f := newOrderFixture(t)
	order := placeTestOrder(t, f)

	resp, err := f.svc.Pay(context.Background(), f.userID, &request.PayOrderRequest{
		OrderID:       order.OrderID,
		PaymentMethod: "upi",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPaid, resp.Status)
	require.NotNil(t, resp.PaymentMethod)
	assert.Equal(t, entity.PaymentUPI, *resp.PaymentMethod)

	events := f.pub.byType(notification.EventOrderPaid)
	require.Len(t, events, 1)
	payload := events[0].payload.(notification.OrderPaidPayload)
	assert.Equal(t, order.OrderID, payload.OrderID)
	assert.Equal(t, "alice@example.com", payload.Email)
}

func TestPayTwice(t *testing.T) {
	f := newOrderFixture(t)
	order := placeTestOrder(t, f)

	_, err := f.svc.Pay(context.Background(), f.userID, &request.PayOrderRequest{
		OrderID:       order.OrderID,
		PaymentMethod: "upi",
	})
	require.NoError(t, err)

	// The guard reports the order is no longer payable
	f.orders.setPaidOK = false
	_, err = f.svc.Pay(context.Background(), f.userID, &request.PayOrderRequest{
		OrderID:       order.OrderID,
		PaymentMethod: "upi",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already paid")
}

func TestPayForeignOrder(t *testing.T) {
	f := newOrderFixture(t)
	order := placeTestOrder(t, f)

	_, err := f.svc.Pay(context.Background(), uuid.New(), &request.PayOrderRequest{
		OrderID:       order.OrderID,
		PaymentMethod: "upi",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order not found")
}

func TestReturnRequiresDeliveredOrder(t *testing.T) {
	f := newOrderFixture(t)
	order := placeTestOrder(t, f)

	_, err := f.svc.RequestReturn(context.Background(), f.userID, &request.ReturnOrderRequest{
		OrderID:     order.OrderID,
		Description: "arrived damaged",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not yet delivered")
}

func TestReturnDeliveredOrder(t *testing.T) {
	f := newOrderFixture(t)
	order := placeTestOrder(t, f)
	order.Status = entity.OrderStatusDelivered

	resp, err := f.svc.RequestReturn(context.Background(), f.userID, &request.ReturnOrderRequest{
		OrderID:     order.OrderID,
		Description: "arrived damaged",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusPending, resp.Status)
	assert.Equal(t, order.OrderID, resp.OrderID)

	events := f.pub.byType(notification.EventReturnRequested)
	require.Len(t, events, 1)
}

func TestGetOrderHidesForeignOrders(t *testing.T) {
	f := newOrderFixture(t)
	order := placeTestOrder(t, f)

	_, err := f.svc.GetOrder(context.Background(), uuid.New(), order.OrderID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order not found")

	resp, err := f.svc.GetOrder(context.Background(), f.userID, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, resp.OrderID)
}

func TestListOrderItemsSpansAllUsers(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.placeItems = []*entity.OrderItem{
		{
			BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			ProductID:   uuid.New(),
			ProductName: "Widget",
			Price:       19.99,
			Quantity:    2,
		},
	}
	order := placeTestOrder(t, f)

	// No owner in the call: the admin surface sees every order's lines
	items, err := f.svc.ListOrderItems(context.Background(), order.OrderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].ProductName)
	assert.Equal(t, 19.99, items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 39.98, items[0].Subtotal)

	_, err = f.svc.ListOrderItems(context.Background(), "ORD-UNKNOWN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order not found")
}
