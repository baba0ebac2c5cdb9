package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopline/internal/data/entity"
	"shopline/internal/data/repository"
	"shopline/internal/dto/request"
	"shopline/internal/dto/response"
	"shopline/internal/notification"
	"shopline/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deliveryTimeLayout = "2006-01-02 15:04"

// OutOfStockError carries the full checkout-failure payload, including
// substitute recommendations, up to the handler.
type OutOfStockError struct {
	Payload response.OutOfStockResponse
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("%s is out of stock: requested %d, available %d",
		e.Payload.ProductName, e.Payload.Requested, e.Payload.Available)
}

type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req *request.CheckoutRequest) (*response.OrderResponse, error)
	Pay(ctx context.Context, userID uuid.UUID, req *request.PayOrderRequest) (*response.OrderResponse, error)
	RequestReturn(ctx context.Context, userID uuid.UUID, req *request.ReturnOrderRequest) (*response.ReturnResponse, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)
	GetOrder(ctx context.Context, userID uuid.UUID, orderID string) (*response.OrderResponse, error)
	PaymentMethods() []entity.PaymentMethod

	// Admin surface
	ListAllOrders(ctx context.Context, page request.PaginatedRequest, status, search *string) (*response.PaginatedResponse[response.OrderResponse], error)
	ListOrderItems(ctx context.Context, orderID string) ([]response.OrderItemResponse, error)
	ListReturns(ctx context.Context, page request.PaginatedRequest, status *string) (*response.PaginatedResponse[response.ReturnResponse], error)
}

type orderService struct {
	repo      *repository.Repository
	config    *utils.Config
	producer  notification.Publisher
	recommend RecommendService
	log       *zap.Logger
}

func NewOrderService(
	repo *repository.Repository,
	config *utils.Config,
	producer notification.Publisher,
	recommend RecommendService,
	log *zap.Logger,
) OrderService {
	return &orderService{
		repo:      repo,
		config:    config,
		producer:  producer,
		recommend: recommend,
		log:       log,
	}
}

func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req *request.CheckoutRequest) (*response.OrderResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Checkout validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Parse the delivery time in the configured zone and enforce lead time
	deliveryTime, err := s.parseDeliveryTime(req.PreferredDeliveryTime)
	if err != nil {
		return nil, err
	}

	// 3. Resolve the shipping address
	addressID, err := s.resolveAddress(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	// 4. Place the order in one transaction: lock products, check and
	// decrement stock, freeze prices, clear the cart
	now := time.Now()
	order := &entity.Order{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:               utils.GenerateOrderID(),
		UserID:                userID,
		AddressID:             addressID,
		Status:                entity.OrderStatusConfirmed,
		PreferredDeliveryTime: deliveryTime,
	}

	items, err := s.repo.Order.PlaceOrder(ctx, order)
	if err != nil {
		return nil, s.checkoutError(ctx, userID, err)
	}

	s.log.Info("Order placed",
		zap.String("user_id", userID.String()),
		zap.String("order_id", order.OrderID),
		zap.Float64("total", order.TotalAmount))

	resp := response.OrderToResponse(order, items)
	return &resp, nil
}

func (s *orderService) Pay(ctx context.Context, userID uuid.UUID, req *request.PayOrderRequest) (*response.OrderResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	method := entity.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("validation failed: unknown payment method")
	}

	// 2. Load order and check ownership
	order, err := s.loadOwnOrder(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}

	// 3. Advance confirmed -> paid; the guard in the statement makes a
	// double payment a no-op
	ok, err := s.repo.Order.SetPaid(ctx, order.ID, method)
	if err != nil {
		s.log.Error("Failed to set order paid", zap.Error(err), zap.String("order_id", order.OrderID))
		return nil, fmt.Errorf("failed to process payment")
	}
	if !ok {
		return nil, fmt.Errorf("order already paid")
	}

	order.Status = entity.OrderStatusPaid
	order.PaymentMethod = &method

	// 4. Confirmation mail goes out asynchronously
	user, err := s.repo.User.FindByID(ctx, userID)
	if err == nil && user != nil {
		s.producer.Publish(notification.EventOrderPaid, order.OrderID, notification.OrderPaidPayload{
			OrderID:       order.OrderID,
			Email:         user.Email,
			TotalAmount:   order.TotalAmount,
			PaymentMethod: string(method),
		})
	}

	s.log.Info("Order paid",
		zap.String("order_id", order.OrderID),
		zap.String("payment_method", string(method)))

	resp := response.OrderToResponse(order, nil)
	return &resp, nil
}

func (s *orderService) RequestReturn(ctx context.Context, userID uuid.UUID, req *request.ReturnOrderRequest) (*response.ReturnResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Return request validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Load order and check ownership
	order, err := s.loadOwnOrder(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}

	// 3. Only delivered orders can be returned
	if order.Status != entity.OrderStatusDelivered {
		return nil, fmt.Errorf("order not yet delivered")
	}

	// 4. Create the return request
	ret := &entity.ReturnRequest{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		OrderID:     order.ID,
		Description: req.Description,
		Status:      entity.ReturnStatusPending,
	}
	if err := s.repo.Return.Create(ctx, ret); err != nil {
		s.log.Error("Failed to create return request", zap.Error(err), zap.String("order_id", order.OrderID))
		return nil, fmt.Errorf("failed to create return request")
	}

	// 5. Acknowledge by mail
	user, err := s.repo.User.FindByID(ctx, userID)
	if err == nil && user != nil {
		s.producer.Publish(notification.EventReturnRequested, order.OrderID, notification.ReturnRequestedPayload{
			OrderID:     order.OrderID,
			Email:       user.Email,
			Description: req.Description,
		})
	}

	s.log.Info("Return requested",
		zap.String("order_id", order.OrderID),
		zap.String("user_id", userID.String()))

	resp := response.ReturnToResponse(ret, order.OrderID)
	return &resp, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	orders, err := s.repo.Order.FindByUserID(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list orders", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list orders")
	}

	total, err := s.repo.Order.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count orders", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list orders")
	}

	return response.NewPaginatedResponse(response.OrdersToResponse(orders), page.Page, page.Limit(), total), nil
}

func (s *orderService) GetOrder(ctx context.Context, userID uuid.UUID, orderID string) (*response.OrderResponse, error) {
	order, err := s.loadOwnOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.Order.FindItems(ctx, order.ID)
	if err != nil {
		s.log.Error("Failed to load order items", zap.Error(err), zap.String("order_id", order.OrderID))
		return nil, fmt.Errorf("failed to load order")
	}

	resp := response.OrderToResponse(order, items)
	return &resp, nil
}

func (s *orderService) PaymentMethods() []entity.PaymentMethod {
	return entity.PaymentMethods()
}

func (s *orderService) ListAllOrders(ctx context.Context, page request.PaginatedRequest, status, search *string) (*response.PaginatedResponse[response.OrderResponse], error) {
	orders, err := s.repo.Order.FindAll(ctx, page.Limit(), page.Offset(), status, search)
	if err != nil {
		s.log.Error("Failed to list all orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list orders")
	}

	total, err := s.repo.Order.CountAll(ctx, status, search)
	if err != nil {
		s.log.Error("Failed to count all orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list orders")
	}

	return response.NewPaginatedResponse(response.OrdersToResponse(orders), page.Page, page.Limit(), total), nil
}

// ListOrderItems exposes any order's frozen lines to the admin surface,
// keyed by the public order ID. No ownership check here; the route carries
// the admin middleware.
func (s *orderService) ListOrderItems(ctx context.Context, orderID string) ([]response.OrderItemResponse, error) {
	order, err := s.repo.Order.FindByOrderID(ctx, orderID)
	if err != nil {
		s.log.Error("Failed to find order", zap.Error(err), zap.String("order_id", orderID))
		return nil, fmt.Errorf("failed to find order")
	}
	if order == nil {
		return nil, fmt.Errorf("order not found")
	}

	items, err := s.repo.Order.FindItems(ctx, order.ID)
	if err != nil {
		s.log.Error("Failed to load order items", zap.Error(err), zap.String("order_id", orderID))
		return nil, fmt.Errorf("failed to load order items")
	}

	out := make([]response.OrderItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, response.OrderItemToResponse(item))
	}

	return out, nil
}

func (s *orderService) ListReturns(ctx context.Context, page request.PaginatedRequest, status *string) (*response.PaginatedResponse[response.ReturnResponse], error) {
	returns, err := s.repo.Return.FindAll(ctx, page.Limit(), page.Offset(), status)
	if err != nil {
		s.log.Error("Failed to list return requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list return requests")
	}

	total, err := s.repo.Return.CountAll(ctx, status)
	if err != nil {
		s.log.Error("Failed to count return requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list return requests")
	}

	out := make([]response.ReturnResponse, 0, len(returns))
	for _, ret := range returns {
		publicID := ret.OrderID.String()
		if order, err := s.repo.Order.FindByID(ctx, ret.OrderID); err == nil && order != nil {
			publicID = order.OrderID
		}
		out = append(out, response.ReturnToResponse(ret, publicID))
	}

	return response.NewPaginatedResponse(out, page.Page, page.Limit(), total), nil
}

// ==================== HELPER METHODS ====================

func (s *orderService) parseDeliveryTime(raw string) (time.Time, error) {
	loc, err := time.LoadLocation(s.config.Delivery.Timezone)
	if err != nil {
		s.log.Error("Invalid delivery timezone configured", zap.Error(err), zap.String("timezone", s.config.Delivery.Timezone))
		return time.Time{}, fmt.Errorf("failed to resolve delivery time")
	}

	t, err := time.ParseInLocation(deliveryTimeLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("validation failed: delivery time must be in format %q", deliveryTimeLayout)
	}

	minLead := time.Duration(s.config.Delivery.MinLeadMinutes) * time.Minute
	if t.Before(time.Now().Add(minLead)) {
		return time.Time{}, fmt.Errorf("validation failed: delivery time must be in the future")
	}

	return t, nil
}

func (s *orderService) resolveAddress(ctx context.Context, userID uuid.UUID, req *request.CheckoutRequest) (uuid.UUID, error) {
	switch {
	case req.AddressID != nil && req.Address != nil:
		return uuid.Nil, fmt.Errorf("validation failed: provide either address_id or address, not both")

	case req.AddressID != nil:
		id, err := uuid.Parse(*req.AddressID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("validation failed: invalid address_id")
		}
		address, err := s.repo.Address.FindByID(ctx, id)
		if err != nil {
			s.log.Error("Failed to find address", zap.Error(err), zap.String("address_id", id.String()))
			return uuid.Nil, fmt.Errorf("failed to find address")
		}
		if address == nil || address.UserID != userID {
			return uuid.Nil, fmt.Errorf("address not found")
		}
		return address.ID, nil

	case req.Address != nil:
		if errs := utils.ValidateStruct(req.Address); len(errs) > 0 {
			return uuid.Nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
		}
		address := &entity.Address{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
			},
			UserID:  userID,
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			ZipCode: req.Address.ZipCode,
			Country: req.Address.Country,
		}
		if err := s.repo.Address.Create(ctx, address); err != nil {
			s.log.Error("Failed to save checkout address", zap.Error(err), zap.String("user_id", userID.String()))
			return uuid.Nil, fmt.Errorf("failed to save address")
		}
		return address.ID, nil

	default:
		return uuid.Nil, fmt.Errorf("validation failed: address_id or address required")
	}
}

// checkoutError maps repository failures to service errors; a stock
// shortage gets substitute recommendations attached.
func (s *orderService) checkoutError(ctx context.Context, userID uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrEmptyCart) {
		return fmt.Errorf("cart is empty")
	}

	var stockErr *repository.InsufficientStockError
	if errors.As(err, &stockErr) {
		payload := response.OutOfStockResponse{
			ProductID:   stockErr.ProductID.String(),
			ProductName: stockErr.ProductName,
			Requested:   stockErr.Requested,
			Available:   stockErr.Available,
		}

		recs, _, recErr := s.recommend.RecommendForUser(ctx, userID, []uuid.UUID{stockErr.ProductID})
		if recErr != nil {
			s.log.Warn("Failed to build substitute recommendations", zap.Error(recErr))
		} else {
			payload.Recommendations = response.ProductsToResponse(recs)
		}

		return &OutOfStockError{Payload: payload}
	}

	s.log.Error("Failed to place order", zap.Error(err), zap.String("user_id", userID.String()))
	return fmt.Errorf("failed to place order")
}

func (s *orderService) loadOwnOrder(ctx context.Context, userID uuid.UUID, publicOrderID string) (*entity.Order, error) {
	order, err := s.repo.Order.FindByOrderID(ctx, publicOrderID)
	if err != nil {
		s.log.Error("Failed to find order", zap.Error(err), zap.String("order_id", publicOrderID))
		return nil, fmt.Errorf("failed to find order")
	}
	// Not revealing whether the order exists for someone else
	if order == nil || order.UserID != userID {
		return nil, fmt.Errorf("order not found")
	}
	return order, nil
}
