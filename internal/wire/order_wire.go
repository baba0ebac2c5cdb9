package wire

import (
	"shopline/internal/adaptor"
	"shopline/internal/data/repository"
	"shopline/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrder(
	r chi.Router,
	orderHandler *adaptor.OrderHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/payment-methods", orderHandler.GetPaymentMethods)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/api/checkout", orderHandler.Checkout)
		r.Post("/api/pay", orderHandler.Pay)
		r.Get("/api/orders", orderHandler.GetOrders)
		r.Get("/api/orders/{orderID}", orderHandler.GetOrder)
		r.Post("/api/returns", orderHandler.RequestReturn)
	})
}
