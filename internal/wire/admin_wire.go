package wire

import (
	"shopline/internal/adaptor"
	"shopline/internal/data/repository"
	"shopline/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/admin", func(r chi.Router) {
		// Authentication AND admin role
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/products", adminHandler.CreateProduct)
		r.Put("/products/{id}", adminHandler.UpdateProduct)
		r.Get("/orders", adminHandler.GetOrders)
		r.Get("/orders/{orderID}/items", adminHandler.GetOrderItems)
		r.Get("/returns", adminHandler.GetReturns)
		r.Get("/carts", adminHandler.GetCarts)
	})
}
