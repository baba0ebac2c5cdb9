package wire

import (
	"shopline/internal/adaptor"
	"shopline/internal/data/repository"
	"shopline/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCart(
	r chi.Router,
	cartHandler *adaptor.CartHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/api/cart", cartHandler.GetCart)
		r.Post("/api/cart", cartHandler.AddItem)
		r.Put("/api/cart/increase", cartHandler.IncreaseItem)
		r.Put("/api/cart/decrease", cartHandler.DecreaseItem)
	})
}
