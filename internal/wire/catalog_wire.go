package wire

import (
	"shopline/internal/adaptor"
	"shopline/internal/data/repository"
	"shopline/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Search is registered before {id} so "search" is not parsed as an ID
	r.Get("/api/products", catalogHandler.GetProducts)
	r.Get("/api/products/search", catalogHandler.SearchProducts)
	r.Get("/api/products/{id}", catalogHandler.GetProduct)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/api/products/{id}/rate", catalogHandler.RateProduct)
		r.Get("/api/recommendations", catalogHandler.GetRecommendations)
	})
}
