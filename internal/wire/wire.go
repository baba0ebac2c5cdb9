package wire

import (
	"net/http"

	"shopline/internal/adaptor"
	"shopline/internal/data/repository"
	"shopline/internal/notification"
	"shopline/internal/otp"
	"shopline/internal/usecase"
	"shopline/pkg/middleware"
	"shopline/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes services, handlers, and routes.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	otpStore otp.Store,
	producer notification.Publisher,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, otpStore, producer, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth, repo, logger)
	wireUser(r, handler.User, repo, logger)
	wireCatalog(r, handler.Catalog, repo, logger)
	wireCart(r, handler.Cart, repo, logger)
	wireOrder(r, handler.Order, repo, logger)
	wireAdmin(r, handler.Admin, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
