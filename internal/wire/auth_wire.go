package wire

import (
	"shopline/internal/adaptor"
	"shopline/internal/data/repository"
	"shopline/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/register", authHandler.Register)
	r.Get("/api/verify-email", authHandler.VerifyEmail)
	r.Post("/api/login", authHandler.Login)
	r.Post("/api/login/verify-otp", authHandler.VerifyLoginOTP)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/api/logout", authHandler.Logout)
		r.Post("/api/2fa/setup", authHandler.SetupTwoFactor)
		r.Post("/api/2fa/verify", authHandler.VerifyTwoFactorSetup)
	})
}
