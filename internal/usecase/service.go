package usecase

import (
	"shopline/internal/data/repository"
	"shopline/internal/notification"
	"shopline/internal/otp"
	"shopline/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	User      UserService
	Catalog   CatalogService
	Cart      CartService
	Order     OrderService
	Recommend RecommendService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	otpStore otp.Store,
	producer notification.Publisher,
	log *zap.Logger,
) *Service {
	recommend := NewRecommendService(repo, config, log)

	return &Service{
		Auth:      NewAuthService(repo, config, otpStore, producer, log),
		User:      NewUserService(repo, log),
		Catalog:   NewCatalogService(repo, log),
		Cart:      NewCartService(repo, log),
		Order:     NewOrderService(repo, config, producer, recommend, log),
		Recommend: recommend,
	}
}
