package repository

import (
	"shopline/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Address AddressRepository
	Product ProductRepository
	Cart    CartRepository
	Order   OrderRepository
	Return  ReturnRepository
	Rating  RatingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Address: NewAddressRepository(db, log),
		Product: NewProductRepository(db, log),
		Cart:    NewCartRepository(db, log),
		Order:   NewOrderRepository(db, log),
		Return:  NewReturnRepository(db, log),
		Rating:  NewRatingRepository(db, log),
	}
}
