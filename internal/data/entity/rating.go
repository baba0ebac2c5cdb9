package entity

import (
	"github.com/google/uuid"
)

// Rating is one user's 1..5 score for a product, at most one per
// (user, product). The full rating set feeds the recommender.
type Rating struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	ProductID uuid.UUID `db:"product_id"`
	Score     int       `db:"score"`
}
