package entity

import (
	"github.com/google/uuid"
)

// CartItem holds one line per (user, product). Adding the same product again
// increments quantity instead of creating a second row.
type CartItem struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	ProductID uuid.UUID `db:"product_id"`
	Quantity  int       `db:"quantity"` // always >= 1; reaching zero deletes the row
}
