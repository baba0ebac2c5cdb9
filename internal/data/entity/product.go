package entity

type Product struct {
	BaseNoDelete
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Stock       int     `db:"stock"` // never negative; the product row is removed when it hits zero
}
