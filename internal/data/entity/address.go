package entity

import (
	"fmt"

	"github.com/google/uuid"
)

type Address struct {
	BaseSimple
	UserID  uuid.UUID `db:"user_id"`
	Street  string    `db:"street"`
	City    string    `db:"city"`
	State   string    `db:"state"`
	ZipCode string    `db:"zip_code"`
	Country string    `db:"country"`
}

func (a *Address) Summary() string {
	return fmt.Sprintf("%s, %s, %s", a.Street, a.City, a.Country)
}
