package entity

import (
	"github.com/google/uuid"
)

type ReturnStatus string

const (
	ReturnStatusPending ReturnStatus = "pending"
)

type ReturnRequest struct {
	BaseSimple
	OrderID     uuid.UUID    `db:"order_id"`
	Description string       `db:"description"`
	Status      ReturnStatus `db:"status"`
}
