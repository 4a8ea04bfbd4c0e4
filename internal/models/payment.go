package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID        uuid.UUID `json:"id"`
	Amount    float64   `json:"amount"`
	AccountID uuid.UUID `json:"account_id"`
	CreatedAt time.Time `json:"date"`
}
