package model

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	ID       uuid.UUID `json:"id"`
	Row      int       `json:"row"`
	Seat     int       `json:"seat"`
	Price    int       `json:"price"`
	IssuedAt time.Time `json:"issued_at"`
}
