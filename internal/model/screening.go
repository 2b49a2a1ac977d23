package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Screening is a scheduled showing of a movie in a hall.  Its seat
// inventory is materialized from the hall layout when the screening is
// created and is never regenerated.
type Screening struct {
	ID        uint64          `json:"id"`         // screenings.id
	MovieID   uint64          `json:"movie_id"`   // screenings.movie_id
	HallID    uint64          `json:"hall_id"`    // screenings.hall_id
	StartTime time.Time       `json:"start_time"` // screenings.start_time (UTC)
	Price     decimal.Decimal `json:"price"`      // screenings.price
	CreatedAt time.Time       `json:"created_at"` // screenings.created_at
}
