package model

import "time"

// Hall is an auditorium inside a theater.  Its seat grid is described by
// LayoutSeat rows and is copied into every screening scheduled in it.
type Hall struct {
	ID        uint64    `json:"id"`         // halls.id
	TheaterID uint64    `json:"theater_id"` // halls.theater_id
	Name      string    `json:"name"`       // halls.name
	CreatedAt time.Time `json:"created_at"` // halls.created_at
}

// MinSeatsPerRow is the smallest row a hall layout may declare.
const MinSeatsPerRow = 6

// LayoutRow describes one row of a hall when the layout is authored.
type LayoutRow struct {
	RowIndex   int   `json:"row_index" validate:"min=1"`
	SeatCount  int   `json:"seat_count" validate:"min=6"`
	AisleSeats []int `json:"aisle_seats,omitempty" validate:"dive,min=1"`
}
