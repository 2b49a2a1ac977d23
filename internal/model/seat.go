package model

// LayoutSeat is one physical seat of a hall's layout template.  Layout seats
// are never mutated once the hall exists.
//
// Fields:
//
//	ID         – primary key identifier.
//	HallID     – hall to which this seat belongs.
//	RowIndex   – 1-based row position, front to back.
//	SeatNumber – 1-based position within the row, left to right.
//	IsAisle    – whether the seat borders an aisle.
type LayoutSeat struct {
	ID         uint64 `json:"id"`          // layout_seats.id
	HallID     uint64 `json:"hall_id"`     // layout_seats.hall_id
	RowIndex   int    `json:"row_index"`   // layout_seats.row_index
	SeatNumber int    `json:"seat_number"` // layout_seats.seat_number
	IsAisle    bool   `json:"is_aisle"`    // layout_seats.is_aisle
}

// SeatRef addresses a seat inside a screening by row and seat number.
type SeatRef struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}
