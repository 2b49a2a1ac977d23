package model

// SeatStatus is the availability of a seat inside one screening.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
)

// SeatRecord is the per-screening inventory entry for a single seat.  A
// record moves from available to booked exactly once and is never released.
//
// Fields:
//
//	ID          – primary key identifier.
//	ScreeningID – owning screening.
//	RowIndex    – row of the seat (>= 1).
//	SeatNumber  – seat number within the row (>= 1).
//	Status      – available or booked.
//	BookingID   – booking that claimed the seat, nil while available.
type SeatRecord struct {
	ID          uint64     `json:"id"`                   // screening_seats.id
	ScreeningID uint64     `json:"screening_id"`         // screening_seats.screening_id
	RowIndex    int        `json:"row_index"`            // screening_seats.row_index
	SeatNumber  int        `json:"seat_number"`          // screening_seats.seat_number
	Status      SeatStatus `json:"status"`               // screening_seats.status
	BookingID   *uint64    `json:"booking_id,omitempty"` // screening_seats.booking_id (nullable)
}

// Available reports whether the seat can still be claimed.
func (s SeatRecord) Available() bool { return s.Status == SeatAvailable }

// Ref returns the row/seat address of the record.
func (s SeatRecord) Ref() SeatRef { return SeatRef{Row: s.RowIndex, Seat: s.SeatNumber} }

// RowAvailability summarizes one row of a screening.
type RowAvailability struct {
	RowIndex  int `json:"row_index"`
	Total     int `json:"total"`
	Available int `json:"available"`
}
