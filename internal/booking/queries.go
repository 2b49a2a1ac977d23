package booking

import (
	"context"

	"github.com/iliyamo/group-seat-booking/internal/model"
	"github.com/iliyamo/group-seat-booking/internal/repository"
)

// BookingView is a booking together with the seats it owns.
type BookingView struct {
	Booking model.Booking   `json:"booking"`
	Seats   []model.SeatRef `json:"seats"`
}

// SeatMapRow is one row of a screening's seat map.
type SeatMapRow struct {
	RowIndex int           `json:"row_index"`
	Seats    []SeatMapSeat `json:"seats"`
}

// SeatMapSeat is one seat of a seat map row.
type SeatMapSeat struct {
	SeatNumber int              `json:"seat_number"`
	Status     model.SeatStatus `json:"status"`
}

// Queries serves unlocked reads over the inventory.
type Queries struct {
	store Store
}

func NewQueries(store Store) *Queries {
	return &Queries{store: store}
}

// GetBooking returns the booking and its seats ordered by row and seat.
func (q *Queries) GetBooking(ctx context.Context, id uint64) (*BookingView, error) {
	b, seats, err := q.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookingView{Booking: *b, Seats: seats}, nil
}

// GetSeatMap groups a screening's seats by row.  A screening without
// inventory is reported as not found.
func (q *Queries) GetSeatMap(ctx context.Context, screeningID uint64) ([]SeatMapRow, error) {
	seats, err := q.store.ListSeats(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	if len(seats) == 0 {
		return nil, repository.ErrScreeningNotFound
	}
	var rows []SeatMapRow
	for _, s := range seats {
		if len(rows) == 0 || rows[len(rows)-1].RowIndex != s.RowIndex {
			rows = append(rows, SeatMapRow{RowIndex: s.RowIndex})
		}
		last := &rows[len(rows)-1]
		last.Seats = append(last.Seats, SeatMapSeat{SeatNumber: s.SeatNumber, Status: s.Status})
	}
	return rows, nil
}

// GetAvailabilitySummary returns total and available counts per row.  An
// unknown screening yields an empty summary.
func (q *Queries) GetAvailabilitySummary(ctx context.Context, screeningID uint64) ([]model.RowAvailability, error) {
	return q.store.AvailabilitySummary(ctx, screeningID)
}
