// Package booking allocates contiguous seat blocks for groups and commits
// them atomically against concurrent requests.
package booking

import (
	"context"
	"time"

	"github.com/iliyamo/group-seat-booking/internal/model"
	"github.com/iliyamo/group-seat-booking/internal/queue"
	"github.com/iliyamo/group-seat-booking/internal/repository"
)

// SeatLister reads a screening's inventory without locking.
type SeatLister interface {
	ListSeats(ctx context.Context, screeningID uint64) ([]model.SeatRecord, error)
}

// ScreeningLister finds screenings by start time.
type ScreeningLister interface {
	SeatLister
	ListScreeningsBetween(ctx context.Context, from, to time.Time) ([]model.Screening, error)
}

// Store is the transactional inventory behind the booking core.
// *repository.InventoryRepo implements it.
type Store interface {
	ScreeningLister
	GetScreening(ctx context.Context, id uint64) (*model.Screening, error)
	Begin(ctx context.Context) (repository.InventoryTx, error)
	GetBooking(ctx context.Context, id uint64) (*model.Booking, []model.SeatRef, error)
	AvailabilitySummary(ctx context.Context, screeningID uint64) ([]model.RowAvailability, error)
}

// EventPublisher announces committed bookings.  Publishing happens after
// commit and its failure never undoes a booking.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
}

var _ Store = (*repository.InventoryRepo)(nil)
