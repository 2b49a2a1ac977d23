// Package queue defines message payloads exchanged over the message broker
// and the consumer that records confirmed bookings.
package queue

import "github.com/iliyamo/group-seat-booking/internal/model"

// BookingConfirmedQueue is the durable queue carrying BookingConfirmedEvent.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published after a booking transaction commits.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64          `json:"booking_id"`
	ScreeningID uint64          `json:"screening_id"`
	GroupName   string          `json:"group_name,omitempty"`
	Seats       []model.SeatRef `json:"seats"`
	ConfirmedAt string          `json:"confirmed_at"` // RFC3339, UTC
}
