package model

import "time"

// Booking is a group reservation of contiguous seats within one row of a
// screening.  It is created atomically with the seat status changes and is
// immutable afterwards.
type Booking struct {
	ID          uint64    `json:"id"`                   // bookings.id
	ScreeningID uint64    `json:"screening_id"`         // bookings.screening_id
	GroupName   *string   `json:"group_name,omitempty"` // bookings.group_name (nullable)
	CreatedAt   time.Time `json:"created_at"`           // bookings.created_at
}
