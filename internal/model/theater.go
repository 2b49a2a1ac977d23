package model

import "time"

// Theater is a venue that contains one or more halls.
type Theater struct {
	ID        uint64    `json:"id"`                 // theaters.id
	Name      string    `json:"name"`               // theaters.name
	Location  *string   `json:"location,omitempty"` // theaters.location (nullable)
	CreatedAt time.Time `json:"created_at"`         // theaters.created_at
}
