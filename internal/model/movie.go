package model

import "time"

// Movie is the title shown by a screening.
type Movie struct {
	ID              uint64    `json:"id"`               // movies.id
	Title           string    `json:"title"`            // movies.title
	DurationMinutes int       `json:"duration_minutes"` // movies.duration_minutes
	CreatedAt       time.Time `json:"created_at"`       // movies.created_at
}
