// Package repository defines the SQL data access layer and the error values
// shared across repositories.  The sentinel values allow higher layers such
// as handlers to distinguish between failure scenarios with errors.Is.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every "no such row" error returned from this
// package.  Handlers should translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

var (
	ErrMovieNotFound     = fmt.Errorf("movie %w", ErrNotFound)
	ErrTheaterNotFound   = fmt.Errorf("theater %w", ErrNotFound)
	ErrHallNotFound      = fmt.Errorf("hall %w", ErrNotFound)
	ErrScreeningNotFound = fmt.Errorf("screening %w", ErrNotFound)
	ErrBookingNotFound   = fmt.Errorf("booking %w", ErrNotFound)
)

// ErrEmptyLayout is returned when a screening is scheduled in a hall that has
// no layout seats to copy.
var ErrEmptyLayout = errors.New("hall has no seats")

// ErrInvalidLayout rejects a layout row whose aisle seats fall outside the
// row or whose seat count is below model.MinSeatsPerRow.
var ErrInvalidLayout = errors.New("invalid hall layout")
