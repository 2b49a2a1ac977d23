package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGroupSize rejects requests for fewer than one seat.
	ErrInvalidGroupSize = errors.New("group size must be at least 1")
	// ErrNoAvailableBlock means the screening has no contiguous block of
	// the requested size.  It is returned wrapped in *NoBlockError.
	ErrNoAvailableBlock = errors.New("cannot find contiguous seats in requested screening")
	// ErrConflict means the candidate block was claimed by a concurrent
	// booking between the unlocked search and validation.  Retrying the
	// whole request is safe.
	ErrConflict = errors.New("some seats became unavailable while booking; please retry or choose alternatives")
	// ErrInvariantViolation signals that the seat update touched a
	// different number of records than validated.  It indicates a bug.
	ErrInvariantViolation = errors.New("seat inventory invariant violated")
)

// NoBlockError carries the alternatives found for a request that could not
// be seated.  errors.Is(err, ErrNoAvailableBlock) holds for it.
type NoBlockError struct {
	ScreeningID uint64
	GroupSize   int
	Suggestions []Suggestion
}

func (e *NoBlockError) Error() string {
	return fmt.Sprintf("%s (screening %d, group size %d, %d alternatives)",
		ErrNoAvailableBlock, e.ScreeningID, e.GroupSize, len(e.Suggestions))
}

func (e *NoBlockError) Is(target error) bool { return target == ErrNoAvailableBlock }

// IsRetryable reports whether the caller may repeat the request unchanged.
func IsRetryable(err error) bool { return errors.Is(err, ErrConflict) }
