package booking

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/group-seat-booking/internal/model"
)

// DefaultSuggestionWindow is the half-width of the search window around the
// requested screening's start time.
const DefaultSuggestionWindow = 180 * time.Minute

// Suggestion is an alternative screening that currently has a free block.
type Suggestion struct {
	ScreeningID uint64    `json:"screening_id"`
	StartTime   time.Time `json:"start_time"`
	Block
}

// Suggester searches nearby screenings for a feasible block.  It never
// locks or writes; its answers are advisory.
type Suggester struct {
	screenings ScreeningLister
	finder     *Finder
	window     time.Duration
}

// NewSuggester returns a Suggester.  A non-positive window selects
// DefaultSuggestionWindow.
func NewSuggester(screenings ScreeningLister, window time.Duration) *Suggester {
	if window <= 0 {
		window = DefaultSuggestionWindow
	}
	return &Suggester{screenings: screenings, finder: NewFinder(screenings), window: window}
}

// Window returns the configured half-width.
func (s *Suggester) Window() time.Duration { return s.window }

// Suggest lists every screening starting within the window around the
// given one, bounds inclusive, that has a block of size k.  Candidates are
// not filtered by movie, and the given screening itself is considered too.
// Results are ordered by start time, then screening ID.
func (s *Suggester) Suggest(ctx context.Context, around model.Screening, k int) ([]Suggestion, error) {
	from := around.StartTime.Add(-s.window)
	to := around.StartTime.Add(s.window)
	candidates, err := s.screenings.ListScreeningsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].StartTime.Equal(candidates[j].StartTime) {
			return candidates[i].StartTime.Before(candidates[j].StartTime)
		}
		return candidates[i].ID < candidates[j].ID
	})

	out := []Suggestion{}
	for _, sc := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		block, ok, err := s.finder.Find(ctx, sc.ID, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, Suggestion{ScreeningID: sc.ID, StartTime: sc.StartTime, Block: block})
		}
	}
	return out, nil
}
