package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/iliyamo/group-seat-booking/internal/metrics"
	"github.com/iliyamo/group-seat-booking/internal/model"
	"github.com/iliyamo/group-seat-booking/internal/queue"
	"github.com/iliyamo/group-seat-booking/internal/telemetry"
)

// State is a step of the booking state machine.  Terminal states double as
// metric outcome labels.
type State string

const (
	StateSearching      State = "searching"
	StateCandidateFound State = "candidate_found"
	StateValidating     State = "validating"
	StateCommitted      State = "committed"
	StateNoCandidate    State = "no_candidate"
	StateConflict       State = "conflict"
	StateFailed         State = "failed"
)

// Request asks for GroupSize contiguous seats in one screening.
type Request struct {
	ScreeningID uint64
	GroupSize   int
	GroupName   string
}

// Result describes a committed booking.
type Result struct {
	BookingID   uint64          `json:"booking_id"`
	ScreeningID uint64          `json:"screening_id"`
	GroupName   string          `json:"group_name,omitempty"`
	Seats       []model.SeatRef `json:"seats"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Coordinator turns booking requests into committed bookings.  It is the
// only writer of seat status and writes only while the touched rows are
// locked.
type Coordinator struct {
	store     Store
	finder    *Finder
	suggester *Suggester
	publisher EventPublisher
	log       *zap.Logger
	now       func() time.Time

	inflight sync.WaitGroup // pending booking.confirmed publishes
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPublisher announces committed bookings on p.
func WithPublisher(p EventPublisher) Option {
	return func(c *Coordinator) { c.publisher = p }
}

// WithSuggestionWindow overrides DefaultSuggestionWindow.
func WithSuggestionWindow(d time.Duration) Option {
	return func(c *Coordinator) { c.suggester = NewSuggester(c.store, d) }
}

// WithClock replaces time.Now for booking timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator builds a Coordinator over store.
func NewCoordinator(store Store, log *zap.Logger, opts ...Option) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{
		store:     store,
		finder:    NewFinder(store),
		suggester: NewSuggester(store, DefaultSuggestionWindow),
		log:       log.Named("booking"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestBooking finds a block without locks, then claims it inside a
// transaction holding the block's row locks.  Failures:
//   - repository.ErrScreeningNotFound for an unknown screening
//   - *NoBlockError (ErrNoAvailableBlock) with alternatives when no block exists
//   - ErrConflict when the candidate was taken concurrently; retry is safe
//   - ErrInvariantViolation when the seat update count disagrees with validation
func (c *Coordinator) RequestBooking(ctx context.Context, req Request) (res *Result, err error) {
	started := time.Now()
	outcome := StateFailed
	ctx, span := telemetry.StartSpan(ctx, "booking.RequestBooking",
		attribute.Int64("screening_id", int64(req.ScreeningID)),
		attribute.Int("group_size", req.GroupSize),
	)
	defer func() {
		span.SetAttributes(attribute.String("outcome", string(outcome)))
		telemetry.SetSpanError(span, err)
		span.End()
		metrics.ObserveBooking(string(outcome), time.Since(started))
	}()

	if req.GroupSize <= 0 {
		return nil, ErrInvalidGroupSize
	}
	log := c.log.With(zap.Uint64("screening_id", req.ScreeningID), zap.Int("group_size", req.GroupSize))

	screening, err := c.store.GetScreening(ctx, req.ScreeningID)
	if err != nil {
		return nil, err
	}

	log.Debug("state", zap.String("state", string(StateSearching)))
	block, ok, err := c.finder.Find(ctx, screening.ID, req.GroupSize)
	if err != nil {
		return nil, fmt.Errorf("find block: %w", err)
	}
	if !ok {
		outcome = StateNoCandidate
		suggestions, serr := c.suggester.Suggest(ctx, *screening, req.GroupSize)
		if serr != nil {
			outcome = StateFailed
			return nil, fmt.Errorf("suggest alternatives: %w", serr)
		}
		metrics.ObserveSuggestions(len(suggestions))
		log.Info("no contiguous block", zap.Int("suggestions", len(suggestions)))
		return nil, &NoBlockError{ScreeningID: screening.ID, GroupSize: req.GroupSize, Suggestions: suggestions}
	}

	log.Debug("state", zap.String("state", string(StateCandidateFound)), zap.Int("row", block.Row), zap.Ints("seats", block.Seats))
	res, outcome, err = c.claim(ctx, screening.ID, block, strings.TrimSpace(req.GroupName), log)
	if err != nil {
		return nil, err
	}
	log.Info("booking committed", zap.Uint64("booking_id", res.BookingID), zap.Int("row", block.Row), zap.Ints("seats", block.Seats))
	c.publish(res)
	return res, nil
}

// claim validates and writes the candidate block.  Every return path before
// commit rolls the transaction back.
func (c *Coordinator) claim(ctx context.Context, screeningID uint64, block Block, groupName string, log *zap.Logger) (*Result, State, error) {
	ctx, span := telemetry.StartSpan(ctx, "booking.claim", attribute.Int("row", block.Row))
	defer span.End()

	log.Debug("state", zap.String("state", string(StateValidating)))
	tx, err := c.store.Begin(ctx)
	if err != nil {
		return nil, StateFailed, fmt.Errorf("begin booking tx: %w", err)
	}
	committed := false
	var lockedAt time.Time
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
		if !lockedAt.IsZero() {
			metrics.ObserveLockHold(time.Since(lockedAt))
		}
	}()

	refs := block.Refs()
	if err := tx.LockRows(ctx, screeningID, rowsOf(refs)); err != nil {
		return nil, StateFailed, fmt.Errorf("lock rows: %w", err)
	}
	lockedAt = time.Now()

	current, err := tx.SeatsAt(ctx, screeningID, refs)
	if err != nil {
		return nil, StateFailed, fmt.Errorf("re-read seats: %w", err)
	}
	if !allAvailable(current, len(refs)) {
		log.Info("candidate block taken concurrently", zap.Int("row", block.Row), zap.Ints("seats", block.Seats))
		return nil, StateConflict, ErrConflict
	}

	b := &model.Booking{ScreeningID: screeningID, CreatedAt: c.now().UTC().Truncate(time.Second)}
	if groupName != "" {
		b.GroupName = &groupName
	}
	if err := tx.CreateBooking(ctx, b); err != nil {
		return nil, StateFailed, fmt.Errorf("create booking: %w", err)
	}
	n, err := tx.MarkBooked(ctx, screeningID, b.ID, refs)
	if err != nil {
		return nil, StateFailed, fmt.Errorf("mark seats booked: %w", err)
	}
	if n != int64(len(refs)) {
		log.Error("seat update count mismatch", zap.Int64("updated", n), zap.Int("expected", len(refs)))
		return nil, StateFailed, fmt.Errorf("%w: updated %d of %d seats", ErrInvariantViolation, n, len(refs))
	}
	if err := tx.Commit(); err != nil {
		return nil, StateFailed, fmt.Errorf("commit booking: %w", err)
	}
	committed = true

	return &Result{
		BookingID:   b.ID,
		ScreeningID: screeningID,
		GroupName:   groupName,
		Seats:       refs,
		CreatedAt:   b.CreatedAt,
	}, StateCommitted, nil
}

func (c *Coordinator) publish(res *Result) {
	if c.publisher == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   res.BookingID,
		ScreeningID: res.ScreeningID,
		GroupName:   res.GroupName,
		Seats:       res.Seats,
		ConfirmedAt: res.CreatedAt.Format(time.RFC3339),
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
			c.log.Warn("publish booking.confirmed failed", zap.Uint64("booking_id", ev.BookingID), zap.Error(err))
		}
	}()
}

// Close waits for pending booking.confirmed publishes.  It returns ctx.Err()
// if ctx ends first; the remaining publishes keep running.
func (c *Coordinator) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func rowsOf(refs []model.SeatRef) []int {
	seen := map[int]bool{}
	var rows []int
	for _, r := range refs {
		if !seen[r.Row] {
			seen[r.Row] = true
			rows = append(rows, r.Row)
		}
	}
	return rows
}

func allAvailable(seats []model.SeatRecord, want int) bool {
	if len(seats) != want {
		return false
	}
	for _, s := range seats {
		if !s.Available() {
			return false
		}
	}
	return true
}
