package booking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iliyamo/group-seat-booking/internal/model"
	"github.com/iliyamo/group-seat-booking/internal/queue"
	"github.com/iliyamo/group-seat-booking/internal/repository"
)

type chanPublisher struct {
	events chan queue.BookingConfirmedEvent
	err    error
}

func (p *chanPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.events <- ev
	return p.err
}

func TestRequestBookingCommitsFirstBlock(t *testing.T) {
	store := newFakeStore()
	store.addScreening(1, testStart, map[int]int{1: 10}, model.SeatRef{Row: 1, Seat: 3}, model.SeatRef{Row: 1, Seat: 7})
	pub := &chanPublisher{events: make(chan queue.BookingConfirmedEvent, 1)}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCoordinator(store, zaptest.NewLogger(t), WithPublisher(pub), WithClock(func() time.Time { return fixed }))

	res, err := c.RequestBooking(context.Background(), Request{ScreeningID: 1, GroupSize: 3, GroupName: " book club "})
	require.NoError(t, err)
	want := []model.SeatRef{{Row: 1, Seat: 4}, {Row: 1, Seat: 5}, {Row: 1, Seat: 6}}
	assert.Equal(t, want, res.Seats)
	assert.Equal(t, "book club", res.GroupName)
	assert.Equal(t, fixed, res.CreatedAt)

	view, err := NewQueries(store).GetBooking(context.Background(), res.BookingID)
	require.NoError(t, err)
	assert.Equal(t, want, view.Seats, "read-back returns exactly the committed seats")
	require.NotNil(t, view.Booking.GroupName)
	assert.Equal(t, "book club", *view.Booking.GroupName)

	select {
	case ev := <-pub.events:
		assert.Equal(t, res.BookingID, ev.BookingID)
		assert.Equal(t, want, ev.Seats)
		assert.Equal(t, "2026-03-01T12:00:00Z", ev.ConfirmedAt)
	case <-time.After(2 * time.Second):
		t.Fatal("booking.confirmed was not published")
	}
}

func TestRequestBookingPublishFailureKeepsBooking(t *testing.T) {
	store := newFakeStore()
	store.addScreening(1, testStart, map[int]int{1: 6})
	pub := &chanPublisher{events: make(chan queue.BookingConfirmedEvent, 1), err: errors.New("broker down")}
	// the failure is logged after the test may have finished
	c := NewCoordinator(store, nil, WithPublisher(pub))

	res, err := c.RequestBooking(context.Background(), Request{ScreeningID: 1, GroupSize: 2})
	require.NoError(t, err)
	<-pub.events

	_, seats, err := store.GetBooking(context.Background(), res.BookingID)
	require.NoError(t, err)
	assert.Len(t, seats, 2)
}

func TestRequestBookingRejectsInvalidInput(t *testing.T) {
	store := newFakeStore()
	c := NewCoordinator(store, nil)

	_, err := c.RequestBooking(context.Background(), Request{ScreeningID: 1, GroupSize: 0})
	assert.ErrorIs(t, err, ErrInvalidGroupSize)

	_, err = c.RequestBooking(context.Background(), Request{ScreeningID: 42, GroupSize: 2})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRequestBookingFullyBookedReturnsSuggestions(t *testing.T) {
	store := newFakeStore()
	store.addScreening(1, testStart, map[int]int{1: 6}, fullRow(6)...)
	store.addScreening(2, testStart.Add(2*time.Hour), map[int]int{1: 6}, model.SeatRef{Row: 1, Seat: 2})
	store.addScreening(3, testStart.Add(5*time.Hour), map[int]int{1: 6})
	c := NewCoordinator(store, zaptest.NewLogger(t))

	_, err := c.RequestBooking(context.Background(), Request{ScreeningID: 1, GroupSize: 2})
	require.ErrorIs(t, err, ErrNoAvailableBlock)
	assert.False(t, IsRetryable(err))

	var nb *NoBlockError
	require.ErrorAs(t, err, &nb)
	assert.Equal(t, 2, nb.GroupSize)
	require.Len(t, nb.Suggestions, 1)
	assert.Equal(t, uint64(2), nb.Suggestions[0].ScreeningID)
	assert.Equal(t, Block{Row: 1, Seats: []int{3, 4}}, nb.Suggestions[0].Block)
}

func TestRequestBookingFullyBookedWithoutAlternatives(t *testing.T) {
	store := newFakeStore()
	store.addScreening(1, testStart, map[int]int{1: 6}, fullRow(6)...)
	c := NewCoordinator(store, zaptest.NewLogger(t), WithSuggestionWindow(30*time.Minute))

	_, err := c.RequestBooking(context.Background(), Request{ScreeningID: 1, GroupSize: 2})
	var nb *NoBlockError
	require.ErrorAs(t, err, &nb)
	assert.NotNil(t, nb.Suggestions)
	assert.Empty(t, nb.Suggestions)
}

func TestRequestBookingRaceForLastBlock(t *testing.T) {
	store := newFakeStore()
	// exactly four free seats: 3..6
	store.addScreening(1, testStart, map[int]int{1: 8},
		model.SeatRef{Row: 1, Seat: 1}, model.SeatRef{Row: 1, Seat: 2},
		model.SeatRef{Row: 1, Seat: 7}, model.SeatRef{Row: 1, Seat: 8})

	// both requests must see the free block before either locks it
	var arrived int32
	barrier := make(chan struct{})
	store.afterList = func() {
		if atomic.AddInt32(&arrived, 1) == 2 {
			close(barrier)
		}
		<-barrier
	}

	c := NewCoordinator(store, zaptest.NewLogger(t))
	var wg sync.WaitGroup
	errs := make([]error, 2)
	results := make([]*Result, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.RequestBooking(context.Background(), Request{ScreeningID: 1, GroupSize: 4})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for i := range errs {
		switch {
		case errs[i] == nil:
			ok++
			assert.Equal(t, []model.SeatRef{{Row: 1, Seat: 3}, {Row: 1, Seat: 4}, {Row: 1, Seat: 5}, {Row: 1, Seat: 6}}, results[i].Seats)
		case errors.Is(errs[i], ErrConflict):
			conflicts++
			assert.True(t, IsRetryable(errs[i]))
		default:
			t.Fatalf("unexpected error: %v", errs[i])
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	summary, err := NewQueries(store).GetAvailabilitySummary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []model.RowAvailability{{RowIndex: 1, Total: 8, Available: 0}}, summary)
}

func TestRequestBookingInvariantViolationRollsBack(t *testing.T) {
	store := newFakeStore()
	store.addScreening(1, testStart, map[int]int{1: 6})
	store.dropMarks = 1
	c := NewCoordinator(store, zaptest.NewLogger(t))

	_, err := c.RequestBooking(context.Background(), Request{ScreeningID: 1, GroupSize: 3})
	require.ErrorIs(t, err, ErrInvariantViolation)
	assert.False(t, IsRetryable(err))

	assert.Empty(t, store.bookings)
	for _, s := range store.seats[1] {
		assert.True(t, s.Available())
	}
}

func TestRequestBookingCancelledContextLeavesNoTrace(t *testing.T) {
	store := newFakeStore()
	store.addScreening(1, testStart, map[int]int{1: 6}, fullRow(6)...)
	c := NewCoordinator(store, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.RequestBooking(ctx, Request{ScreeningID: 1, GroupSize: 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.bookings)
}

func TestSeatMapGroupsRows(t *testing.T) {
	store := newFakeStore()
	store.addScreening(1, testStart, map[int]int{1: 6, 2: 7}, model.SeatRef{Row: 2, Seat: 7})
	q := NewQueries(store)

	rows, err := q.GetSeatMap(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].RowIndex)
	assert.Len(t, rows[0].Seats, 6)
	assert.Equal(t, SeatMapSeat{SeatNumber: 7, Status: model.SeatBooked}, rows[1].Seats[6])

	_, err = q.GetSeatMap(context.Background(), 2)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

type gatedPublisher struct {
	release chan struct{}
	mu      sync.Mutex
	sent    []uint64
}

func (p *gatedPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	<-p.release
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, ev.BookingID)
	return nil
}

func TestCloseWaitsForPendingPublishes(t *testing.T) {
	store := newFakeStore()
	store.addScreening(1, testStart, map[int]int{1: 10})
	pub := &gatedPublisher{release: make(chan struct{})}
	c := NewCoordinator(store, nil, WithPublisher(pub))

	res, err := c.RequestBooking(context.Background(), Request{ScreeningID: 1, GroupSize: 2})
	require.NoError(t, err)

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Close(short), context.DeadlineExceeded, "publish still blocked")

	close(pub.release)
	require.NoError(t, c.Close(context.Background()))
	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, []uint64{res.BookingID}, pub.sent)
}

func TestCloseWithoutPublisher(t *testing.T) {
	c := NewCoordinator(newFakeStore(), nil)
	assert.NoError(t, c.Close(context.Background()))
}
