package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/group-seat-booking/internal/model"
	"github.com/iliyamo/group-seat-booking/internal/repository"
)

type rowKey struct {
	screening uint64
	row       int
}

// fakeStore is an in-memory Store.  Row locks are real mutexes held from
// LockRows until Commit or Rollback, and writes are staged until Commit.
type fakeStore struct {
	mu          sync.Mutex
	screenings  map[uint64]model.Screening
	seats       map[uint64][]model.SeatRecord
	bookings    map[uint64]model.Booking
	nextBooking uint64
	locks       map[rowKey]*sync.Mutex

	// afterList runs after ListSeats took its snapshot.
	afterList func()
	// dropMarks makes MarkBooked report that many fewer updates.
	dropMarks int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		screenings: map[uint64]model.Screening{},
		seats:      map[uint64][]model.SeatRecord{},
		bookings:   map[uint64]model.Booking{},
		locks:      map[rowKey]*sync.Mutex{},
	}
}

// addScreening registers a screening with rows of seats 1..n; booked lists
// seats that start out booked.
func (f *fakeStore) addScreening(id uint64, start time.Time, rowSizes map[int]int, booked ...model.SeatRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.screenings[id] = model.Screening{ID: id, MovieID: id % 3, HallID: 1, StartTime: start}
	taken := map[model.SeatRef]bool{}
	for _, b := range booked {
		taken[b] = true
	}
	var recs []model.SeatRecord
	for row, n := range rowSizes {
		for seat := 1; seat <= n; seat++ {
			st := model.SeatAvailable
			if taken[model.SeatRef{Row: row, Seat: seat}] {
				st = model.SeatBooked
			}
			recs = append(recs, model.SeatRecord{ScreeningID: id, RowIndex: row, SeatNumber: seat, Status: st})
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].RowIndex != recs[j].RowIndex {
			return recs[i].RowIndex < recs[j].RowIndex
		}
		return recs[i].SeatNumber < recs[j].SeatNumber
	})
	f.seats[id] = recs
}

func (f *fakeStore) GetScreening(_ context.Context, id uint64) (*model.Screening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.screenings[id]
	if !ok {
		return nil, repository.ErrScreeningNotFound
	}
	return &s, nil
}

func (f *fakeStore) ListSeats(_ context.Context, screeningID uint64) ([]model.SeatRecord, error) {
	f.mu.Lock()
	out := append([]model.SeatRecord(nil), f.seats[screeningID]...)
	hook := f.afterList
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakeStore) ListScreeningsBetween(_ context.Context, from, to time.Time) ([]model.Screening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Screening
	for _, s := range f.screenings {
		if !s.StartTime.Before(from) && !s.StartTime.After(to) {
			out = append(out, s)
		}
	}
	// deliberately unordered by ID to exercise sorting in the suggester
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) GetBooking(_ context.Context, id uint64) (*model.Booking, []model.SeatRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil, repository.ErrBookingNotFound
	}
	refs := []model.SeatRef{}
	for _, s := range f.seats[b.ScreeningID] {
		if s.BookingID != nil && *s.BookingID == id {
			refs = append(refs, s.Ref())
		}
	}
	return &b, refs, nil
}

func (f *fakeStore) AvailabilitySummary(_ context.Context, screeningID uint64) ([]model.RowAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.RowAvailability{}
	for _, s := range f.seats[screeningID] {
		if len(out) == 0 || out[len(out)-1].RowIndex != s.RowIndex {
			out = append(out, model.RowAvailability{RowIndex: s.RowIndex})
		}
		out[len(out)-1].Total++
		if s.Available() {
			out[len(out)-1].Available++
		}
	}
	return out, nil
}

func (f *fakeStore) Begin(context.Context) (repository.InventoryTx, error) {
	return &fakeTx{store: f}, nil
}

func (f *fakeStore) rowLock(k rowKey) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.locks[k]
	if !ok {
		m = &sync.Mutex{}
		f.locks[k] = m
	}
	return m
}

type fakeTx struct {
	store   *fakeStore
	held    []*sync.Mutex
	booking *model.Booking
	marks   []model.SeatRef
	done    bool
}

func (t *fakeTx) LockRows(_ context.Context, screeningID uint64, rows []int) error {
	sorted := append([]int(nil), rows...)
	sort.Ints(sorted)
	for _, r := range sorted {
		m := t.store.rowLock(rowKey{screeningID, r})
		m.Lock()
		t.held = append(t.held, m)
	}
	return nil
}

func (t *fakeTx) SeatsAt(_ context.Context, screeningID uint64, refs []model.SeatRef) ([]model.SeatRecord, error) {
	want := map[model.SeatRef]bool{}
	for _, r := range refs {
		want[r] = true
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	var out []model.SeatRecord
	for _, s := range t.store.seats[screeningID] {
		if want[s.Ref()] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (t *fakeTx) CreateBooking(_ context.Context, b *model.Booking) error {
	t.store.mu.Lock()
	t.store.nextBooking++
	b.ID = t.store.nextBooking
	t.store.mu.Unlock()
	cp := *b
	t.booking = &cp
	return nil
}

func (t *fakeTx) MarkBooked(_ context.Context, screeningID, _ uint64, refs []model.SeatRef) (int64, error) {
	want := map[model.SeatRef]bool{}
	for _, r := range refs {
		want[r] = true
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	var n int64
	for _, s := range t.store.seats[screeningID] {
		if want[s.Ref()] && s.Available() {
			t.marks = append(t.marks, s.Ref())
			n++
		}
	}
	return n - int64(t.store.dropMarks), nil
}

func (t *fakeTx) Commit() error {
	if t.done {
		return nil
	}
	t.store.mu.Lock()
	if t.booking != nil {
		t.store.bookings[t.booking.ID] = *t.booking
		marked := map[model.SeatRef]bool{}
		for _, r := range t.marks {
			marked[r] = true
		}
		recs := t.store.seats[t.booking.ScreeningID]
		for i := range recs {
			if marked[recs[i].Ref()] {
				id := t.booking.ID
				recs[i].Status = model.SeatBooked
				recs[i].BookingID = &id
			}
		}
	}
	t.store.mu.Unlock()
	t.release()
	return nil
}

func (t *fakeTx) Rollback() error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func (t *fakeTx) release() {
	t.done = true
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
}
