package booking

import (
	"context"
	"sort"

	"github.com/iliyamo/group-seat-booking/internal/model"
)

// Block is a run of consecutive seat numbers in one row.
type Block struct {
	Row   int   `json:"row"`
	Seats []int `json:"seats"`
}

// Refs expands the block into seat addresses.
func (b Block) Refs() []model.SeatRef {
	refs := make([]model.SeatRef, len(b.Seats))
	for i, n := range b.Seats {
		refs[i] = model.SeatRef{Row: b.Row, Seat: n}
	}
	return refs
}

// FindBlock returns the first run of k available, strictly consecutive seat
// numbers.  Rows are scanned in ascending order and each row left to right.
// Rows with fewer than k seats in total are skipped.  The result depends
// only on the snapshot, never on the order of seats.
func FindBlock(seats []model.SeatRecord, k int) (Block, bool) {
	if k <= 0 {
		return Block{}, false
	}
	type rowState struct {
		total     int
		available []int
	}
	rows := map[int]*rowState{}
	for _, s := range seats {
		rs, ok := rows[s.RowIndex]
		if !ok {
			rs = &rowState{}
			rows[s.RowIndex] = rs
		}
		rs.total++
		if s.Available() {
			rs.available = append(rs.available, s.SeatNumber)
		}
	}

	order := make([]int, 0, len(rows))
	for r := range rows {
		order = append(order, r)
	}
	sort.Ints(order)

	for _, r := range order {
		rs := rows[r]
		if rs.total < k || len(rs.available) < k {
			continue
		}
		avail := rs.available
		sort.Ints(avail)
		start := 0
		for i := range avail {
			if i > 0 && avail[i] != avail[i-1]+1 {
				start = i
			}
			if i-start+1 == k {
				return Block{Row: r, Seats: append([]int(nil), avail[start:i+1]...)}, true
			}
		}
	}
	return Block{}, false
}

// Finder runs FindBlock against the live inventory of a screening.  The
// result is a candidate only; nothing is locked.
type Finder struct {
	seats SeatLister
}

// NewFinder returns a Finder reading from seats.
func NewFinder(seats SeatLister) *Finder {
	return &Finder{seats: seats}
}

// Find loads the inventory and returns its first block of size k.  A
// screening without inventory yields no block and no error.
func (f *Finder) Find(ctx context.Context, screeningID uint64, k int) (Block, bool, error) {
	if k <= 0 {
		return Block{}, false, ErrInvalidGroupSize
	}
	seats, err := f.seats.ListSeats(ctx, screeningID)
	if err != nil {
		return Block{}, false, err
	}
	b, ok := FindBlock(seats, k)
	return b, ok, nil
}
