package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/iliyamo/group-seat-booking/internal/database"
	"github.com/iliyamo/group-seat-booking/internal/model"
)

// InventoryTx is a booking transaction over the seat inventory.  Every seat
// write happens through it while the touched rows are locked.
type InventoryTx interface {
	// LockRows takes an exclusive lock over every seat record of the given
	// rows of a screening and holds it until Commit or Rollback.
	LockRows(ctx context.Context, screeningID uint64, rows []int) error
	// SeatsAt re-reads exactly the addressed seats with a locking read so
	// the latest committed state is seen.  Missing seats are absent from
	// the result.
	SeatsAt(ctx context.Context, screeningID uint64, refs []model.SeatRef) ([]model.SeatRecord, error)
	// CreateBooking inserts the booking row and assigns its ID.
	CreateBooking(ctx context.Context, b *model.Booking) error
	// MarkBooked flips the addressed seats from available to booked and
	// returns the number of records changed.
	MarkBooked(ctx context.Context, screeningID, bookingID uint64, refs []model.SeatRef) (int64, error)
	Commit() error
	Rollback() error
}

type sqlInventoryTx struct {
	tx      *sql.Tx
	dialect database.Dialect
}

func (t *sqlInventoryTx) LockRows(ctx context.Context, screeningID uint64, rows []int) error {
	if len(rows) == 0 {
		return nil
	}
	args := make([]any, 0, len(rows)+1)
	args = append(args, screeningID)
	for _, r := range rows {
		args = append(args, r)
	}
	q := `SELECT id FROM screening_seats
		WHERE screening_id = ? AND row_index IN (` + database.Placeholders(len(rows)) + `)
		ORDER BY row_index, seat_number` + t.dialect.LockClause()
	res, err := t.tx.QueryContext(ctx, t.dialect.Rebind(q), args...)
	if err != nil {
		return err
	}
	defer res.Close()
	for res.Next() {
	}
	return res.Err()
}

func (t *sqlInventoryTx) SeatsAt(ctx context.Context, screeningID uint64, refs []model.SeatRef) ([]model.SeatRecord, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	cond, condArgs := seatRefCondition(refs)
	q := `SELECT id, screening_id, row_index, seat_number, status, booking_id FROM screening_seats
		WHERE screening_id = ? AND (` + cond + `)
		ORDER BY row_index, seat_number` + t.dialect.LockClause()
	rows, err := t.tx.QueryContext(ctx, t.dialect.Rebind(q), append([]any{screeningID}, condArgs...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeatRecords(rows)
}

func (t *sqlInventoryTx) CreateBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (screening_id, group_name, created_at) VALUES (?, ?, ?)`
	id, err := t.dialect.InsertID(ctx, t.tx, q, b.ScreeningID, b.GroupName, b.CreatedAt)
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (t *sqlInventoryTx) MarkBooked(ctx context.Context, screeningID, bookingID uint64, refs []model.SeatRef) (int64, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	cond, condArgs := seatRefCondition(refs)
	q := `UPDATE screening_seats SET status = 'booked', booking_id = ?
		WHERE screening_id = ? AND status = 'available' AND (` + cond + `)`
	args := append([]any{bookingID, screeningID}, condArgs...)
	res, err := t.tx.ExecContext(ctx, t.dialect.Rebind(q), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *sqlInventoryTx) Commit() error   { return t.tx.Commit() }
func (t *sqlInventoryTx) Rollback() error { return t.tx.Rollback() }

// seatRefCondition renders refs as one predicate per row:
// (row_index = ? AND seat_number IN (?, ...)) OR ...
func seatRefCondition(refs []model.SeatRef) (string, []any) {
	byRow := map[int][]int{}
	for _, ref := range refs {
		byRow[ref.Row] = append(byRow[ref.Row], ref.Seat)
	}
	rowsIdx := make([]int, 0, len(byRow))
	for r := range byRow {
		rowsIdx = append(rowsIdx, r)
	}
	sort.Ints(rowsIdx)

	parts := make([]string, 0, len(rowsIdx))
	args := make([]any, 0, len(refs)+len(rowsIdx))
	for _, r := range rowsIdx {
		seats := byRow[r]
		parts = append(parts, "(row_index = ? AND seat_number IN ("+database.Placeholders(len(seats))+"))")
		args = append(args, r)
		for _, s := range seats {
			args = append(args, s)
		}
	}
	return strings.Join(parts, " OR "), args
}

func collectSeatRecords(rows *sql.Rows) ([]model.SeatRecord, error) {
	var result []model.SeatRecord
	for rows.Next() {
		var s model.SeatRecord
		if err := rows.Scan(&s.ID, &s.ScreeningID, &s.RowIndex, &s.SeatNumber, &s.Status, &s.BookingID); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
