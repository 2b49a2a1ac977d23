package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/group-seat-booking/internal/database"
	"github.com/iliyamo/group-seat-booking/internal/model"
)

// InventoryRepo reads and writes the per-screening seat inventory and the
// bookings that claim it.  Reads are unlocked; writes go through Begin.
type InventoryRepo struct {
	db         *sql.DB
	dialect    database.Dialect
	screenings *ScreeningRepo
}

// NewInventoryRepo constructs an InventoryRepo with the given DB handle.
func NewInventoryRepo(db *sql.DB, dialect database.Dialect) *InventoryRepo {
	return &InventoryRepo{db: db, dialect: dialect, screenings: NewScreeningRepo(db, dialect)}
}

// GetScreening returns the screening or ErrScreeningNotFound.
func (r *InventoryRepo) GetScreening(ctx context.Context, id uint64) (*model.Screening, error) {
	return r.screenings.GetByID(ctx, id)
}

// ListScreeningsBetween returns screenings starting within [from, to]
// ordered by start time.
func (r *InventoryRepo) ListScreeningsBetween(ctx context.Context, from, to time.Time) ([]model.Screening, error) {
	return r.screenings.ListBetween(ctx, from, to)
}

// ListSeats returns every seat record of a screening ordered by row then
// seat number.  A screening without inventory yields an empty slice.
func (r *InventoryRepo) ListSeats(ctx context.Context, screeningID uint64) ([]model.SeatRecord, error) {
	q := r.dialect.Rebind(`SELECT id, screening_id, row_index, seat_number, status, booking_id
		FROM screening_seats WHERE screening_id = ? ORDER BY row_index, seat_number`)
	rows, err := r.db.QueryContext(ctx, q, screeningID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeatRecords(rows)
}

// AvailabilitySummary counts total and available seats per row.
func (r *InventoryRepo) AvailabilitySummary(ctx context.Context, screeningID uint64) ([]model.RowAvailability, error) {
	q := r.dialect.Rebind(`SELECT row_index,
			COUNT(*) AS total,
			SUM(CASE WHEN status = 'available' THEN 1 ELSE 0 END) AS available
		FROM screening_seats
		WHERE screening_id = ?
		GROUP BY row_index
		ORDER BY row_index`)
	rows, err := r.db.QueryContext(ctx, q, screeningID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.RowAvailability{}
	for rows.Next() {
		var a model.RowAvailability
		if err := rows.Scan(&a.RowIndex, &a.Total, &a.Available); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetBooking returns a booking and the seats it owns ordered by row then
// seat number.  It returns ErrBookingNotFound for an unknown ID.
func (r *InventoryRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, []model.SeatRef, error) {
	q := r.dialect.Rebind(`SELECT id, screening_id, group_name, created_at FROM bookings WHERE id = ?`)
	var b model.Booking
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.ScreeningID, &b.GroupName, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}
	b.CreatedAt = b.CreatedAt.UTC()

	sq := r.dialect.Rebind(`SELECT row_index, seat_number FROM screening_seats
		WHERE booking_id = ? ORDER BY row_index, seat_number`)
	rows, err := r.db.QueryContext(ctx, sq, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	seats := []model.SeatRef{}
	for rows.Next() {
		var ref model.SeatRef
		if err := rows.Scan(&ref.Row, &ref.Seat); err != nil {
			return nil, nil, err
		}
		seats = append(seats, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return &b, seats, nil
}

// Begin opens a booking transaction.  On SQLite the connection is opened
// with BEGIN IMMEDIATE, which takes the database write lock up front.
func (r *InventoryRepo) Begin(ctx context.Context) (InventoryTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlInventoryTx{tx: tx, dialect: r.dialect}, nil
}
