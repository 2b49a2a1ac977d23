package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/group-seat-booking/internal/database"
	"github.com/iliyamo/group-seat-booking/internal/model"
)

// HallRepo manages halls and their layout templates.
type HallRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB, dialect database.Dialect) *HallRepo {
	return &HallRepo{db: db, dialect: dialect}
}

// CreateWithLayout inserts a hall together with one layout seat per seat
// number of every row.  Seats listed in a row's AisleSeats are flagged as
// aisle seats.  Both writes share one transaction so a hall never exists
// without its layout.
func (r *HallRepo) CreateWithLayout(ctx context.Context, h *model.Hall, rows []model.LayoutRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	h.CreatedAt = time.Now().UTC().Truncate(time.Second)
	const q = `INSERT INTO halls (theater_id, name, created_at) VALUES (?, ?, ?)`
	id, err := r.dialect.InsertID(ctx, tx, q, h.TheaterID, h.Name, h.CreatedAt)
	if err != nil {
		return err
	}
	h.ID = id

	for _, row := range rows {
		if err := r.insertRowTx(ctx, tx, h.ID, row); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// insertRowTx writes one layout row as a single multi-row INSERT.
func (r *HallRepo) insertRowTx(ctx context.Context, tx *sql.Tx, hallID uint64, row model.LayoutRow) error {
	if row.SeatCount < model.MinSeatsPerRow {
		return fmt.Errorf("%w: row %d has %d seats", ErrInvalidLayout, row.RowIndex, row.SeatCount)
	}
	aisle := make(map[int]bool, len(row.AisleSeats))
	for _, n := range row.AisleSeats {
		if n < 1 || n > row.SeatCount {
			return fmt.Errorf("%w: aisle seat %d outside row %d", ErrInvalidLayout, n, row.RowIndex)
		}
		aisle[n] = true
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO layout_seats (hall_id, row_index, seat_number, is_aisle) VALUES ")
	args := make([]any, 0, row.SeatCount*4)
	for n := 1; n <= row.SeatCount; n++ {
		if n > 1 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?)")
		args = append(args, hallID, row.RowIndex, n, aisle[n])
	}
	_, err := tx.ExecContext(ctx, r.dialect.Rebind(sb.String()), args...)
	return err
}

// GetByID retrieves a hall by ID or returns ErrHallNotFound.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	q := r.dialect.Rebind(`SELECT id, theater_id, name, created_at FROM halls WHERE id = ?`)
	var h model.Hall
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.TheaterID, &h.Name, &h.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// Layout returns the layout template of a hall ordered by row then seat
// number.  An unknown hall yields an empty slice.
func (r *HallRepo) Layout(ctx context.Context, hallID uint64) ([]model.LayoutSeat, error) {
	q := r.dialect.Rebind(`SELECT id, hall_id, row_index, seat_number, is_aisle
		FROM layout_seats WHERE hall_id = ? ORDER BY row_index, seat_number`)
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []model.LayoutSeat
	for rows.Next() {
		var s model.LayoutSeat
		if err := rows.Scan(&s.ID, &s.HallID, &s.RowIndex, &s.SeatNumber, &s.IsAisle); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
