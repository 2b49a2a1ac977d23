package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/group-seat-booking/internal/database"
	"github.com/iliyamo/group-seat-booking/internal/model"
)

// ScreeningRepo manages persistence for screenings.  Seat inventory rows are
// written only once, by Create.
type ScreeningRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewScreeningRepo constructs a ScreeningRepo with the given DB handle.
func NewScreeningRepo(db *sql.DB, dialect database.Dialect) *ScreeningRepo {
	return &ScreeningRepo{db: db, dialect: dialect}
}

const screeningColumns = `id, movie_id, hall_id, start_time, price, created_at`

// Create inserts the screening and materializes one available seat record
// per layout seat of its hall inside the same transaction.  It returns the
// number of seat records created; a hall without layout seats yields
// ErrEmptyLayout and nothing is written.
func (r *ScreeningRepo) Create(ctx context.Context, s *model.Screening) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	s.StartTime = s.StartTime.UTC().Truncate(time.Second)
	s.CreatedAt = time.Now().UTC().Truncate(time.Second)
	const ins = `INSERT INTO screenings (movie_id, hall_id, start_time, price, created_at) VALUES (?, ?, ?, ?, ?)`
	s.Price = s.Price.Round(2)
	id, err := r.dialect.InsertID(ctx, tx, ins, s.MovieID, s.HallID, s.StartTime, s.Price, s.CreatedAt)
	if err != nil {
		return 0, err
	}
	s.ID = id

	// Copy the layout template as-is; the inventory is never regenerated.
	copySeats := r.dialect.Rebind(`INSERT INTO screening_seats (screening_id, row_index, seat_number, status)
		SELECT ?, row_index, seat_number, 'available' FROM layout_seats WHERE hall_id = ?`)
	res, err := tx.ExecContext(ctx, copySeats, s.ID, s.HallID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrEmptyLayout
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return n, nil
}

// GetByID retrieves a screening by its ID.  It returns ErrScreeningNotFound
// if there is no matching row.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
	q := r.dialect.Rebind(`SELECT ` + screeningColumns + ` FROM screenings WHERE id = ?`)
	s, err := scanScreening(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreeningNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListBetween returns every screening whose start time lies within
// [from, to], ordered by start time then ID.
func (r *ScreeningRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.Screening, error) {
	q := r.dialect.Rebind(`SELECT ` + screeningColumns + ` FROM screenings
		WHERE start_time >= ? AND start_time <= ?
		ORDER BY start_time ASC, id ASC`)
	rows, err := r.db.QueryContext(ctx, q, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScreenings(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScreening(row rowScanner) (*model.Screening, error) {
	var s model.Screening
	if err := row.Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartTime, &s.Price, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.StartTime = s.StartTime.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

func collectScreenings(rows *sql.Rows) ([]model.Screening, error) {
	result := []model.Screening{}
	for rows.Next() {
		s, err := scanScreening(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
