package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/group-seat-booking/internal/database"
	"github.com/iliyamo/group-seat-booking/internal/model"
)

// MovieRepo manages persistence for movies.
type MovieRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB, dialect database.Dialect) *MovieRepo {
	return &MovieRepo{db: db, dialect: dialect}
}

// Create inserts a movie and assigns the generated ID and creation time.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	m.CreatedAt = time.Now().UTC().Truncate(time.Second)
	const q = `INSERT INTO movies (title, duration_minutes, created_at) VALUES (?, ?, ?)`
	id, err := r.dialect.InsertID(ctx, r.db, q, m.Title, m.DurationMinutes, m.CreatedAt)
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// GetByID retrieves a movie by its ID.  It returns ErrMovieNotFound if
// there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	q := r.dialect.Rebind(`SELECT id, title, duration_minutes, created_at FROM movies WHERE id = ?`)
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.DurationMinutes, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all movies ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, title, duration_minutes, created_at FROM movies ORDER BY title, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.Movie{}
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.DurationMinutes, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
