package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/group-seat-booking/internal/database"
	"github.com/iliyamo/group-seat-booking/internal/model"
)

// TheaterRepo manages persistence for theaters.
type TheaterRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewTheaterRepo constructs a TheaterRepo with the given DB handle.
func NewTheaterRepo(db *sql.DB, dialect database.Dialect) *TheaterRepo {
	return &TheaterRepo{db: db, dialect: dialect}
}

// Create inserts a theater and assigns the generated ID.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
	t.CreatedAt = time.Now().UTC().Truncate(time.Second)
	const q = `INSERT INTO theaters (name, location, created_at) VALUES (?, ?, ?)`
	id, err := r.dialect.InsertID(ctx, r.db, q, t.Name, t.Location, t.CreatedAt)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// GetByID retrieves a theater by ID or returns ErrTheaterNotFound.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	q := r.dialect.Rebind(`SELECT id, name, location, created_at FROM theaters WHERE id = ?`)
	var t model.Theater
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Location, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &t, nil
}
