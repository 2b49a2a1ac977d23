package repository

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/group-seat-booking/internal/model"
)

// ScreeningSearchQuery defines filters & pagination for listing screenings.
// Zero values disable the corresponding filter.
type ScreeningSearchQuery struct {
	MovieID  uint64
	HallID   uint64
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// Search returns one page of screenings matching q ordered by start time,
// together with the total number of matches.
func (r *ScreeningRepo) Search(ctx context.Context, q ScreeningSearchQuery) ([]model.Screening, int64, error) {
	where := []string{}
	args := []any{}

	if q.MovieID != 0 {
		where = append(where, "movie_id = ?")
		args = append(args, q.MovieID)
	}
	if q.HallID != 0 {
		where = append(where, "hall_id = ?")
		args = append(args, q.HallID)
	}
	if !q.From.IsZero() {
		where = append(where, "start_time >= ?")
		args = append(args, q.From.UTC())
	}
	if !q.To.IsZero() {
		where = append(where, "start_time <= ?")
		args = append(args, q.To.UTC())
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := r.dialect.Rebind(`SELECT COUNT(*) FROM screenings WHERE ` + cond)
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	offset := (q.Page - 1) * q.PageSize

	dataSQL := r.dialect.Rebind(`SELECT ` + screeningColumns + ` FROM screenings
		WHERE ` + cond + `
		ORDER BY start_time ASC, id ASC
		LIMIT ? OFFSET ?`)
	rows, err := r.db.QueryContext(ctx, dataSQL, append(args, q.PageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectScreenings(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
