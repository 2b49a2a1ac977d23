package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/group-seat-booking/internal/config"
	"github.com/iliyamo/group-seat-booking/internal/database"
	"github.com/iliyamo/group-seat-booking/internal/model"
)

type fixture struct {
	db          *sql.DB
	movies      *MovieRepo
	theaters    *TheaterRepo
	halls       *HallRepo
	screenings  *ScreeningRepo
	inventory   *InventoryRepo
	movieID     uint64
	hallID      uint64
	emptyHallID uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, dialect, err := database.Open(ctx, config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "repo.db"),
		MaxOpenConns: 8,
		MaxIdleConns: 8,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db, dialect))

	f := &fixture{
		db:         db,
		movies:     NewMovieRepo(db, dialect),
		theaters:   NewTheaterRepo(db, dialect),
		halls:      NewHallRepo(db, dialect),
		screenings: NewScreeningRepo(db, dialect),
		inventory:  NewInventoryRepo(db, dialect),
	}

	m := &model.Movie{Title: "Arrival", DurationMinutes: 116}
	require.NoError(t, f.movies.Create(ctx, m))
	f.movieID = m.ID

	th := &model.Theater{Name: "Downtown"}
	require.NoError(t, f.theaters.Create(ctx, th))

	h := &model.Hall{TheaterID: th.ID, Name: "Hall 1"}
	require.NoError(t, f.halls.CreateWithLayout(ctx, h, []model.LayoutRow{
		{RowIndex: 1, SeatCount: 8, AisleSeats: []int{1, 8}},
		{RowIndex: 2, SeatCount: 6},
	}))
	f.hallID = h.ID

	empty := &model.Hall{TheaterID: th.ID, Name: "Empty"}
	require.NoError(t, f.halls.CreateWithLayout(ctx, empty, nil))
	f.emptyHallID = empty.ID
	return f
}

func (f *fixture) screening(t *testing.T, start time.Time) *model.Screening {
	t.Helper()
	s := &model.Screening{MovieID: f.movieID, HallID: f.hallID, StartTime: start, Price: decimal.RequireFromString("9.50")}
	_, err := f.screenings.Create(context.Background(), s)
	require.NoError(t, err)
	return s
}

func TestHallLayout(t *testing.T) {
	f := newFixture(t)

	seats, err := f.halls.Layout(context.Background(), f.hallID)
	require.NoError(t, err)
	require.Len(t, seats, 14)
	assert.Equal(t, 1, seats[0].RowIndex)
	assert.Equal(t, 1, seats[0].SeatNumber)
	assert.True(t, seats[0].IsAisle)
	assert.False(t, seats[1].IsAisle)
	assert.True(t, seats[7].IsAisle)
	assert.Equal(t, 2, seats[8].RowIndex)

	_, err = f.halls.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScreeningCreateMaterializesInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := &model.Screening{MovieID: f.movieID, HallID: f.hallID, StartTime: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC), Price: decimal.NewFromInt(12)}
	n, err := f.screenings.Create(ctx, s)
	require.NoError(t, err)
	assert.EqualValues(t, 14, n)

	got, err := f.screenings.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, s.StartTime.Equal(got.StartTime))
	assert.True(t, decimal.NewFromInt(12).Equal(got.Price))

	seats, err := f.inventory.ListSeats(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, seats, 14)
	for _, seat := range seats {
		assert.True(t, seat.Available())
		assert.Nil(t, seat.BookingID)
	}

	_, err = f.screenings.GetByID(ctx, 12345)
	assert.ErrorIs(t, err, ErrScreeningNotFound)
}

func TestScreeningCreateRejectsEmptyLayout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := &model.Screening{MovieID: f.movieID, HallID: f.emptyHallID, StartTime: time.Now(), Price: decimal.NewFromInt(5)}
	_, err := f.screenings.Create(ctx, s)
	assert.ErrorIs(t, err, ErrEmptyLayout)

	items, total, err := f.screenings.Search(ctx, ScreeningSearchQuery{HallID: f.emptyHallID})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestListBetweenIsInclusiveAndOrdered(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	late := f.screening(t, base.Add(3*time.Hour))
	early := f.screening(t, base.Add(-3*time.Hour))
	mid := f.screening(t, base)
	f.screening(t, base.Add(3*time.Hour+time.Minute))

	got, err := f.screenings.ListBetween(context.Background(), base.Add(-3*time.Hour), base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uint64{early.ID, mid.ID, late.ID}, []uint64{got[0].ID, got[1].ID, got[2].ID})
}

func TestSearchPaginates(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		f.screening(t, base.Add(time.Duration(i)*time.Hour))
	}

	items, total, err := f.screenings.Search(context.Background(), ScreeningSearchQuery{MovieID: f.movieID, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, items, 2)
	assert.True(t, items[0].StartTime.Equal(base.Add(2*time.Hour)))
}

func TestInventoryTxBooksSeatsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.screening(t, time.Date(2026, 5, 2, 20, 0, 0, 0, time.UTC))
	refs := []model.SeatRef{{Row: 1, Seat: 3}, {Row: 1, Seat: 4}, {Row: 1, Seat: 5}}

	tx, err := f.inventory.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.LockRows(ctx, s.ID, []int{1}))

	seats, err := tx.SeatsAt(ctx, s.ID, refs)
	require.NoError(t, err)
	require.Len(t, seats, 3)

	name := "chess club"
	b := &model.Booking{ScreeningID: s.ID, GroupName: &name, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, tx.CreateBooking(ctx, b))
	n, err := tx.MarkBooked(ctx, s.ID, b.ID, refs)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	require.NoError(t, tx.Commit())

	// the status guard makes a second claim a no-op
	tx2, err := f.inventory.Begin(ctx)
	require.NoError(t, err)
	n, err = tx2.MarkBooked(ctx, s.ID, b.ID+1, refs)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, tx2.Rollback())

	gotBooking, gotSeats, err := f.inventory.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, gotBooking.ScreeningID)
	require.NotNil(t, gotBooking.GroupName)
	assert.Equal(t, name, *gotBooking.GroupName)
	assert.Equal(t, refs, gotSeats)

	summary, err := f.inventory.AvailabilitySummary(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.RowAvailability{
		{RowIndex: 1, Total: 8, Available: 5},
		{RowIndex: 2, Total: 6, Available: 6},
	}, summary)

	_, _, err = f.inventory.GetBooking(ctx, b.ID+100)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestSeatsAtOmitsMissingSeats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.screening(t, time.Date(2026, 5, 3, 20, 0, 0, 0, time.UTC))

	tx, err := f.inventory.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	seats, err := tx.SeatsAt(ctx, s.ID, []model.SeatRef{{Row: 2, Seat: 6}, {Row: 2, Seat: 7}, {Row: 9, Seat: 1}})
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, model.SeatRef{Row: 2, Seat: 6}, seats[0].Ref())
}

func TestCreateWithLayoutRejectsAisleOutsideRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var before int
	require.NoError(t, f.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM halls`).Scan(&before))

	hall, err := f.halls.GetByID(ctx, f.hallID)
	require.NoError(t, err)

	h := &model.Hall{TheaterID: hall.TheaterID, Name: "Crooked"}
	err = f.halls.CreateWithLayout(ctx, h, []model.LayoutRow{
		{RowIndex: 1, SeatCount: 6, AisleSeats: []int{1}},
		{RowIndex: 2, SeatCount: 6, AisleSeats: []int{9}},
	})
	assert.ErrorIs(t, err, ErrInvalidLayout)

	err = f.halls.CreateWithLayout(ctx, &model.Hall{TheaterID: hall.TheaterID, Name: "Narrow"}, []model.LayoutRow{
		{RowIndex: 1, SeatCount: 5},
	})
	assert.ErrorIs(t, err, ErrInvalidLayout)

	var after int
	require.NoError(t, f.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM halls`).Scan(&after))
	assert.Equal(t, before, after, "rejected layouts leave no hall behind")
}
