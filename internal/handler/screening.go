package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/group-seat-booking/internal/model"
	"github.com/iliyamo/group-seat-booking/internal/repository"
)

type createScreeningRequest struct {
	MovieID   uint64          `json:"movie_id" validate:"required"`
	HallID    uint64          `json:"hall_id" validate:"required"`
	StartTime string          `json:"start_time" validate:"required"` // RFC3339
	Price     decimal.Decimal `json:"price"`
}

// CreateScreening handles POST /v1/screenings.  The hall layout is copied
// into the screening's seat inventory in the same transaction.
func (h *CatalogHandler) CreateScreening(c echo.Context) error {
	var body createScreeningRequest
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(body.StartTime))
	if err != nil {
		return badRequest(c, "start_time must be RFC3339")
	}
	if body.Price.IsNegative() {
		return badRequest(c, "price must not be negative")
	}

	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, body.MovieID); err != nil {
		return writeError(c, h.Log, err)
	}
	if _, err := h.Halls.GetByID(ctx, body.HallID); err != nil {
		return writeError(c, h.Log, err)
	}

	s := &model.Screening{MovieID: body.MovieID, HallID: body.HallID, StartTime: start, Price: body.Price}
	seats, err := h.Screenings.Create(ctx, s)
	if err != nil {
		if errors.Is(err, repository.ErrEmptyLayout) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"screening": s, "seats": seats})
}

// GetScreening handles GET /v1/screenings/:id.
func (h *CatalogHandler) GetScreening(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid screening id")
	}
	s, err := h.Screenings.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, s)
}

// ListScreenings handles GET /v1/screenings with optional movie_id, hall_id,
// from, to (RFC3339), page and page_size filters.
func (h *CatalogHandler) ListScreenings(c echo.Context) error {
	var q repository.ScreeningSearchQuery
	var err error
	if q.MovieID, err = uintQuery(c, "movie_id"); err != nil {
		return badRequest(c, "invalid movie_id")
	}
	if q.HallID, err = uintQuery(c, "hall_id"); err != nil {
		return badRequest(c, "invalid hall_id")
	}
	if q.From, err = timeQuery(c, "from"); err != nil {
		return badRequest(c, "from must be RFC3339")
	}
	if q.To, err = timeQuery(c, "to"); err != nil {
		return badRequest(c, "to must be RFC3339")
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}

	items, total, err := h.Screenings.Search(c.Request().Context(), q)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	if items == nil {
		items = []model.Screening{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":     items,
		"total":     total,
		"page":      q.Page,
		"page_size": q.PageSize,
	})
}

func uintQuery(c echo.Context, name string) (uint64, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return 0, nil
	}
	return strconv.ParseUint(v, 10, 64)
}

func timeQuery(c echo.Context, name string) (time.Time, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}
