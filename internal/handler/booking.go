package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/group-seat-booking/internal/booking"
	"github.com/iliyamo/group-seat-booking/internal/model"
)

// BookingService is the write side of group booking.
type BookingService interface {
	RequestBooking(ctx context.Context, req booking.Request) (*booking.Result, error)
}

// BookingReader is the unlocked read side.
type BookingReader interface {
	GetBooking(ctx context.Context, id uint64) (*booking.BookingView, error)
	GetSeatMap(ctx context.Context, screeningID uint64) ([]booking.SeatMapRow, error)
	GetAvailabilitySummary(ctx context.Context, screeningID uint64) ([]model.RowAvailability, error)
}

// BookingHandler exposes group bookings, seat maps and availability.
type BookingHandler struct {
	Bookings BookingService
	Queries  BookingReader
	Log      *zap.Logger
}

func NewBookingHandler(bookings BookingService, queries BookingReader, log *zap.Logger) *BookingHandler {
	if bookings == nil || queries == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{Bookings: bookings, Queries: queries, Log: log}
}

type createBookingRequest struct {
	ScreeningID uint64 `json:"screening_id" validate:"required"`
	GroupSize   int    `json:"group_size" validate:"min=1"`
	GroupName   string `json:"group_name" validate:"max=255"`
}

// CreateBooking handles POST /v1/bookings.  On success it returns 201 with
// the booked seats.  A full screening yields 409 with alternative
// screenings; a lost race yields 409 with retryable set.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var body createBookingRequest
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	res, err := h.Bookings.RequestBooking(c.Request().Context(), booking.Request{
		ScreeningID: body.ScreeningID,
		GroupSize:   body.GroupSize,
		GroupName:   body.GroupName,
	})
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	view, err := h.Queries.GetBooking(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, view)
}

type seatMapRowView struct {
	booking.SeatMapRow
	Label string `json:"label"`
}

// GetSeatMap handles GET /v1/screenings/:id/seats.
func (h *BookingHandler) GetSeatMap(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid screening id")
	}
	rows, err := h.Queries.GetSeatMap(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	views := make([]seatMapRowView, len(rows))
	for i, r := range rows {
		views[i] = seatMapRowView{SeatMapRow: r, Label: rowLabel(r.RowIndex)}
	}
	return c.JSON(http.StatusOK, echo.Map{"screening_id": id, "rows": views})
}

// GetAvailability handles GET /v1/screenings/:id/availability.  An unknown
// screening reports no rows.
func (h *BookingHandler) GetAvailability(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid screening id")
	}
	rows, err := h.Queries.GetAvailabilitySummary(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	if rows == nil {
		rows = []model.RowAvailability{}
	}
	return c.JSON(http.StatusOK, echo.Map{"screening_id": id, "rows": rows})
}
