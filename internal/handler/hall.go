package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/group-seat-booking/internal/model"
)

type createHallRequest struct {
	Name string            `json:"name" validate:"required,max=255"`
	Rows []model.LayoutRow `json:"rows" validate:"required,min=1,dive"`
}

type hallResponse struct {
	*model.Hall
	Rows       int `json:"rows"`
	TotalSeats int `json:"total_seats"`
}

// CreateHall handles POST /v1/theaters/:id/halls and creates a hall together
// with its seat layout.  Every row needs at least six seats; aisle seat
// numbers must fall inside their row.
func (h *CatalogHandler) CreateHall(c echo.Context) error {
	theaterID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid theater id")
	}
	var body createHallRequest
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return badRequest(c, "name is required")
	}
	total, err := checkLayout(body.Rows)
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.Theaters.GetByID(ctx, theaterID); err != nil {
		return writeError(c, h.Log, err)
	}
	hall := &model.Hall{TheaterID: theaterID, Name: name}
	if err := h.Halls.CreateWithLayout(ctx, hall, body.Rows); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, hallResponse{Hall: hall, Rows: len(body.Rows), TotalSeats: total})
}

// checkLayout enforces the cross-field rules the struct tags cannot express
// and returns the total seat count.
func checkLayout(rows []model.LayoutRow) (int, error) {
	seen := make(map[int]bool, len(rows))
	total := 0
	for _, r := range rows {
		if seen[r.RowIndex] {
			return 0, fmt.Errorf("duplicate row_index %d", r.RowIndex)
		}
		seen[r.RowIndex] = true
		if r.SeatCount < model.MinSeatsPerRow {
			return 0, fmt.Errorf("row %d must have at least %d seats", r.RowIndex, model.MinSeatsPerRow)
		}
		for _, a := range r.AisleSeats {
			if a < 1 || a > r.SeatCount {
				return 0, fmt.Errorf("aisle seat %d is outside row %d", a, r.RowIndex)
			}
		}
		total += r.SeatCount
	}
	return total, nil
}

type layoutSeatView struct {
	SeatNumber int  `json:"seat_number"`
	IsAisle    bool `json:"is_aisle"`
}

type layoutRowView struct {
	RowIndex int              `json:"row_index"`
	Label    string           `json:"label"`
	Seats    []layoutSeatView `json:"seats"`
}

// GetHallLayout handles GET /v1/halls/:id/layout.
func (h *CatalogHandler) GetHallLayout(c echo.Context) error {
	hallID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid hall id")
	}
	ctx := c.Request().Context()
	if _, err := h.Halls.GetByID(ctx, hallID); err != nil {
		return writeError(c, h.Log, err)
	}
	seats, err := h.Halls.Layout(ctx, hallID)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	if len(seats) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hall has no layout"})
	}

	var rows []layoutRowView
	for _, s := range seats {
		if len(rows) == 0 || rows[len(rows)-1].RowIndex != s.RowIndex {
			rows = append(rows, layoutRowView{RowIndex: s.RowIndex, Label: rowLabel(s.RowIndex)})
		}
		last := &rows[len(rows)-1]
		last.Seats = append(last.Seats, layoutSeatView{SeatNumber: s.SeatNumber, IsAisle: s.IsAisle})
	}
	return c.JSON(http.StatusOK, echo.Map{"hall_id": hallID, "rows": rows})
}
