package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/group-seat-booking/internal/model"
)

type createTheaterRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Location *string `json:"location" validate:"omitempty,max=255"`
}

// CreateTheater handles POST /v1/theaters.
func (h *CatalogHandler) CreateTheater(c echo.Context) error {
	var body createTheaterRequest
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	name := strings.TrimSpace(body.Name) // names are stored trimmed
	if name == "" {
		return badRequest(c, "name is required")
	}
	t := &model.Theater{Name: name}
	if body.Location != nil {
		if loc := strings.TrimSpace(*body.Location); loc != "" {
			t.Location = &loc
		}
	}
	if err := h.Theaters.Create(c.Request().Context(), t); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// GetTheater handles GET /v1/theaters/:id.
func (h *CatalogHandler) GetTheater(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid theater id")
	}
	t, err := h.Theaters.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, t)
}
