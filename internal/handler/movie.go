package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/group-seat-booking/internal/model"
)

type createMovieRequest struct {
	Title           string `json:"title" validate:"required,max=255"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=1"`
}

// CreateMovie handles POST /v1/movies.
func (h *CatalogHandler) CreateMovie(c echo.Context) error {
	var body createMovieRequest
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return badRequest(c, "title is required")
	}
	m := &model.Movie{Title: title, DurationMinutes: body.DurationMinutes}
	if err := h.Movies.Create(c.Request().Context(), m); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// ListMovies handles GET /v1/movies.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	items, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	if items == nil {
		items = []model.Movie{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMovie handles GET /v1/movies/:id.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, m)
}
