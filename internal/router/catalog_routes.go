package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/group-seat-booking/internal/handler"
)

// RegisterCatalog registers movie, theater, hall and screening endpoints
// under /v1.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler) {
	g := e.Group("/v1")

	// ---- Movies ----
	g.POST("/movies", h.CreateMovie)
	g.GET("/movies", h.ListMovies)
	g.GET("/movies/:id", h.GetMovie)

	// ---- Theaters & halls ----
	g.POST("/theaters", h.CreateTheater)
	g.GET("/theaters/:id", h.GetTheater)
	g.POST("/theaters/:id/halls", h.CreateHall)
	g.GET("/halls/:id/layout", h.GetHallLayout)

	// ---- Screenings ----
	g.POST("/screenings", h.CreateScreening)
	g.GET("/screenings", h.ListScreenings)
	g.GET("/screenings/:id", h.GetScreening)
}
