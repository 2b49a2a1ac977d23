package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/group-seat-booking/internal/handler"
)

// RegisterBooking registers booking endpoints.  rateLimit guards the write
// path; cache fronts booking lookups, which never change once created.
// Seat maps and availability are served uncached.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, rateLimit, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")

	g.POST("/bookings", h.CreateBooking, rateLimit)
	g.GET("/bookings/:id", h.GetBooking, cache)

	g.GET("/screenings/:id/seats", h.GetSeatMap)
	g.GET("/screenings/:id/availability", h.GetAvailability)
}
