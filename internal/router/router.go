// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/group-seat-booking/internal/handler"
)

// RegisterRoutes registers the operational endpoints: a health check that
// pings the database and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, h *handler.Health) {
	e.GET("/healthz", h.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
