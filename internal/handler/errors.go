package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/group-seat-booking/internal/booking"
	"github.com/iliyamo/group-seat-booking/internal/repository"
)

// writeError maps domain errors onto HTTP responses.  Anything unknown is
// logged and reported as a bare 500.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	var noBlock *booking.NoBlockError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return err
	case errors.As(err, &noBlock):
		suggestions := noBlock.Suggestions
		if suggestions == nil {
			suggestions = []booking.Suggestion{}
		}
		return c.JSON(http.StatusConflict, echo.Map{
			"error":        booking.ErrNoAvailableBlock.Error(),
			"screening_id": noBlock.ScreeningID,
			"group_size":   noBlock.GroupSize,
			"suggestions":  suggestions,
		})
	case errors.Is(err, booking.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "retryable": true})
	case errors.Is(err, booking.ErrInvalidGroupSize), errors.Is(err, repository.ErrInvalidLayout):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "request timed out"})
	}
	if log != nil {
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
