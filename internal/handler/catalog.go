package handler

import (
	"go.uber.org/zap"

	"github.com/iliyamo/group-seat-booking/internal/repository"
)

// CatalogHandler serves movies, theaters, halls and screenings.  These
// resources feed the booking core but take no part in seat contention.
type CatalogHandler struct {
	Movies     *repository.MovieRepo
	Theaters   *repository.TheaterRepo
	Halls      *repository.HallRepo
	Screenings *repository.ScreeningRepo
	Log        *zap.Logger
}

// NewCatalogHandler panics if any repository is nil.
func NewCatalogHandler(movies *repository.MovieRepo, theaters *repository.TheaterRepo, halls *repository.HallRepo, screenings *repository.ScreeningRepo, log *zap.Logger) *CatalogHandler {
	if movies == nil || theaters == nil || halls == nil || screenings == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogHandler{
		Movies:     movies,
		Theaters:   theaters,
		Halls:      halls,
		Screenings: screenings,
		Log:        log,
	}
}
