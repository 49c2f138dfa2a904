package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"tranquidescanso/internal/adapters/observability"
	"tranquidescanso/internal/domain"
)

// ReconcileService repairs room occupied flags that disagree with the room's
// links to live reservations. A room is expected occupied when it belongs to
// at least one reservation whose current status is not Cancelada.
type ReconcileService struct {
	repo domain.OccupancyRepository
}

func NewReconcileService(r domain.OccupancyRepository) *ReconcileService {
	return &ReconcileService{repo: r}
}

func (s *ReconcileService) HotelIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.repo.HotelIDs(ctx)
	return ids, storageErr("hotel", err)
}

func (s *ReconcileService) ReconcileHotel(ctx context.Context, hotelID int64, dryRun bool) (int, error) {
	drift, err := s.repo.ReconcileHotel(ctx, hotelID, dryRun)
	if err != nil {
		return 0, storageErr("room", err)
	}
	for _, d := range drift {
		log.Warn().
			Int64("hotel_id", hotelID).
			Int64("room_id", d.RoomID).
			Int("number", d.Number).
			Bool("stored", d.Stored).
			Bool("expected", d.Expected).
			Bool("dry_run", dryRun).
			Msg("occupancy drift")
	}
	observability.ObserveDrift(hotelID, len(drift))
	return len(drift), nil
}
