package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"tranquidescanso/internal/domain"
)

// StayService records check-ins and check-outs. It does not cross-check the
// stay against the reservation's rooms or the room's occupancy.
type StayService struct {
	repo domain.StayRepository
	now  func() time.Time
}

func NewStayService(r domain.StayRepository) *StayService {
	return &StayService{repo: r, now: time.Now}
}

func (s *StayService) CheckIn(ctx context.Context, in domain.NewStay) (domain.StayRecord, error) {
	id, err := s.repo.CreateStay(ctx, in, s.now())
	if err != nil {
		return domain.StayRecord{}, writeErr("stay", err)
	}
	rec, err := s.repo.GetStay(ctx, id)
	if err != nil {
		return domain.StayRecord{}, storageErr("stay", err)
	}
	log.Info().Int64("stay_id", id).Int64("reservation_id", in.ReservationID).Str("guest", in.GuestID).Msg("guest checked in")
	return rec, nil
}

func (s *StayService) Get(ctx context.Context, id int64) (domain.StayRecord, error) {
	rec, err := s.repo.GetStay(ctx, id)
	return rec, storageErr("stay", err)
}

// CheckOut stamps the check-out date; a zero on means today.
func (s *StayService) CheckOut(ctx context.Context, id int64, on time.Time) (domain.StayRecord, error) {
	if on.IsZero() {
		on = truncateDay(s.now())
	}
	if err := s.repo.CheckOut(ctx, id, on); err != nil {
		return domain.StayRecord{}, writeErr("stay", err)
	}
	log.Info().Int64("stay_id", id).Time("on", on).Msg("guest checked out")
	return s.Get(ctx, id)
}

func (s *StayService) List(ctx context.Context, activeOnly bool) ([]domain.StaySummary, error) {
	out, err := s.repo.ListStays(ctx, activeOnly)
	return out, storageErr("stay", err)
}

func (s *StayService) MinorsStaying(ctx context.Context) ([]domain.MinorGuest, error) {
	out, err := s.repo.ListMinorsStaying(ctx)
	return out, storageErr("stay", err)
}

func (s *StayService) PetStays(ctx context.Context) ([]domain.PetStay, error) {
	out, err := s.repo.ListPetStays(ctx)
	return out, storageErr("stay", err)
}
