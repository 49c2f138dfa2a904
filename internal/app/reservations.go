package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tranquidescanso/internal/adapters/observability"
	"tranquidescanso/internal/domain"
)

// ReservationService owns the reservation lifecycle: availability checks,
// creation with room and service links, the append-only status history and
// room release on cancellation or deletion.
type ReservationService struct {
	repo   domain.ReservationRepository
	events domain.EventPublisher
	now    func() time.Time
	strict bool
}

type ReservationOption func(*ReservationService)

func WithEvents(p domain.EventPublisher) ReservationOption {
	return func(s *ReservationService) { s.events = p }
}

func WithClock(now func() time.Time) ReservationOption {
	return func(s *ReservationService) { s.now = now }
}

// WithStrictTransitions rejects status changes that domain.CanTransition forbids.
func WithStrictTransitions(on bool) ReservationOption {
	return func(s *ReservationService) { s.strict = on }
}

func NewReservationService(r domain.ReservationRepository, opts ...ReservationOption) *ReservationService {
	s := &ReservationService{repo: r, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create validates the rooms in input order and writes the header, the room
// and service links and the initial Confirmada event in one transaction.
func (s *ReservationService) Create(ctx context.Context, in domain.NewReservation) (int64, error) {
	if len(in.RoomIDs) == 0 {
		return 0, domain.Invalid("reservation", "at least one room is required")
	}
	if in.StayEnd.Before(in.StayStart) {
		return 0, domain.Invalid("reservation", "stay end precedes stay start")
	}

	now := s.now()
	var id int64
	err := s.repo.WithinTx(ctx, func(tx domain.ReservationTx) error {
		for _, roomID := range in.RoomIDs {
			occupied, err := tx.LockRoom(ctx, roomID)
			if err != nil {
				return err
			}
			if occupied {
				return domain.Conflict("room", fmt.Sprintf("%d is already occupied", roomID), nil)
			}
		}

		var err error
		id, err = tx.InsertReservation(ctx, domain.Reservation{
			CreatedOn: truncateDay(now),
			StayStart: in.StayStart,
			StayEnd:   in.StayEnd,
			PartySize: in.PartySize,
			ExpiresAt: in.ExpiresAt,
			AgencyID:  in.AgencyID,
		})
		if err != nil {
			return err
		}
		for _, roomID := range in.RoomIDs {
			if err := tx.OccupyRoom(ctx, id, roomID); err != nil {
				return err
			}
		}
		for _, serviceID := range in.ServiceIDs {
			if err := tx.AttachService(ctx, id, serviceID); err != nil {
				return err
			}
		}
		_, err = tx.AppendStatus(ctx, id, domain.StatusConfirmed)
		return err
	})
	if err != nil {
		s.reject("create", 0, err)
		return 0, writeErr("reservation", err)
	}

	observability.ObserveLifecycle("create", "ok")
	log.Info().Int64("reservation_id", id).Ints64("rooms", in.RoomIDs).Msg("reservation created")
	s.publish(ctx, domain.ReservationEvent{
		Type:          domain.EventReservationCreated,
		ReservationID: id,
		Status:        domain.StatusConfirmed,
		RoomIDs:       in.RoomIDs,
		OccurredAt:    now.UTC(),
	})
	return id, nil
}

// Get returns the header, its rooms and services and the current status.
func (s *ReservationService) Get(ctx context.Context, id int64) (domain.ReservationView, error) {
	r, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return domain.ReservationView{}, storageErr("reservation", err)
	}

	view := domain.ReservationView{Reservation: r}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view.Rooms, err = s.repo.ReservationRooms(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		view.Services, err = s.repo.ReservationServices(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		view.CurrentStatus, err = s.repo.CurrentStatus(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.ReservationView{}, storageErr("reservation", err)
	}
	if view.CurrentStatus == "" {
		view.CurrentStatus = domain.StatusNone
	}
	return view, nil
}

// List returns one row per reservation carrying its current status, newest stay first.
func (s *ReservationService) List(ctx context.Context, f domain.ReservationFilter) ([]domain.ReservationSummary, error) {
	out, err := s.repo.ListReservations(ctx, f)
	if err != nil {
		return nil, storageErr("reservation", err)
	}
	return out, nil
}

// ChangeStatus appends a status event. Cancelada also releases every room
// linked to the reservation. Re-applying a status appends again.
func (s *ReservationService) ChangeStatus(ctx context.Context, id int64, st domain.Status) (domain.Status, error) {
	if !st.Valid() {
		return "", domain.Invalid("status", fmt.Sprintf("%q is not a reservation status", st))
	}

	var released int64
	err := s.repo.WithinTx(ctx, func(tx domain.ReservationTx) error {
		if err := tx.LockReservation(ctx, id); err != nil {
			return err
		}
		if s.strict {
			cur, err := tx.CurrentStatus(ctx, id)
			if err != nil {
				return err
			}
			if !domain.CanTransition(cur, st) {
				return domain.Conflict("reservation", fmt.Sprintf("cannot move from %s to %s", cur, st), nil)
			}
		}
		if _, err := tx.AppendStatus(ctx, id, st); err != nil {
			return err
		}
		if st == domain.StatusCancelled {
			var err error
			released, err = tx.ReleaseRooms(ctx, id)
			return err
		}
		return nil
	})
	if err != nil {
		s.reject("change_status", id, err)
		return "", writeErr("reservation", err)
	}

	observability.ObserveLifecycle("change_status", "ok")
	log.Info().Int64("reservation_id", id).Str("status", string(st)).Int64("released_rooms", released).Msg("reservation status changed")
	s.publish(ctx, domain.ReservationEvent{
		Type:          domain.EventStatusChanged,
		ReservationID: id,
		Status:        st,
		ReleasedRooms: released,
		OccurredAt:    s.now().UTC(),
	})
	return st, nil
}

// MarkDepositPaid flips the deposit flag. It is a flag, not a ledger.
func (s *ReservationService) MarkDepositPaid(ctx context.Context, id int64) error {
	err := s.repo.WithinTx(ctx, func(tx domain.ReservationTx) error {
		if err := tx.LockReservation(ctx, id); err != nil {
			return err
		}
		return tx.SetDepositPaid(ctx, id)
	})
	if err != nil {
		s.reject("deposit", id, err)
		return writeErr("reservation", err)
	}
	observability.ObserveLifecycle("deposit", "ok")
	s.publish(ctx, domain.ReservationEvent{
		Type:          domain.EventDepositPaid,
		ReservationID: id,
		OccurredAt:    s.now().UTC(),
	})
	return nil
}

// Delete releases the linked rooms whatever the current status, then drops
// the header. Links and status history go with it through FK cascades.
func (s *ReservationService) Delete(ctx context.Context, id int64) error {
	var released int64
	err := s.repo.WithinTx(ctx, func(tx domain.ReservationTx) error {
		var err error
		released, err = tx.ReleaseRooms(ctx, id)
		if err != nil {
			return err
		}
		ok, err := tx.DeleteReservation(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("reservation")
		}
		return nil
	})
	if err != nil {
		s.reject("delete", id, err)
		return storageErr("reservation", err)
	}

	observability.ObserveLifecycle("delete", "ok")
	log.Info().Int64("reservation_id", id).Int64("released_rooms", released).Msg("reservation deleted")
	s.publish(ctx, domain.ReservationEvent{
		Type:          domain.EventReservationDeleted,
		ReservationID: id,
		ReleasedRooms: released,
		OccurredAt:    s.now().UTC(),
	})
	return nil
}

func (s *ReservationService) reject(op string, id int64, err error) {
	observability.ObserveLifecycle(op, "rejected")
	log.Warn().Err(err).Str("op", op).Int64("reservation_id", id).Msg("reservation write rolled back")
}

// publish is best effort: the write is already committed.
func (s *ReservationService) publish(ctx context.Context, ev domain.ReservationEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("event", string(ev.Type)).Int64("reservation_id", ev.ReservationID).Msg("event publish failed")
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
