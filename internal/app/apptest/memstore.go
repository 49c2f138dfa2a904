// Package apptest holds an in-memory reservation and stay store for tests.
// Transactions snapshot the whole store and restore it when fn fails, which
// gives the same all-or-nothing outcome as the SQL store.
package apptest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"tranquidescanso/internal/domain"
)

type Room struct {
	ID       int64
	Number   int
	Type     string
	Occupied bool
}

type statusRow struct {
	id            int64
	reservationID int64
	status        domain.Status
}

type state struct {
	rooms        map[int64]Room
	services     map[int64]domain.ReservedService
	reservations map[int64]domain.Reservation
	roomLinks    map[int64][]int64
	serviceLinks map[int64][]int64
	statuses     []statusRow
	guests       map[string]string // id number -> id type
	guestNames   map[string]string
	stays        map[int64]domain.StayRecord
	nextRes      int64
	nextStatus   int64
	nextStay     int64
}

func (s state) clone() state {
	c := s
	c.rooms = make(map[int64]Room, len(s.rooms))
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	c.reservations = make(map[int64]domain.Reservation, len(s.reservations))
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	c.roomLinks = make(map[int64][]int64, len(s.roomLinks))
	for k, v := range s.roomLinks {
		c.roomLinks[k] = append([]int64(nil), v...)
	}
	c.serviceLinks = make(map[int64][]int64, len(s.serviceLinks))
	for k, v := range s.serviceLinks {
		c.serviceLinks[k] = append([]int64(nil), v...)
	}
	c.statuses = append([]statusRow(nil), s.statuses...)
	c.stays = make(map[int64]domain.StayRecord, len(s.stays))
	for k, v := range s.stays {
		c.stays[k] = v
	}
	return c
}

// Store implements domain.ReservationRepository and domain.StayRepository.
type Store struct {
	mu sync.Mutex
	st state

	// FailAttachService makes AttachService fail with a raw store error.
	FailAttachService bool
}

func NewStore() *Store {
	return &Store{st: state{
		rooms:        map[int64]Room{},
		services:     map[int64]domain.ReservedService{},
		reservations: map[int64]domain.Reservation{},
		roomLinks:    map[int64][]int64{},
		serviceLinks: map[int64][]int64{},
		guests:       map[string]string{},
		guestNames:   map[string]string{},
		stays:        map[int64]domain.StayRecord{},
	}}
}

var ErrInjected = errors.New("injected store failure")

// Seeding helpers

func (s *Store) AddRoom(r Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.rooms[r.ID] = r
}

func (s *Store) AddService(sv domain.ReservedService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.services[sv.ID] = sv
}

func (s *Store) AddGuest(idNumber, idType, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.guests[idNumber] = idType
	s.st.guestNames[idNumber] = name
}

// Inspection helpers

func (s *Store) Room(id int64) Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.rooms[id]
}

func (s *Store) Counts() (reservations, roomLinks, serviceLinks, statuses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.st.roomLinks {
		roomLinks += len(l)
	}
	for _, l := range s.st.serviceLinks {
		serviceLinks += len(l)
	}
	return len(s.st.reservations), roomLinks, serviceLinks, len(s.st.statuses)
}

func (s *Store) History(reservationID int64) []domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Status
	for _, r := range s.st.statuses {
		if r.reservationID == reservationID {
			out = append(out, r.status)
		}
	}
	return out
}

// ClearHistory drops every status event of a reservation.
func (s *Store) ClearHistory(reservationID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.st.statuses[:0]
	for _, r := range s.st.statuses {
		if r.reservationID != reservationID {
			kept = append(kept, r)
		}
	}
	s.st.statuses = kept
}

// ReservationRepository

func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.ReservationTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.st.clone()
	if err := fn(&tx{s: s}); err != nil {
		s.st = snap
		return err
	}
	return nil
}

func (s *Store) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.NotFoundID("reservation", id)
	}
	return r, nil
}

func (s *Store) ReservationRooms(ctx context.Context, id int64) ([]domain.ReservedRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.ReservedRoom{}
	for _, rid := range s.st.roomLinks[id] {
		r := s.st.rooms[rid]
		out = append(out, domain.ReservedRoom{ID: r.ID, Number: r.Number, RoomType: r.Type})
	}
	return out, nil
}

func (s *Store) ReservationServices(ctx context.Context, id int64) ([]domain.ReservedService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.ReservedService{}
	for _, sid := range s.st.serviceLinks[id] {
		out = append(out, s.st.services[sid])
	}
	return out, nil
}

func (s *Store) CurrentStatus(ctx context.Context, id int64) (domain.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.current(id), nil
}

func (st *state) current(id int64) domain.Status {
	var best statusRow
	for _, r := range st.statuses {
		if r.reservationID == id && r.id > best.id {
			best = r
		}
	}
	if best.id == 0 {
		return domain.StatusNone
	}
	return best.status
}

func (s *Store) ListReservations(ctx context.Context, f domain.ReservationFilter) ([]domain.ReservationSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.ReservationSummary{}
	for _, r := range s.st.reservations {
		cur := s.st.current(r.ID)
		if f.Status != nil && cur != *f.Status {
			continue
		}
		if f.StartFrom != nil && r.StayStart.Before(*f.StartFrom) {
			continue
		}
		out = append(out, domain.ReservationSummary{
			ID: r.ID, StayStart: r.StayStart, StayEnd: r.StayEnd,
			PartySize: r.PartySize, DepositPaid: r.DepositPaid, CurrentStatus: cur,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StayStart.Equal(out[j].StayStart) {
			return out[i].StayStart.After(out[j].StayStart)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// tx runs with the store mutex already held.
type tx struct{ s *Store }

func (t *tx) LockRoom(ctx context.Context, roomID int64) (bool, error) {
	r, ok := t.s.st.rooms[roomID]
	if !ok {
		return false, domain.NotFoundID("room", roomID)
	}
	return r.Occupied, nil
}

func (t *tx) InsertReservation(ctx context.Context, r domain.Reservation) (int64, error) {
	t.s.st.nextRes++
	r.ID = t.s.st.nextRes
	r.DepositPaid = false
	t.s.st.reservations[r.ID] = r
	return r.ID, nil
}

func (t *tx) OccupyRoom(ctx context.Context, reservationID, roomID int64) error {
	r, ok := t.s.st.rooms[roomID]
	if !ok {
		return domain.NotFoundID("room", roomID)
	}
	t.s.st.roomLinks[reservationID] = append(t.s.st.roomLinks[reservationID], roomID)
	if r.Occupied {
		return domain.Conflict("room", "already occupied", nil)
	}
	r.Occupied = true
	t.s.st.rooms[roomID] = r
	return nil
}

func (t *tx) AttachService(ctx context.Context, reservationID, serviceID int64) error {
	if t.s.FailAttachService {
		return ErrInjected
	}
	if _, ok := t.s.st.services[serviceID]; !ok {
		return domain.Conflict("service", "references a missing row", nil)
	}
	t.s.st.serviceLinks[reservationID] = append(t.s.st.serviceLinks[reservationID], serviceID)
	return nil
}

func (t *tx) LockReservation(ctx context.Context, id int64) error {
	if _, ok := t.s.st.reservations[id]; !ok {
		return domain.NotFoundID("reservation", id)
	}
	return nil
}

func (t *tx) CurrentStatus(ctx context.Context, id int64) (domain.Status, error) {
	return t.s.st.current(id), nil
}

func (t *tx) AppendStatus(ctx context.Context, reservationID int64, st domain.Status) (int64, error) {
	t.s.st.nextStatus++
	t.s.st.statuses = append(t.s.st.statuses, statusRow{id: t.s.st.nextStatus, reservationID: reservationID, status: st})
	return t.s.st.nextStatus, nil
}

func (t *tx) ReleaseRooms(ctx context.Context, reservationID int64) (int64, error) {
	var n int64
	for _, rid := range t.s.st.roomLinks[reservationID] {
		r := t.s.st.rooms[rid]
		if r.Occupied {
			r.Occupied = false
			t.s.st.rooms[rid] = r
			n++
		}
	}
	return n, nil
}

func (t *tx) SetDepositPaid(ctx context.Context, id int64) error {
	r := t.s.st.reservations[id]
	r.DepositPaid = true
	t.s.st.reservations[id] = r
	return nil
}

// DeleteReservation cascades to links and history like the SQL foreign keys.
func (t *tx) DeleteReservation(ctx context.Context, id int64) (bool, error) {
	if _, ok := t.s.st.reservations[id]; !ok {
		return false, nil
	}
	delete(t.s.st.reservations, id)
	delete(t.s.st.roomLinks, id)
	delete(t.s.st.serviceLinks, id)
	kept := t.s.st.statuses[:0]
	for _, r := range t.s.st.statuses {
		if r.reservationID != id {
			kept = append(kept, r)
		}
	}
	t.s.st.statuses = kept
	return true, nil
}

// StayRepository

func (s *Store) CreateStay(ctx context.Context, in domain.NewStay, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idType, ok := s.st.guests[in.GuestID]
	if !ok {
		return 0, domain.NotFoundID("guest", in.GuestID)
	}
	s.st.nextStay++
	s.st.stays[s.st.nextStay] = domain.StayRecord{
		ID:            s.st.nextStay,
		ReservationID: in.ReservationID,
		GuestID:       in.GuestID,
		RoomID:        in.RoomID,
		CheckInAt:     at,
		Responsible:   in.Responsible,
		HasPet:        in.HasPet,
		IsMinor:       idType == domain.MinorIDType,
	}
	return s.st.nextStay, nil
}

func (s *Store) GetStay(ctx context.Context, id int64) (domain.StayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.st.stays[id]
	if !ok {
		return domain.StayRecord{}, domain.NotFoundID("stay", id)
	}
	return rec, nil
}

func (s *Store) CheckOut(ctx context.Context, id int64, on time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.st.stays[id]
	if !ok {
		return domain.NotFoundID("stay", id)
	}
	rec.CheckOutOn = &on
	s.st.stays[id] = rec
	return nil
}

func (s *Store) ListStays(ctx context.Context, activeOnly bool) ([]domain.StaySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.StaySummary{}
	for _, rec := range s.st.stays {
		if activeOnly && rec.CheckOutOn != nil {
			continue
		}
		out = append(out, domain.StaySummary{
			ID: rec.ID, ReservationID: rec.ReservationID,
			GuestName: s.st.guestNames[rec.GuestID], RoomNumber: s.st.rooms[rec.RoomID].Number,
			CheckInAt: rec.CheckInAt, CheckOutOn: rec.CheckOutOn,
			Responsible: rec.Responsible, HasPet: rec.HasPet,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckInAt.After(out[j].CheckInAt) })
	return out, nil
}

func (s *Store) ListMinorsStaying(ctx context.Context) ([]domain.MinorGuest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[domain.MinorGuest]bool{}
	out := []domain.MinorGuest{}
	for _, rec := range s.st.stays {
		if !rec.IsMinor || rec.CheckOutOn != nil {
			continue
		}
		m := domain.MinorGuest{GuestID: rec.GuestID, Name: s.st.guestNames[rec.GuestID], RoomNumber: s.st.rooms[rec.RoomID].Number}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListPetStays(ctx context.Context) ([]domain.PetStay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.PetStay{}
	for _, rec := range s.st.stays {
		if !rec.HasPet || rec.CheckOutOn != nil {
			continue
		}
		out = append(out, domain.PetStay{
			StayID: rec.ID, GuestName: s.st.guestNames[rec.GuestID],
			RoomNumber: s.st.rooms[rec.RoomID].Number, CheckInAt: rec.CheckInAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckInAt.After(out[j].CheckInAt) })
	return out, nil
}

var (
	_ domain.ReservationRepository = (*Store)(nil)
	_ domain.StayRepository        = (*Store)(nil)
)
