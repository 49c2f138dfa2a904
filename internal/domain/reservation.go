package domain

import "time"

type Status string

const (
	StatusConfirmed Status = "Confirmada"
	StatusCancelled Status = "Cancelada"
	StatusNoShow    Status = "No Presentada"
	StatusCompleted Status = "Completada"

	// StatusNone is reported when a reservation has no status history at all.
	StatusNone Status = "Sin estado"
)

var statuses = map[Status]struct{}{
	StatusConfirmed: {},
	StatusCancelled: {},
	StatusNoShow:    {},
	StatusCompleted: {},
}

func (s Status) Valid() bool {
	_, ok := statuses[s]
	return ok
}

// Terminal reports whether s is a final state in the strict transition table.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusNoShow || s == StatusCompleted
}

// CanTransition is the strict table: Confirmada may move to any other state,
// terminal states accept nothing. A reservation without history accepts anything.
func CanTransition(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	switch from {
	case StatusNone, "":
		return true
	case StatusConfirmed:
		return to != StatusConfirmed
	default:
		return false
	}
}

// Reservation is the header row. Rooms, services and status history live in
// their own relations.
type Reservation struct {
	ID          int64
	CreatedOn   time.Time // date only
	StayStart   time.Time // date only
	StayEnd     time.Time // date only
	PartySize   int
	DepositPaid bool
	ExpiresAt   time.Time
	AgencyID    *int64
}

type NewReservation struct {
	StayStart  time.Time
	StayEnd    time.Time
	PartySize  int
	ExpiresAt  time.Time
	AgencyID   *int64
	RoomIDs    []int64
	ServiceIDs []int64
}

type ReservedRoom struct {
	ID       int64  `json:"id"`
	Number   int    `json:"number"`
	RoomType string `json:"type"`
}

type ReservedService struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// ReservationView is the full projection returned by a single-reservation read.
type ReservationView struct {
	Reservation
	Rooms         []ReservedRoom
	Services      []ReservedService
	CurrentStatus Status
}

// ReservationSummary is one list row: header facts plus the current status.
type ReservationSummary struct {
	ID            int64
	StayStart     time.Time
	StayEnd       time.Time
	PartySize     int
	DepositPaid   bool
	CurrentStatus Status
}

type ReservationFilter struct {
	Status    *Status
	StartFrom *time.Time
}

type EventType string

const (
	EventReservationCreated EventType = "reservation.created"
	EventStatusChanged      EventType = "reservation.status_changed"
	EventDepositPaid        EventType = "reservation.deposit_paid"
	EventReservationDeleted EventType = "reservation.deleted"
)

// ReservationEvent is published after a lifecycle write commits.
type ReservationEvent struct {
	Type          EventType `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	Status        Status    `json:"status,omitempty"`
	RoomIDs       []int64   `json:"room_ids,omitempty"`
	ReleasedRooms int64     `json:"released_rooms,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
