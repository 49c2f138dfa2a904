package domain

import (
	"context"
	"time"
)

// ReservationRepository is the store behind the reservation lifecycle.
// Multi-step writes go through WithinTx; the read paths run outside any
// transaction.
type ReservationRepository interface {
	WithinTx(ctx context.Context, fn func(tx ReservationTx) error) error

	// Read paths
	GetReservation(ctx context.Context, id int64) (Reservation, error)
	ReservationRooms(ctx context.Context, id int64) ([]ReservedRoom, error)
	ReservationServices(ctx context.Context, id int64) ([]ReservedService, error)
	CurrentStatus(ctx context.Context, id int64) (Status, error)
	ListReservations(ctx context.Context, f ReservationFilter) ([]ReservationSummary, error)
}

// ReservationTx is a transactional handle. OccupyRoom and ReleaseRooms are
// the only statements allowed to touch a room's occupied flag.
type ReservationTx interface {
	// LockRoom reads the occupied flag under a row lock held until commit.
	LockRoom(ctx context.Context, roomID int64) (occupied bool, err error)
	InsertReservation(ctx context.Context, r Reservation) (int64, error)
	// OccupyRoom links the room to the reservation and flips occupied to
	// true only if it is currently false.
	OccupyRoom(ctx context.Context, reservationID, roomID int64) error
	AttachService(ctx context.Context, reservationID, serviceID int64) error

	LockReservation(ctx context.Context, id int64) error
	CurrentStatus(ctx context.Context, id int64) (Status, error)
	AppendStatus(ctx context.Context, reservationID int64, s Status) (int64, error)
	// ReleaseRooms clears occupied on every room linked to the reservation.
	ReleaseRooms(ctx context.Context, reservationID int64) (int64, error)
	SetDepositPaid(ctx context.Context, id int64) error
	DeleteReservation(ctx context.Context, id int64) (bool, error)
}

type StayRepository interface {
	CreateStay(ctx context.Context, s NewStay, at time.Time) (int64, error)
	GetStay(ctx context.Context, id int64) (StayRecord, error)
	CheckOut(ctx context.Context, id int64, on time.Time) error
	ListStays(ctx context.Context, activeOnly bool) ([]StaySummary, error)
	ListMinorsStaying(ctx context.Context) ([]MinorGuest, error)
	ListPetStays(ctx context.Context) ([]PetStay, error)
}

// OccupancyDrift is a room whose stored flag disagrees with its associations.
type OccupancyDrift struct {
	RoomID   int64
	Number   int
	Stored   bool
	Expected bool
}

type OccupancyRepository interface {
	HotelIDs(ctx context.Context) ([]int64, error)
	ReconcileHotel(ctx context.Context, hotelID int64, dryRun bool) ([]OccupancyDrift, error)
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, name string) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	UpdateCategory(ctx context.Context, id int64, p CategoryPatch) error
	DeleteCategory(ctx context.Context, id int64) error
}

type HotelRepository interface {
	CreateHotel(ctx context.Context, h Hotel) (int64, error)
	ListHotels(ctx context.Context) ([]HotelSummary, error)
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	UpdateHotel(ctx context.Context, id int64, p HotelPatch) error
	DeleteHotel(ctx context.Context, id int64) error
}

type RoomTypeRepository interface {
	CreateRoomType(ctx context.Context, t RoomType) (int64, error)
	ListRoomTypes(ctx context.Context) ([]RoomType, error)
	GetRoomType(ctx context.Context, id int64) (RoomType, error)
	UpdateRoomType(ctx context.Context, id int64, p RoomTypePatch) error
	DeleteRoomType(ctx context.Context, id int64) error
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, r Room) (int64, error)
	ListRooms(ctx context.Context) ([]RoomListing, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	UpdateRoom(ctx context.Context, id int64, p RoomPatch) error
	DeleteRoom(ctx context.Context, id int64) error
}

type AgencyRepository interface {
	CreateAgency(ctx context.Context, name string) (int64, error)
	ListAgencies(ctx context.Context) ([]Agency, error)
	GetAgency(ctx context.Context, id int64) (Agency, error)
	UpdateAgency(ctx context.Context, id int64, p AgencyPatch) error
	DeleteAgency(ctx context.Context, id int64) error
}

type ServiceRepository interface {
	CreateService(ctx context.Context, s Service) (int64, error)
	ListServices(ctx context.Context) ([]Service, error)
	GetService(ctx context.Context, id int64) (Service, error)
	UpdateService(ctx context.Context, id int64, p ServicePatch) error
	DeleteService(ctx context.Context, id int64) error
}

type GuestRepository interface {
	CreateGuest(ctx context.Context, g Guest) error
	ListGuests(ctx context.Context) ([]GuestSummary, error)
	GetGuest(ctx context.Context, idNumber string) (Guest, error)
	UpdateGuest(ctx context.Context, idNumber string, p GuestPatch) error
	DeleteGuest(ctx context.Context, idNumber string) error
}

type CatalogRepository interface {
	CategoryRepository
	HotelRepository
	RoomTypeRepository
	RoomRepository
	AgencyRepository
	ServiceRepository
	GuestRepository
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, ev ReservationEvent) error
	Close() error
}
