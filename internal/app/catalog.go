package app

import (
	"context"
	"fmt"
	"time"

	"tranquidescanso/internal/domain"
)

// Cache keys for the reference data served read-through from Redis. Rooms,
// guests and reservations are never cached: occupancy changes underneath them.
const (
	keyCategories = "categories"
	keyHotels     = "hotels"
	keyRoomTypes  = "roomtypes"
	keyAgencies   = "agencies"
	keyServices   = "services"
)

func keyCategory(id int64) string { return fmt.Sprintf("category:%d", id) }
func keyHotel(id int64) string    { return fmt.Sprintf("hotel:%d", id) }
func keyRoomType(id int64) string { return fmt.Sprintf("roomtype:%d", id) }
func keyAgency(id int64) string   { return fmt.Sprintf("agency:%d", id) }
func keyService(id int64) string  { return fmt.Sprintf("service:%d", id) }

type CatalogService struct {
	repo     domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewCatalogService accepts a nil cache; every read then goes to the store.
func NewCatalogService(r domain.CatalogRepository, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: r, cache: c, cacheTTL: ttl}
}

func readThrough[T any](ctx context.Context, s *CatalogService, entity, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, storageErr(entity, err)
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, v, s.cacheTTL)
	}
	return v, nil
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, keys...)
	}
}

// Categories

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	c, err := s.repo.CreateCategory(ctx, name)
	if err != nil {
		return domain.Category{}, writeErr("category", err)
	}
	s.invalidate(ctx, keyCategories)
	return c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return readThrough(ctx, s, "category", keyCategories, s.repo.ListCategories)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	return readThrough(ctx, s, "category", keyCategory(id), func(ctx context.Context) (domain.Category, error) {
		return s.repo.GetCategory(ctx, id)
	})
}

// UpdateCategory renames the category; the store stamps the change time.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, p domain.CategoryPatch) (domain.Category, error) {
	if !p.Empty() {
		if err := s.repo.UpdateCategory(ctx, id, p); err != nil {
			return domain.Category{}, writeErr("category", err)
		}
		s.invalidate(ctx, keyCategories, keyCategory(id))
	}
	return s.GetCategory(ctx, id)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return storageErr("category", err)
	}
	s.invalidate(ctx, keyCategories, keyCategory(id))
	return nil
}

// Hotels

func (s *CatalogService) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	if h.CategoryID == 0 {
		h.CategoryID = 1
	}
	id, err := s.repo.CreateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, writeErr("hotel", err)
	}
	s.invalidate(ctx, keyHotels)
	return s.GetHotel(ctx, id)
}

func (s *CatalogService) ListHotels(ctx context.Context) ([]domain.HotelSummary, error) {
	return readThrough(ctx, s, "hotel", keyHotels, s.repo.ListHotels)
}

func (s *CatalogService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	return readThrough(ctx, s, "hotel", keyHotel(id), func(ctx context.Context) (domain.Hotel, error) {
		return s.repo.GetHotel(ctx, id)
	})
}

func (s *CatalogService) UpdateHotel(ctx context.Context, id int64, p domain.HotelPatch) (domain.Hotel, error) {
	if !p.Empty() {
		if err := s.repo.UpdateHotel(ctx, id, p); err != nil {
			return domain.Hotel{}, writeErr("hotel", err)
		}
		s.invalidate(ctx, keyHotels, keyHotel(id))
	}
	return s.GetHotel(ctx, id)
}

func (s *CatalogService) DeleteHotel(ctx context.Context, id int64) error {
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return storageErr("hotel", err)
	}
	s.invalidate(ctx, keyHotels, keyHotel(id))
	return nil
}

// Room types

func (s *CatalogService) CreateRoomType(ctx context.Context, t domain.RoomType) (domain.RoomType, error) {
	id, err := s.repo.CreateRoomType(ctx, t)
	if err != nil {
		return domain.RoomType{}, writeErr("room type", err)
	}
	s.invalidate(ctx, keyRoomTypes)
	return s.GetRoomType(ctx, id)
}

func (s *CatalogService) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	return readThrough(ctx, s, "room type", keyRoomTypes, s.repo.ListRoomTypes)
}

func (s *CatalogService) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	return readThrough(ctx, s, "room type", keyRoomType(id), func(ctx context.Context) (domain.RoomType, error) {
		return s.repo.GetRoomType(ctx, id)
	})
}

func (s *CatalogService) UpdateRoomType(ctx context.Context, id int64, p domain.RoomTypePatch) (domain.RoomType, error) {
	if !p.Empty() {
		if err := s.repo.UpdateRoomType(ctx, id, p); err != nil {
			return domain.RoomType{}, writeErr("room type", err)
		}
		s.invalidate(ctx, keyRoomTypes, keyRoomType(id))
	}
	return s.GetRoomType(ctx, id)
}

func (s *CatalogService) DeleteRoomType(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRoomType(ctx, id); err != nil {
		return storageErr("room type", err)
	}
	s.invalidate(ctx, keyRoomTypes, keyRoomType(id))
	return nil
}

// Rooms. The occupied flag is never written here.

func (s *CatalogService) CreateRoom(ctx context.Context, r domain.Room) (domain.Room, error) {
	r.Occupied = false
	id, err := s.repo.CreateRoom(ctx, r)
	if err != nil {
		return domain.Room{}, writeErr("room", err)
	}
	return s.GetRoom(ctx, id)
}

func (s *CatalogService) ListRooms(ctx context.Context) ([]domain.RoomListing, error) {
	out, err := s.repo.ListRooms(ctx)
	return out, storageErr("room", err)
}

func (s *CatalogService) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	r, err := s.repo.GetRoom(ctx, id)
	return r, storageErr("room", err)
}

func (s *CatalogService) UpdateRoom(ctx context.Context, id int64, p domain.RoomPatch) (domain.Room, error) {
	if !p.Empty() {
		if err := s.repo.UpdateRoom(ctx, id, p); err != nil {
			return domain.Room{}, writeErr("room", err)
		}
	}
	return s.GetRoom(ctx, id)
}

func (s *CatalogService) DeleteRoom(ctx context.Context, id int64) error {
	return storageErr("room", s.repo.DeleteRoom(ctx, id))
}

// Agencies

func (s *CatalogService) CreateAgency(ctx context.Context, name string) (domain.Agency, error) {
	id, err := s.repo.CreateAgency(ctx, name)
	if err != nil {
		return domain.Agency{}, writeErr("agency", err)
	}
	s.invalidate(ctx, keyAgencies)
	return s.GetAgency(ctx, id)
}

func (s *CatalogService) ListAgencies(ctx context.Context) ([]domain.Agency, error) {
	return readThrough(ctx, s, "agency", keyAgencies, s.repo.ListAgencies)
}

func (s *CatalogService) GetAgency(ctx context.Context, id int64) (domain.Agency, error) {
	return readThrough(ctx, s, "agency", keyAgency(id), func(ctx context.Context) (domain.Agency, error) {
		return s.repo.GetAgency(ctx, id)
	})
}

func (s *CatalogService) UpdateAgency(ctx context.Context, id int64, p domain.AgencyPatch) (domain.Agency, error) {
	if !p.Empty() {
		if err := s.repo.UpdateAgency(ctx, id, p); err != nil {
			return domain.Agency{}, writeErr("agency", err)
		}
		s.invalidate(ctx, keyAgencies, keyAgency(id))
	}
	return s.GetAgency(ctx, id)
}

func (s *CatalogService) DeleteAgency(ctx context.Context, id int64) error {
	if err := s.repo.DeleteAgency(ctx, id); err != nil {
		return storageErr("agency", err)
	}
	s.invalidate(ctx, keyAgencies, keyAgency(id))
	return nil
}

// Additional services

func (s *CatalogService) CreateService(ctx context.Context, sv domain.Service) (domain.Service, error) {
	id, err := s.repo.CreateService(ctx, sv)
	if err != nil {
		return domain.Service{}, writeErr("service", err)
	}
	s.invalidate(ctx, keyServices)
	return s.GetService(ctx, id)
}

func (s *CatalogService) ListServices(ctx context.Context) ([]domain.Service, error) {
	return readThrough(ctx, s, "service", keyServices, s.repo.ListServices)
}

func (s *CatalogService) GetService(ctx context.Context, id int64) (domain.Service, error) {
	return readThrough(ctx, s, "service", keyService(id), func(ctx context.Context) (domain.Service, error) {
		return s.repo.GetService(ctx, id)
	})
}

func (s *CatalogService) UpdateService(ctx context.Context, id int64, p domain.ServicePatch) (domain.Service, error) {
	if !p.Empty() {
		if err := s.repo.UpdateService(ctx, id, p); err != nil {
			return domain.Service{}, writeErr("service", err)
		}
		s.invalidate(ctx, keyServices, keyService(id))
	}
	return s.GetService(ctx, id)
}

func (s *CatalogService) DeleteService(ctx context.Context, id int64) error {
	if err := s.repo.DeleteService(ctx, id); err != nil {
		return storageErr("service", err)
	}
	s.invalidate(ctx, keyServices, keyService(id))
	return nil
}

// Guests

func (s *CatalogService) CreateGuest(ctx context.Context, g domain.Guest) (domain.Guest, error) {
	if err := s.repo.CreateGuest(ctx, g); err != nil {
		return domain.Guest{}, writeErr("guest", err)
	}
	return s.GetGuest(ctx, g.IDNumber)
}

func (s *CatalogService) ListGuests(ctx context.Context) ([]domain.GuestSummary, error) {
	out, err := s.repo.ListGuests(ctx)
	return out, storageErr("guest", err)
}

func (s *CatalogService) GetGuest(ctx context.Context, idNumber string) (domain.Guest, error) {
	g, err := s.repo.GetGuest(ctx, idNumber)
	return g, storageErr("guest", err)
}

func (s *CatalogService) UpdateGuest(ctx context.Context, idNumber string, p domain.GuestPatch) (domain.Guest, error) {
	if !p.Empty() {
		if err := s.repo.UpdateGuest(ctx, idNumber, p); err != nil {
			return domain.Guest{}, writeErr("guest", err)
		}
	}
	return s.GetGuest(ctx, idNumber)
}

func (s *CatalogService) DeleteGuest(ctx context.Context, idNumber string) error {
	return storageErr("guest", s.repo.DeleteGuest(ctx, idNumber))
}
