package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tranquidescanso/internal/domain"
)

func (h *Handlers) mountCatalog(v chi.Router) {
	v.Route("/categories", func(r chi.Router) {
		r.Post("/", h.createCategory)
		r.Get("/", h.listCategories)
		r.Get("/{id}", h.getCategory)
		r.Put("/{id}", h.updateCategory)
		r.Delete("/{id}", h.deleteCategory)
	})
	v.Route("/hotels", func(r chi.Router) {
		r.Post("/", h.createHotel)
		r.Get("/", h.listHotels)
		r.Get("/{id}", h.getHotel)
		r.Put("/{id}", h.updateHotel)
		r.Delete("/{id}", h.deleteHotel)
	})
	v.Route("/room-types", func(r chi.Router) {
		r.Post("/", h.createRoomType)
		r.Get("/", h.listRoomTypes)
		r.Get("/{id}", h.getRoomType)
		r.Put("/{id}", h.updateRoomType)
		r.Delete("/{id}", h.deleteRoomType)
	})
	v.Route("/rooms", func(r chi.Router) {
		r.Post("/", h.createRoom)
		r.Get("/", h.listRooms)
		r.Get("/{id}", h.getRoom)
		r.Put("/{id}", h.updateRoom)
		r.Delete("/{id}", h.deleteRoom)
	})
	v.Route("/agencies", func(r chi.Router) {
		r.Post("/", h.createAgency)
		r.Get("/", h.listAgencies)
		r.Get("/{id}", h.getAgency)
		r.Put("/{id}", h.updateAgency)
		r.Delete("/{id}", h.deleteAgency)
	})
	v.Route("/services", func(r chi.Router) {
		r.Post("/", h.createService)
		r.Get("/", h.listServices)
		r.Get("/{id}", h.getService)
		r.Put("/{id}", h.updateService)
		r.Delete("/{id}", h.deleteService)
	})
	v.Route("/guests", func(r chi.Router) {
		r.Post("/", h.createGuest)
		r.Get("/", h.listGuests)
		r.Get("/{id}", h.getGuest)
		r.Put("/{id}", h.updateGuest)
		r.Delete("/{id}", h.deleteGuest)
	})
}

type nameRequest struct {
	Name string `json:"name" validate:"required,max=150"`
}

type namePatchRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=150"`
}

type hotelRequest struct {
	Name        string   `json:"name" validate:"required,max=150"`
	Address     string   `json:"address" validate:"required,max=255"`
	OpeningYear int      `json:"opening_year" validate:"gte=1800,lte=2100"`
	CategoryID  int64    `json:"category_id" validate:"omitempty,gt=0"`
	Phones      []string `json:"phones" validate:"omitempty,unique,dive,required,max=30"`
}

type hotelPatchRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=150"`
	Address    *string `json:"address" validate:"omitempty,min=1,max=255"`
	CategoryID *int64  `json:"category_id" validate:"omitempty,gt=0"`
}

type roomTypeRequest struct {
	Description string  `json:"description" validate:"required,max=100"`
	Capacity    int     `json:"capacity" validate:"gt=0"`
	Value       float64 `json:"value" validate:"gte=0"`
}

type roomTypePatchRequest struct {
	Description *string  `json:"description" validate:"omitempty,min=1,max=100"`
	Capacity    *int     `json:"capacity" validate:"omitempty,gt=0"`
	Value       *float64 `json:"value" validate:"omitempty,gte=0"`
}

// No occupied field: the flag belongs to the reservation lifecycle.
type roomRequest struct {
	Number     int   `json:"number" validate:"gt=0"`
	HotelID    int64 `json:"hotel_id" validate:"gt=0"`
	RoomTypeID int64 `json:"room_type_id" validate:"gt=0"`
}

type roomPatchRequest struct {
	Number *int `json:"number" validate:"omitempty,gt=0"`
}

type serviceRequest struct {
	Name string  `json:"name" validate:"required,max=150"`
	Cost float64 `json:"cost" validate:"gte=0"`
}

type servicePatchRequest struct {
	Name *string  `json:"name" validate:"omitempty,min=1,max=150"`
	Cost *float64 `json:"cost" validate:"omitempty,gte=0"`
}

type guestRequest struct {
	IDNumber string   `json:"id_number" validate:"required,max=30"`
	IDType   string   `json:"id_type" validate:"required,max=50"`
	Name     string   `json:"name" validate:"required,max=150"`
	Address  string   `json:"address" validate:"required,max=255"`
	Phones   []string `json:"phones" validate:"omitempty,unique,dive,required,max=30"`
}

type guestPatchRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=150"`
	Address *string `json:"address" validate:"omitempty,min=1,max=255"`
}

// respond writes v with status, or the mapped error.
func respond(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, v)
}

// respondCacheable is respond for reference reads served with an ETag.
func respondCacheable(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, v)
}

func respondDeleted(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Categories

func (h *Handlers) createCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Catalog.CreateCategory(r.Context(), req.Name)
	respond(w, r, http.StatusCreated, c, err)
}

func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListCategories(r.Context())
	respondCacheable(w, r, out, err)
}

func (h *Handlers) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Catalog.GetCategory(r.Context(), id)
	respondCacheable(w, r, c, err)
}

func (h *Handlers) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req namePatchRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Catalog.UpdateCategory(r.Context(), id, domain.CategoryPatch{Name: req.Name})
	respond(w, r, http.StatusOK, c, err)
}

func (h *Handlers) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDeleted(w, r, h.Catalog.DeleteCategory(r.Context(), id))
}

// Hotels

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var req hotelRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.CreateHotel(r.Context(), domain.Hotel{
		Name:        req.Name,
		Address:     req.Address,
		OpeningYear: req.OpeningYear,
		CategoryID:  req.CategoryID,
		Phones:      req.Phones,
	})
	respond(w, r, http.StatusCreated, out, err)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListHotels(r.Context())
	respondCacheable(w, r, out, err)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.GetHotel(r.Context(), id)
	respondCacheable(w, r, out, err)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req hotelPatchRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.UpdateHotel(r.Context(), id, domain.HotelPatch{
		Name: req.Name, Address: req.Address, CategoryID: req.CategoryID,
	})
	respond(w, r, http.StatusOK, out, err)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDeleted(w, r, h.Catalog.DeleteHotel(r.Context(), id))
}

// Room types

func (h *Handlers) createRoomType(w http.ResponseWriter, r *http.Request) {
	var req roomTypeRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.CreateRoomType(r.Context(), domain.RoomType{
		Description: req.Description, Capacity: req.Capacity, Value: req.Value,
	})
	respond(w, r, http.StatusCreated, out, err)
}

func (h *Handlers) listRoomTypes(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListRoomTypes(r.Context())
	respondCacheable(w, r, out, err)
}

func (h *Handlers) getRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.GetRoomType(r.Context(), id)
	respondCacheable(w, r, out, err)
}

func (h *Handlers) updateRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req roomTypePatchRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.UpdateRoomType(r.Context(), id, domain.RoomTypePatch{
		Description: req.Description, Capacity: req.Capacity, Value: req.Value,
	})
	respond(w, r, http.StatusOK, out, err)
}

func (h *Handlers) deleteRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDeleted(w, r, h.Catalog.DeleteRoomType(r.Context(), id))
}

// Rooms

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.CreateRoom(r.Context(), domain.Room{
		Number: req.Number, HotelID: req.HotelID, RoomTypeID: req.RoomTypeID,
	})
	respond(w, r, http.StatusCreated, out, err)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListRooms(r.Context())
	respond(w, r, http.StatusOK, out, err)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.GetRoom(r.Context(), id)
	respond(w, r, http.StatusOK, out, err)
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req roomPatchRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.UpdateRoom(r.Context(), id, domain.RoomPatch{Number: req.Number})
	respond(w, r, http.StatusOK, out, err)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDeleted(w, r, h.Catalog.DeleteRoom(r.Context(), id))
}

// Agencies

func (h *Handlers) createAgency(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.CreateAgency(r.Context(), req.Name)
	respond(w, r, http.StatusCreated, out, err)
}

func (h *Handlers) listAgencies(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListAgencies(r.Context())
	respondCacheable(w, r, out, err)
}

func (h *Handlers) getAgency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.GetAgency(r.Context(), id)
	respondCacheable(w, r, out, err)
}

func (h *Handlers) updateAgency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req namePatchRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.UpdateAgency(r.Context(), id, domain.AgencyPatch{Name: req.Name})
	respond(w, r, http.StatusOK, out, err)
}

func (h *Handlers) deleteAgency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDeleted(w, r, h.Catalog.DeleteAgency(r.Context(), id))
}

// Additional services

func (h *Handlers) createService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.CreateService(r.Context(), domain.Service{Name: req.Name, Cost: req.Cost})
	respond(w, r, http.StatusCreated, out, err)
}

func (h *Handlers) listServices(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListServices(r.Context())
	respondCacheable(w, r, out, err)
}

func (h *Handlers) getService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.GetService(r.Context(), id)
	respondCacheable(w, r, out, err)
}

func (h *Handlers) updateService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req servicePatchRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.UpdateService(r.Context(), id, domain.ServicePatch{Name: req.Name, Cost: req.Cost})
	respond(w, r, http.StatusOK, out, err)
}

func (h *Handlers) deleteService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDeleted(w, r, h.Catalog.DeleteService(r.Context(), id))
}

// Guests are keyed by their identification number.

func (h *Handlers) createGuest(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.CreateGuest(r.Context(), domain.Guest{
		IDNumber: req.IDNumber,
		IDType:   req.IDType,
		Name:     req.Name,
		Address:  req.Address,
		Phones:   req.Phones,
	})
	respond(w, r, http.StatusCreated, out, err)
}

func (h *Handlers) listGuests(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListGuests(r.Context())
	respond(w, r, http.StatusOK, out, err)
}

func (h *Handlers) getGuest(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.GetGuest(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, http.StatusOK, out, err)
}

func (h *Handlers) updateGuest(w http.ResponseWriter, r *http.Request) {
	var req guestPatchRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.UpdateGuest(r.Context(), chi.URLParam(r, "id"), domain.GuestPatch{
		Name: req.Name, Address: req.Address,
	})
	respond(w, r, http.StatusOK, out, err)
}

func (h *Handlers) deleteGuest(w http.ResponseWriter, r *http.Request) {
	respondDeleted(w, r, h.Catalog.DeleteGuest(r.Context(), chi.URLParam(r, "id")))
}
