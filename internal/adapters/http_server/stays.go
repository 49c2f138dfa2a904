package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"tranquidescanso/internal/domain"
)

type checkInRequest struct {
	ReservationID int64  `json:"reservation_id" validate:"gt=0"`
	GuestID       string `json:"guest_id" validate:"required,max=30"`
	RoomID        int64  `json:"room_id" validate:"gt=0"`
	Responsible   bool   `json:"responsible"`
	HasPet        bool   `json:"has_pet"`
}

type checkOutRequest struct {
	CheckOutOn string `json:"check_out_on" validate:"omitempty,datetime=2006-01-02"`
}

type stayResponse struct {
	ID            int64     `json:"id"`
	ReservationID int64     `json:"reservation_id"`
	GuestID       string    `json:"guest_id"`
	RoomID        int64     `json:"room_id"`
	CheckInAt     time.Time `json:"check_in_at"`
	CheckOutOn    *string   `json:"check_out_on"`
	Responsible   bool      `json:"responsible"`
	HasPet        bool      `json:"has_pet"`
	IsMinor       bool      `json:"is_minor"`
}

type staySummaryResponse struct {
	ID            int64     `json:"id"`
	ReservationID int64     `json:"reservation_id"`
	GuestName     string    `json:"guest_name"`
	RoomNumber    int       `json:"room_number"`
	CheckInAt     time.Time `json:"check_in_at"`
	CheckOutOn    *string   `json:"check_out_on"`
	Responsible   bool      `json:"responsible"`
	HasPet        bool      `json:"has_pet"`
}

type minorResponse struct {
	GuestID    string `json:"guest_id"`
	Name       string `json:"name"`
	RoomNumber int    `json:"room_number"`
}

type petStayResponse struct {
	StayID     int64     `json:"stay_id"`
	GuestName  string    `json:"guest_name"`
	RoomNumber int       `json:"room_number"`
	CheckInAt  time.Time `json:"check_in_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toStayResponse(rec domain.StayRecord) stayResponse {
	return stayResponse{
		ID:            rec.ID,
		ReservationID: rec.ReservationID,
		GuestID:       rec.GuestID,
		RoomID:        rec.RoomID,
		CheckInAt:     rec.CheckInAt,
		CheckOutOn:    formatDate(rec.CheckOutOn),
		Responsible:   rec.Responsible,
		HasPet:        rec.HasPet,
		IsMinor:       rec.IsMinor,
	}
}

func (h *Handlers) checkIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := h.Stays.CheckIn(r.Context(), domain.NewStay{
		ReservationID: req.ReservationID,
		GuestID:       req.GuestID,
		RoomID:        req.RoomID,
		Responsible:   req.Responsible,
		HasPet:        req.HasPet,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStayResponse(rec))
}

func (h *Handlers) getStay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := h.Stays.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStayResponse(rec))
}

func (h *Handlers) checkOut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req checkOutRequest
	if r.ContentLength != 0 {
		if err := h.decode(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	var on time.Time
	if req.CheckOutOn != "" {
		on, _ = time.Parse(dateLayout, req.CheckOutOn)
	}
	rec, err := h.Stays.CheckOut(r.Context(), id, on)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"id":           rec.ID,
		"check_out_on": formatDate(rec.CheckOutOn),
	})
}

func (h *Handlers) listStays(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if s := r.URL.Query().Get("active_only"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid active_only", "active_only must be a boolean")
			return
		}
		activeOnly = b
	}
	rows, err := h.Stays.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]staySummaryResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, staySummaryResponse{
			ID:            s.ID,
			ReservationID: s.ReservationID,
			GuestName:     s.GuestName,
			RoomNumber:    s.RoomNumber,
			CheckInAt:     s.CheckInAt,
			CheckOutOn:    formatDate(s.CheckOutOn),
			Responsible:   s.Responsible,
			HasPet:        s.HasPet,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listMinors(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Stays.MinorsStaying(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]minorResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, minorResponse{GuestID: m.GuestID, Name: m.Name, RoomNumber: m.RoomNumber})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listPets(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Stays.PetStays(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]petStayResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, petStayResponse{StayID: p.StayID, GuestName: p.GuestName, RoomNumber: p.RoomNumber, CheckInAt: p.CheckInAt})
	}
	writeJSON(w, http.StatusOK, out)
}
