package httpserver

import (
	"net/http"
	"time"

	"tranquidescanso/internal/domain"
)

type createReservationRequest struct {
	StayStart  string    `json:"stay_start" validate:"required,datetime=2006-01-02"`
	StayEnd    string    `json:"stay_end" validate:"required,datetime=2006-01-02"`
	PartySize  int       `json:"party_size" validate:"gt=0"`
	ExpiresAt  time.Time `json:"expires_at" validate:"required"`
	AgencyID   *int64    `json:"agency_id" validate:"omitempty,gt=0"`
	RoomIDs    []int64   `json:"room_ids" validate:"required,min=1,unique,dive,gt=0"`
	ServiceIDs []int64   `json:"service_ids" validate:"omitempty,unique,dive,gt=0"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type reservationResponse struct {
	ID            int64                    `json:"id"`
	CreatedOn     string                   `json:"created_on"`
	StayStart     string                   `json:"stay_start"`
	StayEnd       string                   `json:"stay_end"`
	PartySize     int                      `json:"party_size"`
	DepositPaid   bool                     `json:"deposit_paid"`
	ExpiresAt     time.Time                `json:"expires_at"`
	AgencyID      *int64                   `json:"agency_id"`
	Rooms         []domain.ReservedRoom    `json:"rooms"`
	Services      []domain.ReservedService `json:"services"`
	CurrentStatus domain.Status            `json:"current_status"`
}

type reservationSummaryResponse struct {
	ID            int64         `json:"id"`
	StayStart     string        `json:"stay_start"`
	StayEnd       string        `json:"stay_end"`
	PartySize     int           `json:"party_size"`
	DepositPaid   bool          `json:"deposit_paid"`
	CurrentStatus domain.Status `json:"current_status"`
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	// formats were checked by the validator
	start, _ := time.Parse(dateLayout, req.StayStart)
	end, _ := time.Parse(dateLayout, req.StayEnd)

	id, err := h.Reservations.Create(r.Context(), domain.NewReservation{
		StayStart:  start,
		StayEnd:    end,
		PartySize:  req.PartySize,
		ExpiresAt:  req.ExpiresAt,
		AgencyID:   req.AgencyID,
		RoomIDs:    req.RoomIDs,
		ServiceIDs: req.ServiceIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"status":  domain.StatusConfirmed,
		"message": "reservation created",
	})
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.Reservations.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationResponse{
		ID:            v.ID,
		CreatedOn:     v.CreatedOn.Format(dateLayout),
		StayStart:     v.StayStart.Format(dateLayout),
		StayEnd:       v.StayEnd.Format(dateLayout),
		PartySize:     v.PartySize,
		DepositPaid:   v.DepositPaid,
		ExpiresAt:     v.ExpiresAt,
		AgencyID:      v.AgencyID,
		Rooms:         v.Rooms,
		Services:      v.Services,
		CurrentStatus: v.CurrentStatus,
	})
}

func (h *Handlers) listReservations(w http.ResponseWriter, r *http.Request) {
	var f domain.ReservationFilter
	q := r.URL.Query()
	if s := q.Get("status"); s != "" {
		st := domain.Status(s)
		f.Status = &st
	}
	if s := q.Get("start_from"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid start_from", "start_from must be YYYY-MM-DD")
			return
		}
		f.StartFrom = &t
	}

	rows, err := h.Reservations.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]reservationSummaryResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, reservationSummaryResponse{
			ID:            s.ID,
			StayStart:     s.StayStart.Format(dateLayout),
			StayEnd:       s.StayEnd.Format(dateLayout),
			PartySize:     s.PartySize,
			DepositPaid:   s.DepositPaid,
			CurrentStatus: s.CurrentStatus,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) changeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req changeStatusRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	st, err := h.Reservations.ChangeStatus(r.Context(), id, domain.Status(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": st})
}

func (h *Handlers) markDepositPaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Reservations.MarkDepositPaid(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "deposit_paid": true})
}

func (h *Handlers) deleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Reservations.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
