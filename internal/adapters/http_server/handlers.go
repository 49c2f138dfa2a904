package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"tranquidescanso/internal/app"
	"tranquidescanso/internal/domain"
)

const dateLayout = "2006-01-02"

type Handlers struct {
	Reservations *app.ReservationService
	Stays        *app.StayService
	Catalog      *app.CatalogService

	validate *validator.Validate
}

func NewHandlers(r *app.ReservationService, s *app.StayService, c *app.CatalogService) *Handlers {
	return &Handlers{
		Reservations: r,
		Stays:        s,
		Catalog:      c,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Tranqui Descanso reservation API"})
	})

	s.mux.Route("/v1", func(v chi.Router) {
		v.Route("/reservations", func(r chi.Router) {
			r.Post("/", h.createReservation)
			r.Get("/", h.listReservations)
			r.Get("/{id}", h.getReservation)
			r.Delete("/{id}", h.deleteReservation)
			r.Put("/{id}/status", h.changeStatus)
			r.Put("/{id}/deposit", h.markDepositPaid)
		})
		v.Route("/stays", func(r chi.Router) {
			r.Post("/", h.checkIn)
			r.Get("/", h.listStays)
			r.Get("/minors", h.listMinors)
			r.Get("/pets", h.listPets)
			r.Get("/{id}", h.getStay)
			r.Post("/{id}/checkout", h.checkOut)
		})
		h.mountCatalog(v)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error kinds onto statuses. Store causes are
// logged, never echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", publicDetail(err))
	case errors.Is(err, domain.ErrInvalid):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", publicDetail(err))
	case errors.Is(err, domain.ErrConflict):
		if errors.Unwrap(err) != nil {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("write rejected")
		}
		writeProblem(w, http.StatusBadRequest, "Bad Request", publicDetail(err))
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected storage failure")
	}
}

func publicDetail(err error) string {
	var ee *domain.EntityError
	if !errors.As(err, &ee) {
		return ""
	}
	msg := ee.Entity + " " + ee.Kind.Error()
	if ee.Detail != "" {
		msg += ": " + ee.Detail
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable serves reference data with a weak ETag and honours If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

// decode reads a JSON body into dst and runs the struct validation tags.
func (h *Handlers) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("body", "malformed JSON: "+err.Error())
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			parts := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return domain.Invalid("body", strings.Join(parts, "; "))
		}
		return domain.Invalid("body", err.Error())
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "must be a positive integer")
	}
	return id, nil
}
