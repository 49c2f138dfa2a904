package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tranquidescanso/internal/app"
	"tranquidescanso/internal/app/apptest"
	"tranquidescanso/internal/domain"
)

type fakeCatalog struct {
	domain.CatalogRepository
	categories []domain.Category
}

func (f *fakeCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalog) GetCategory(_ context.Context, id int64) (domain.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Category{}, domain.NotFoundID("category", id)
}

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	store.AddRoom(apptest.Room{ID: 101, Number: 101, Type: "Doble"})
	store.AddRoom(apptest.Room{ID: 102, Number: 102, Type: "Doble"})
	store.AddService(domain.ReservedService{ID: 1, Name: "Desayuno", Cost: 25000})
	store.AddGuest("1001", "Cédula", "Ana Pérez")

	cat := &fakeCatalog{categories: []domain.Category{{ID: 1, Name: "General", ChangedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}}}
	h := NewHandlers(
		app.NewReservationService(store),
		app.NewStayService(store),
		app.NewCatalogService(cat, nil, 0),
	)
	s := New(opts)
	s.MountHandlers(h)
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)
	return ts, store
}

func do(t *testing.T, method, url, body string, hdr ...string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func decodeBody(t *testing.T, res *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(res.Body).Decode(dst))
}

const createBody = `{"stay_start":"2026-06-01","stay_end":"2026-06-04","party_size":2,
"expires_at":"2026-05-31T12:00:00Z","room_ids":[101,102],"service_ids":[1]}`

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	res := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestReservationRoutes(t *testing.T) {
	ts, store := newTestServer(t, Options{})

	res := do(t, http.MethodPost, ts.URL+"/v1/reservations", createBody)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, res, &created)
	assert.Equal(t, "Confirmada", created.Status)
	assert.True(t, store.Room(101).Occupied)

	url := ts.URL + "/v1/reservations/" + jsonID(created.ID)
	res = do(t, http.MethodGet, url, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var got reservationResponse
	decodeBody(t, res, &got)
	assert.Equal(t, "2026-06-01", got.StayStart)
	assert.Len(t, got.Rooms, 2)
	assert.Len(t, got.Services, 1)
	assert.Equal(t, domain.StatusConfirmed, got.CurrentStatus)

	// second booking of an occupied room is a client error
	res = do(t, http.MethodPost, ts.URL+"/v1/reservations", createBody)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, http.MethodPut, url+"/status", `{"status":"Pendiente"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, http.MethodPut, url+"/status", `{"status":"Cancelada"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, store.Room(101).Occupied)

	res = do(t, http.MethodGet, ts.URL+"/v1/reservations?status=Cancelada", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list []reservationSummaryResponse
	decodeBody(t, res, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	res = do(t, http.MethodPut, url+"/deposit", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res = do(t, http.MethodDelete, url, "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res = do(t, http.MethodGet, url, "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "application/problem+json", res.Header.Get("Content-Type"))
}

func TestCreateReservationValidation(t *testing.T) {
	ts, store := newTestServer(t, Options{})
	cases := map[string]string{
		"no rooms":         `{"stay_start":"2026-06-01","stay_end":"2026-06-04","party_size":2,"expires_at":"2026-05-31T12:00:00Z","room_ids":[]}`,
		"duplicate rooms":  `{"stay_start":"2026-06-01","stay_end":"2026-06-04","party_size":2,"expires_at":"2026-05-31T12:00:00Z","room_ids":[101,101]}`,
		"bad date":         `{"stay_start":"01/06/2026","stay_end":"2026-06-04","party_size":2,"expires_at":"2026-05-31T12:00:00Z","room_ids":[101]}`,
		"end before start": `{"stay_start":"2026-06-04","stay_end":"2026-06-01","party_size":2,"expires_at":"2026-05-31T12:00:00Z","room_ids":[101]}`,
		"unknown field":    `{"stay_start":"2026-06-01","stay_end":"2026-06-04","party_size":2,"expires_at":"2026-05-31T12:00:00Z","room_ids":[101],"vip":true}`,
		"malformed":        `{"stay_start":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			res := do(t, http.MethodPost, ts.URL+"/v1/reservations", body)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		})
	}
	reservations, _, _, _ := store.Counts()
	assert.Zero(t, reservations)

	res := do(t, http.MethodGet, ts.URL+"/v1/reservations/abc", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res = do(t, http.MethodGet, ts.URL+"/v1/reservations?start_from=junio", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestStayRoutes(t *testing.T) {
	ts, _ := newTestServer(t, Options{})

	res := do(t, http.MethodPost, ts.URL+"/v1/stays", `{"reservation_id":1,"guest_id":"1001","room_id":101,"responsible":true,"has_pet":true}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var stay stayResponse
	decodeBody(t, res, &stay)
	assert.Nil(t, stay.CheckOutOn)

	res = do(t, http.MethodGet, ts.URL+"/v1/stays/pets", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var pets []petStayResponse
	decodeBody(t, res, &pets)
	assert.Len(t, pets, 1)

	res = do(t, http.MethodPost, ts.URL+"/v1/stays/"+jsonID(stay.ID)+"/checkout", `{"check_out_on":"2026-06-04"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out struct {
		OK         bool   `json:"ok"`
		CheckOutOn string `json:"check_out_on"`
	}
	decodeBody(t, res, &out)
	assert.True(t, out.OK)
	assert.Equal(t, "2026-06-04", out.CheckOutOn)

	res = do(t, http.MethodGet, ts.URL+"/v1/stays", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var active []staySummaryResponse
	decodeBody(t, res, &active)
	assert.Empty(t, active)

	res = do(t, http.MethodPost, ts.URL+"/v1/stays", `{"reservation_id":1,"guest_id":"9999","room_id":101}`)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCatalogETag(t *testing.T) {
	ts, _ := newTestServer(t, Options{})

	res := do(t, http.MethodGet, ts.URL+"/v1/categories", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	etag := res.Header.Get("ETag")
	require.True(t, strings.HasPrefix(etag, `W/"`))

	res = do(t, http.MethodGet, ts.URL+"/v1/categories", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, res.StatusCode)

	res = do(t, http.MethodGet, ts.URL+"/v1/categories/7", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRateLimit(t *testing.T) {
	ts, _ := newTestServer(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 1})

	res := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res = do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Equal(t, "1", res.Header.Get("Retry-After"))
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
