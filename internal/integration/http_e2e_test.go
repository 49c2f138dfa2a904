//go:build integration

package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"tranquidescanso/internal/adapters/events"
	httpserver "tranquidescanso/internal/adapters/http_server"
	redisad "tranquidescanso/internal/adapters/redis"
	"tranquidescanso/internal/app"
	mysqlrepo "tranquidescanso/internal/storage/mysql"
)

// ---------- helpers ----------

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=tranqui",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/tranqui?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := mysqlrepo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type client struct {
	t    *testing.T
	base string
}

func (c client) call(method, path string, body any, want int, dst any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		c.t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		c.t.Fatalf("%s %s: status %d, want %d", method, path, res.StatusCode, want)
	}
	if dst != nil {
		if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
			c.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
}

type idBody struct {
	ID int64 `json:"id"`
}

// ---------- the test ----------

func TestHTTP_EndToEnd_ReservationLifecycle(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	h := httpserver.NewHandlers(
		app.NewReservationService(repo, app.WithEvents(events.Noop{})),
		app.NewStayService(repo),
		app.NewCatalogService(repo, cache, time.Minute),
	)
	srv := httpserver.New(httpserver.Options{})
	srv.MountHandlers(h)
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	c := client{t: t, base: ts.URL}

	// Arrange catalog through the API
	var hotel, roomType, room1, room2, service idBody
	c.call(http.MethodPost, "/v1/hotels", map[string]any{
		"name": "Tranqui Centro", "address": "Calle 1", "opening_year": 1998, "phones": []string{"555-0101"},
	}, http.StatusCreated, &hotel)
	c.call(http.MethodPost, "/v1/room-types", map[string]any{
		"description": "Doble", "capacity": 2, "value": 180000,
	}, http.StatusCreated, &roomType)
	c.call(http.MethodPost, "/v1/rooms", map[string]any{
		"number": 101, "hotel_id": hotel.ID, "room_type_id": roomType.ID,
	}, http.StatusCreated, &room1)
	c.call(http.MethodPost, "/v1/rooms", map[string]any{
		"number": 102, "hotel_id": hotel.ID, "room_type_id": roomType.ID,
	}, http.StatusCreated, &room2)
	c.call(http.MethodPost, "/v1/services", map[string]any{
		"name": "Desayuno", "cost": 25000,
	}, http.StatusCreated, &service)
	c.call(http.MethodPost, "/v1/guests", map[string]any{
		"id_number": "1001", "id_type": "Cédula", "name": "Ana Pérez", "address": "Calle 2",
	}, http.StatusCreated, nil)

	// Hotels are now cached
	c.call(http.MethodGet, fmt.Sprintf("/v1/hotels/%d", hotel.ID), nil, http.StatusOK, nil)
	if !mr.Exists(fmt.Sprintf("hotel:%d", hotel.ID)) {
		t.Fatal("hotel should be cached after a read")
	}

	// Act: book both rooms
	var created struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	c.call(http.MethodPost, "/v1/reservations", map[string]any{
		"stay_start": "2026-06-01", "stay_end": "2026-06-04", "party_size": 2,
		"expires_at": "2026-05-31T12:00:00Z",
		"room_ids":   []int64{room1.ID, room2.ID}, "service_ids": []int64{service.ID},
	}, http.StatusCreated, &created)
	if created.Status != "Confirmada" {
		t.Fatalf("unexpected status %q", created.Status)
	}

	var rm struct {
		Occupied bool `json:"occupied"`
	}
	c.call(http.MethodGet, fmt.Sprintf("/v1/rooms/%d", room1.ID), nil, http.StatusOK, &rm)
	if !rm.Occupied {
		t.Fatal("room 101 should be occupied")
	}

	// Occupied rooms reject a second booking
	c.call(http.MethodPost, "/v1/reservations", map[string]any{
		"stay_start": "2026-06-01", "stay_end": "2026-06-02", "party_size": 1,
		"expires_at": "2026-05-31T12:00:00Z", "room_ids": []int64{room1.ID},
	}, http.StatusBadRequest, nil)

	// Guest checks in and out
	var stay idBody
	c.call(http.MethodPost, "/v1/stays", map[string]any{
		"reservation_id": created.ID, "guest_id": "1001", "room_id": room1.ID, "responsible": true,
	}, http.StatusCreated, &stay)
	c.call(http.MethodPost, fmt.Sprintf("/v1/stays/%d/checkout", stay.ID), map[string]any{
		"check_out_on": "2026-06-04",
	}, http.StatusOK, nil)

	// Cancel frees the rooms
	path := fmt.Sprintf("/v1/reservations/%d", created.ID)
	c.call(http.MethodPut, path+"/status", map[string]string{"status": "Cancelada"}, http.StatusOK, nil)
	c.call(http.MethodGet, fmt.Sprintf("/v1/rooms/%d", room2.ID), nil, http.StatusOK, &rm)
	if rm.Occupied {
		t.Fatal("room 102 should be free after cancel")
	}

	var view struct {
		CurrentStatus string `json:"current_status"`
		Rooms         []any  `json:"rooms"`
	}
	c.call(http.MethodGet, path, nil, http.StatusOK, &view)
	if view.CurrentStatus != "Cancelada" || len(view.Rooms) != 2 {
		t.Fatalf("unexpected view: %+v", view)
	}

	c.call(http.MethodDelete, path, nil, http.StatusNoContent, nil)
	c.call(http.MethodGet, path, nil, http.StatusNotFound, nil)
}
