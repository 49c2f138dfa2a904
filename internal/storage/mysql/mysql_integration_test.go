//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"tranquidescanso/internal/app"
	"tranquidescanso/internal/domain"
	mysqlrepo "tranquidescanso/internal/storage/mysql"
)

// startMySQL runs an isolated MySQL and applies the embedded migrations.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=tranqui",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
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

// seedRooms creates one hotel with rooms 101..(100+n) and returns their ids.
func seedRooms(t *testing.T, repo *mysqlrepo.Repo, n int) []int64 {
	t.Helper()
	ctx := context.Background()
	hotelID, err := repo.CreateHotel(ctx, domain.Hotel{Name: "Tranqui Centro", Address: "Calle 1", OpeningYear: 1998, CategoryID: 1, Phones: []string{"555-0101"}})
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	typeID, err := repo.CreateRoomType(ctx, domain.RoomType{Description: "Doble", Capacity: 2, Value: 180000})
	if err != nil {
		t.Fatalf("CreateRoomType: %v", err)
	}
	var ids []int64
	for i := 1; i <= n; i++ {
		id, err := repo.CreateRoom(ctx, domain.Room{Number: 100 + i, HotelID: hotelID, RoomTypeID: typeID})
		if err != nil {
			t.Fatalf("CreateRoom: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestRepo_MySQL_ReservationLifecycle(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()
	rooms := seedRooms(t, repo, 2)

	svcID, err := repo.CreateService(ctx, domain.Service{Name: "Desayuno", Cost: 25000})
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	svc := app.NewReservationService(repo)
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	id, err := svc.Create(ctx, domain.NewReservation{
		StayStart:  start,
		StayEnd:    start.AddDate(0, 0, 3),
		PartySize:  2,
		ExpiresAt:  start.Add(-12 * time.Hour),
		RoomIDs:    rooms,
		ServiceIDs: []int64{svcID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	view, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.CurrentStatus != domain.StatusConfirmed || len(view.Rooms) != 2 || len(view.Services) != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
	for _, rid := range rooms {
		rm, err := repo.GetRoom(ctx, rid)
		if err != nil || !rm.Occupied {
			t.Fatalf("room %d should be occupied: %+v %v", rid, rm, err)
		}
	}

	// The same rooms cannot be booked twice.
	if _, err := svc.Create(ctx, domain.NewReservation{
		StayStart: start, StayEnd: start.AddDate(0, 0, 1), PartySize: 1, ExpiresAt: start, RoomIDs: rooms[:1],
	}); err == nil {
		t.Fatal("expected conflict on occupied room")
	}

	if _, err := svc.ChangeStatus(ctx, id, domain.StatusCancelled); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	for _, rid := range rooms {
		rm, _ := repo.GetRoom(ctx, rid)
		if rm.Occupied {
			t.Fatalf("room %d should be free after cancel", rid)
		}
	}

	// Nothing drifted, so the reconciler has no work.
	drift, err := repo.ReconcileHotel(ctx, 1, true)
	if err != nil {
		t.Fatalf("ReconcileHotel: %v", err)
	}
	if len(drift) != 0 {
		t.Fatalf("unexpected drift: %+v", drift)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, id); err == nil {
		t.Fatal("reservation should be gone")
	}
}

func TestRepo_MySQL_ConcurrentDoubleBooking(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	rooms := seedRooms(t, repo, 1)
	svc := app.NewReservationService(repo)
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), domain.NewReservation{
				StayStart: start, StayEnd: start.AddDate(0, 0, 2), PartySize: 1, ExpiresAt: start, RoomIDs: rooms,
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one booking to win, got %d", wins)
	}
}
