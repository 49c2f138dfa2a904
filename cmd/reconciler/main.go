package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tranquidescanso/internal/adapters/observability"
	"tranquidescanso/internal/app"
	"tranquidescanso/internal/shared"
	mysqlrepo "tranquidescanso/internal/storage/mysql"
)

// reconciler walks every hotel and rewrites room occupied flags that drifted
// from the rooms' live reservations.
func main() {
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Int("workers", cfg.ReconcileWorkers).
		Bool("dry_run", cfg.ReconcileDryRun).
		Msg("reconciler starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	svc := app.NewReconcileService(mysqlrepo.New(db))
	ids, err := svc.HotelIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list hotels failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.ReconcileWorkers))
	var (
		wg     sync.WaitGroup
		drift  atomic.Int64
		failed atomic.Int64
	)

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("reconcile interrupted")
			break
		}

		wg.Add(1)
		go func(hotelID int64) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := svc.ReconcileHotel(ctx, hotelID, cfg.ReconcileDryRun)
			if err != nil {
				failed.Add(1)
				log.Warn().Int64("hotel_id", hotelID).Err(err).Msg("reconcile failed")
				return
			}
			drift.Add(int64(n))
			log.Info().Int64("hotel_id", hotelID).Int("drift", n).Msg("reconcile ok")
		}(id)
	}

	wg.Wait()
	log.Info().
		Int("hotels", len(ids)).
		Int64("drifted_rooms", drift.Load()).
		Int64("failed", failed.Load()).
		Msg("reconcile completed")
}
