// Command score-backfill recomputes scores for the whole population in one
// sequential pass, without going through redis. Useful after schema changes
// or scoring model updates.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"rental_portal_backend/internal/creditscore"
	"rental_portal_backend/internal/events"
	"rental_portal_backend/internal/records/repository"
	"rental_portal_backend/migrations"
	"rental_portal_backend/platform/config"
	"rental_portal_backend/platform/db"
	"rental_portal_backend/platform/logger"
)

func main() {
	limit := flag.Int("limit", 0, "stop after this many users (0 = all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting score backfill", "env", cfg.Env, "limit", *limit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg, migrations.FS()); err != nil {
		log.Error("failed to run migrations", "error", err)
		panic("failed to run migrations: " + err.Error())
	}

	repo := repository.New(pool)
	service := creditscore.NewService(repo, events.NewInMemoryBus(log), log, cfg)

	batchSize := cfg.GetScanBatchSize()
	if batchSize < 1 {
		batchSize = 1500
	}

	var processed, failed int
	skip := 0
loop:
	for {
		ids, err := repo.ListUserIDs(ctx, skip, batchSize)
		if err != nil {
			log.DatabaseError("list user ids", err)
			os.Exit(1)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if ctx.Err() != nil {
				log.Warn("backfill interrupted", "processed", processed)
				break loop
			}
			if *limit > 0 && processed >= *limit {
				break loop
			}

			processed++
			if _, err := service.Refresh(ctx, id); err != nil {
				failed++
				log.JobFailed("score-backfill", id.String(), err)
			}
		}

		if len(ids) < batchSize {
			break
		}
		skip += batchSize
	}

	log.Info("score backfill finished", "processed", processed, "failed", failed)
}
