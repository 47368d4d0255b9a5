package main

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"yacht_automate/internal/adapters/observability"
	redisad "yacht_automate/internal/adapters/redis"
	"yacht_automate/internal/app"
	"yacht_automate/internal/domain"
	"yacht_automate/internal/shared"
	mysqlrepo "yacht_automate/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if len(cfg.SeedTenants) == 0 {
		log.Fatal().Msg("SEED_TENANTS is empty, nothing to seed")
	}
	log.Info().
		Strs("tenants", cfg.SeedTenants).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	tenants := app.NewTenantService(repo, repo)
	seeder := app.NewSeedService(repo, repo, app.NewSearchService(repo, repo, cache, cfg.CacheTTL))

	workers := cfg.SeedWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, id := range cfg.SeedTenants {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(tenantID string) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := tenants.Get(ctx, tenantID); errors.Is(err, domain.ErrTenantNotFound) {
				if _, err := tenants.Upsert(ctx, app.TenantInput{ID: tenantID, Name: tenantID}); err != nil {
					log.Warn().Str("tenant", tenantID).Err(err).Msg("create tenant failed")
					failed.Add(1)
					return
				}
			} else if err != nil {
				log.Warn().Str("tenant", tenantID).Err(err).Msg("tenant lookup failed")
				failed.Add(1)
				return
			}

			n, err := seeder.SeedFleet(ctx, tenantID)
			if err != nil {
				log.Warn().Str("tenant", tenantID).Int("seeded", n).Err(err).Msg("seed failed")
				failed.Add(1)
				return
			}
			log.Info().Str("tenant", tenantID).Int("seeded", n).Msg("seed ok")
		}(id)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Fatal().Int32("failed", n).Msg("seeding finished with failures")
	}
	log.Info().Msg("seeding completed")
}
