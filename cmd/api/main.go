package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "yacht_automate/internal/adapters/http_server"
	"yacht_automate/internal/adapters/mailer"
	"yacht_automate/internal/adapters/observability"
	redisad "yacht_automate/internal/adapters/redis"
	"yacht_automate/internal/app"
	"yacht_automate/internal/shared"
	mysqlrepo "yacht_automate/internal/storage/mysql"
)

var version = "dev"

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Msg("database connection ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, cache calls will fail open")
	}

	// deps
	repo := mysqlrepo.New(db)

	var alerter observability.Alerter = observability.LogAlerter{}
	if cfg.SMTPConfigured() {
		alerter = mailer.AlertMailer{
			Sender: mailer.NewSMTPSender(mailer.SMTPConfig{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass}, 1),
			To:     cfg.AlertEmail,
			Env:    cfg.AppEnv,
		}
	}
	mon := observability.NewMonitor(observability.MonitorConfig{
		Interval: cfg.HealthInterval, MaxErrors: cfg.HealthMaxErrors, Env: cfg.AppEnv,
	}, alerter)

	queue := mailer.NewQueue(cfg.MailQueueSize)
	worker := mailer.NewWorker(queue, mailer.NewTenantRouter(repo, mailer.LogSender{}, 2), repo, cfg.MailMaxRetries)
	worker.OnError(mon.RecordError)

	search := app.NewSearchService(repo, repo, cache, cfg.CacheTTL)
	match := app.NewMatchService(repo)
	h := &server.Handlers{
		Search:        search,
		Match:         match,
		Leads:         app.NewLeadService(repo, repo, match, queue),
		Quotes:        app.NewQuoteService(repo, repo),
		Seed:          app.NewSeedService(repo, repo, search),
		Tenants:       app.NewTenantService(repo, repo),
		Monitor:       mon,
		AdminKey:      cfg.AdminKey,
		RatePerMinute: cfg.RatePerMinute,
		Idem:          redisad.NewIdempotency(cache),
		IdemTTL:       cfg.IdempotencyTTL,
		Version:       version,
		Env:           cfg.AppEnv,
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := mon.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("monitor start failed")
	}
	defer mon.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return worker.Run(gctx) })
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("version", version).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		mon.Stop()
		os.Exit(1)
	}
	log.Info().Msg("bye")
}
