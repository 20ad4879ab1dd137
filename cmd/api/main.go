package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jwalitptl/encounter-api/internal/auth"
	"github.com/jwalitptl/encounter-api/internal/config"
	"github.com/jwalitptl/encounter-api/internal/event"
	auditHandler "github.com/jwalitptl/encounter-api/internal/handler/audit"
	encounterHandler "github.com/jwalitptl/encounter-api/internal/handler/encounter"
	"github.com/jwalitptl/encounter-api/internal/handler/health"
	prometheusHandler "github.com/jwalitptl/encounter-api/internal/handler/prometheus"
	"github.com/jwalitptl/encounter-api/internal/httpserver"
	"github.com/jwalitptl/encounter-api/internal/repository"
	"github.com/jwalitptl/encounter-api/internal/repository/memory"
	"github.com/jwalitptl/encounter-api/internal/repository/postgres"
	encounterService "github.com/jwalitptl/encounter-api/internal/service/encounter"
	"github.com/jwalitptl/encounter-api/pkg/clock"
	"github.com/jwalitptl/encounter-api/pkg/idgen"
	"github.com/jwalitptl/encounter-api/pkg/logger"
	"github.com/jwalitptl/encounter-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Output: os.Stdout,
	})

	encounterRepo, auditRepo, err := buildRepositories(cfg)
	if err != nil {
		log.Fatal(err, "failed to initialize storage", nil)
	}

	publisher, err := buildPublisher(cfg)
	if err != nil {
		log.Fatal(err, "failed to connect to redis", nil)
	}
	defer publisher.Close()

	appMetrics := metrics.New("encounter_api")

	svc := encounterService.NewService(
		encounterRepo,
		auditRepo,
		clock.NewSystemClock(),
		idgen.NewUUIDGenerator(),
		log,
		encounterService.WithEvents(publisher),
		encounterService.WithMetrics(appMetrics),
	)

	authenticator := auth.NewAPIKeyAuthenticator()

	serverOpts := []httpserver.Option{httpserver.WithMetrics(appMetrics)}
	if cfg.RateLimit.Enabled {
		serverOpts = append(serverOpts, httpserver.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	srv := httpserver.NewServer(log, serverOpts...)

	health.NewHandler(log).RegisterRoutes(srv)
	prometheusHandler.NewHandler(nil).RegisterRoutes(srv)
	encounterHandler.NewHandler(svc, authenticator, log).RegisterRoutes(srv)
	auditHandler.NewHandler(svc, authenticator, log).RegisterRoutes(srv)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting encounter service", map[string]interface{}{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
		})
		errCh <- srv.ListenAndServe(cfg.Server.Host, cfg.Server.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal(err, "server failed", nil)
		}
	case <-quit:
		log.Info("shutting down server...", nil)
		srv.Stop()
		<-errCh
	}
}

func buildRepositories(cfg *config.Config) (repository.EncounterRepository, repository.AuditRepository, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return memory.NewEncounterRepository(), memory.NewAuditRepository(), nil
	case "postgres":
		db, err := postgres.NewDB(cfg.Storage.Database)
		if err != nil {
			return nil, nil, err
		}
		base := postgres.NewBaseRepository(db)
		return postgres.NewEncounterRepository(base), postgres.NewAuditRepository(base), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func buildPublisher(cfg *config.Config) (event.Publisher, error) {
	if !cfg.Redis.Enabled {
		return event.NewNoopPublisher(), nil
	}
	return event.NewRedisPublisher(cfg.Redis.URL, cfg.Redis.Channel)
}
