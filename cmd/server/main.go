package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"museforge/internal/admin"
	compliancehandler "museforge/internal/compliance/handler"
	compliancemetrics "museforge/internal/compliance/metrics"
	complianceports "museforge/internal/compliance/ports"
	complianceservice "museforge/internal/compliance/service"
	"museforge/internal/compliance/store/record"
	"museforge/internal/credits"
	"museforge/internal/credits/balance"
	"museforge/internal/credits/flow"
	creditshandler "museforge/internal/credits/handler"
	creditsmetrics "museforge/internal/credits/metrics"
	creditports "museforge/internal/credits/ports"
	"museforge/internal/credits/pricing"
	"museforge/internal/jwttoken"
	libraryhandler "museforge/internal/library/handler"
	libraryports "museforge/internal/library/ports"
	libraryservice "museforge/internal/library/service"
	"museforge/internal/library/store/asset"
	"museforge/internal/payments"
	paymentshandler "museforge/internal/payments/handler"
	"museforge/internal/persona"
	personahandler "museforge/internal/persona/handler"
	personametrics "museforge/internal/persona/metrics"
	personaports "museforge/internal/persona/ports"
	personaservice "museforge/internal/persona/service"
	"museforge/internal/persona/store/draft"
	"museforge/internal/persona/store/profile"
	"museforge/internal/platform/config"
	"museforge/internal/platform/httpserver"
	"museforge/internal/platform/logger"
	appmetrics "museforge/internal/platform/metrics"
	redisplatform "museforge/internal/platform/redis"
	httpapi "museforge/internal/transport/http"
	id "museforge/pkg/domain"
	"museforge/pkg/notify"
	"museforge/pkg/platform/audit"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and supervises the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	checks := map[string]httpapi.HealthCheck{}
	if redisClient != nil {
		checks["redis"] = redisClient.Health
	}

	// Store selection: postgres when a DSN is configured, redis for the
	// key-value shaped records, in-memory as the development fallback.
	var complianceStore complianceports.RecordStore = record.NewInMemoryStore()
	var assetStore libraryports.AssetStore = asset.NewInMemoryStore()
	var draftStore personaports.DraftStore = draft.NewInMemoryStore()
	if redisClient != nil {
		complianceStore = record.NewRedisStore(redisClient.Client)
		draftStore = draft.NewRedisStore(redisClient.Client)
	}
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}

		pgRecords := record.NewPostgresStore(db)
		if err := pgRecords.EnsureSchema(ctx); err != nil {
			return err
		}
		complianceStore = pgRecords

		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		pgAssets := asset.NewPostgresStore(pool)
		if err := pgAssets.EnsureSchema(ctx); err != nil {
			return err
		}
		assetStore = pgAssets

		checks["postgres"] = db.PingContext
	}

	auditOpts := []audit.PublisherOption{
		audit.WithLogger(log),
		audit.WithAsyncBuffer(256),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer sink.Close()
		auditOpts = append(auditOpts, audit.WithSink(sink))
	}
	auditStore := audit.NewInMemoryStore()
	auditPublisher, err := audit.NewPublisher(auditStore, auditOpts...)
	if err != nil {
		return err
	}

	notifier := notify.NewLogNotifier(log)
	jwtValidator := jwttoken.NewJWTServiceAdapter(
		jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience))

	complianceSvc, err := complianceservice.New(complianceStore,
		complianceservice.WithLogger(log),
		complianceservice.WithNotifier(notifier),
		complianceservice.WithAuditPublisher(auditPublisher),
		complianceservice.WithMetrics(compliancemetrics.New()),
	)
	if err != nil {
		return err
	}

	var balances creditports.BalanceSource = balance.NewRESTSource(cfg.Payments.BaseURL, cfg.Payments.Timeout)
	if redisClient != nil {
		balances, err = balance.NewCachedSource(balances, redisClient.Client, balance.WithCacheLogger(log))
		if err != nil {
			return err
		}
	}
	flows, err := flow.NewManager(
		pricing.NewClient(cfg.Pricing.BaseURL, cfg.Pricing.Timeout),
		balances,
		payments.NewClient(cfg.Payments.BaseURL, cfg.Payments.Timeout),
		flow.WithLogger(log),
		flow.WithNotifier(notifier),
		flow.WithAuditPublisher(auditPublisher),
		flow.WithMetrics(creditsmetrics.New()),
	)
	if err != nil {
		return err
	}

	librarySvc, err := libraryservice.New(assetStore, libraryservice.WithLogger(log))
	if err != nil {
		return err
	}

	personaSvc, err := personaservice.New(draftStore, profile.NewInMemoryStore(), complianceSvc,
		personaservice.WithLogger(log),
		personaservice.WithNotifier(notifier),
		personaservice.WithAuditPublisher(auditPublisher),
		personaservice.WithMetrics(personametrics.New()),
	)
	if err != nil {
		return err
	}

	creditsHandler := creditshandler.New(flows, log, jwtValidator)
	creditsHandler.RegisterExecutor(persona.CreateItemID,
		creditshandler.ExecutorFunc(func(ctx context.Context, userID id.UserID, _ credits.Quote) error {
			_, err := personaSvc.Finalize(ctx, userID)
			return err
		}))

	modules := []httpapi.Registrar{
		compliancehandler.New(complianceSvc, log, jwtValidator),
		creditsHandler,
		libraryhandler.New(librarySvc, log, jwtValidator),
		personahandler.New(personaSvc, flows, log, jwtValidator),
		paymentshandler.New(log),
	}
	if cfg.Admin.TokenHash != "" {
		modules = append(modules, admin.New(cfg.Admin.TokenHash, auditStore, complianceSvc, auditPublisher, log))
	}

	router := httpapi.NewRouter(appmetrics.New(), checks, modules...)
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := auditPublisher.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting museforge server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
