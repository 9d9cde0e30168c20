package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/ayucare/internal/adapters/cache"
	"github.com/zatekoja/ayucare/internal/adapters/database"
	"github.com/zatekoja/ayucare/internal/adapters/events"
	"github.com/zatekoja/ayucare/internal/adapters/search"
	"github.com/zatekoja/ayucare/internal/api/handlers"
	"github.com/zatekoja/ayucare/internal/api/middleware"
	"github.com/zatekoja/ayucare/internal/api/routes"
	"github.com/zatekoja/ayucare/internal/application/services"
	"github.com/zatekoja/ayucare/internal/domain/providers"
	"github.com/zatekoja/ayucare/internal/domain/repositories"
	"github.com/zatekoja/ayucare/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/ayucare/internal/infrastructure/clients/redis"
	"github.com/zatekoja/ayucare/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/ayucare/internal/infrastructure/observability"
	"github.com/zatekoja/ayucare/pkg/config"
	"github.com/zatekoja/ayucare/pkg/secrets"
)

func main() {
	observability.InitLogger("ayucare-api", os.Getenv("APP_ENV"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vaultResult, err := secrets.ApplyVaultSecrets(ctx, secrets.VaultConfigFromEnv("api"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load secrets from Vault")
	}
	if vaultResult.Enabled {
		log.Info().Str("path", vaultResult.Path).Int("loaded", vaultResult.Loaded).Int("skipped", vaultResult.Skipped).Msg("Vault secrets applied")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	if err := pgClient.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}
	log.Info().Msg("PostgreSQL client initialized successfully")

	// Redis is optional; without it there is no caching and no event bus
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Redis client; continuing without cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
			log.Info().Msg("Redis client initialized successfully")
		}
	}

	var searchRepo repositories.DoctorSearchRepository
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Typesense client; search falls back to the database")
		} else {
			adapter := search.NewTypesenseAdapter(tsClient)
			if err := adapter.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to init Typesense schema")
			}
			searchRepo = adapter
		}
	}

	userAdapter := database.NewUserAdapter(pgClient)
	patientAdapter := database.NewPatientAdapter(pgClient)
	appointmentAdapter := database.NewAppointmentAdapter(pgClient)
	var doctorAdapter repositories.DoctorRepository = database.NewDoctorAdapter(pgClient)
	if cacheProvider != nil {
		doctorAdapter = database.NewCachedDoctorAdapter(doctorAdapter, cacheProvider, metrics)
	}

	authService := services.NewAuthService(userAdapter, patientAdapter, doctorAdapter, cfg.Auth.BcryptCost)
	doctorService := services.NewDoctorService(doctorAdapter, patientAdapter, searchRepo, eventBus)
	appointmentService := services.NewAppointmentService(appointmentAdapter, doctorAdapter, patientAdapter)

	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
			cacheInvalidationService = nil
		}
	}

	authLimiter := middleware.NewRateLimiter(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst)
	authLimiter.StartCleanup(ctx, 10*time.Minute)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(
		handlers.NewUserHandler(authService, doctorService),
		handlers.NewAppointmentHandler(appointmentService),
		routes.Options{
			AuthLimiter:     authLimiter,
			CacheMiddleware: cacheMiddleware,
			AllowedOrigins:  cfg.Server.AllowedOrigins,
			Metrics:         metrics,
		},
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}
