// Command admin runs the operator tasks the public API does not expose:
// applying the schema, toggling doctor availability, editing ratings and
// rebuilding the search index.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/ayucare/internal/adapters/cache"
	"github.com/zatekoja/ayucare/internal/adapters/database"
	"github.com/zatekoja/ayucare/internal/adapters/events"
	"github.com/zatekoja/ayucare/internal/adapters/search"
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

const usage = `usage: admin <command> [flags]

commands:
  migrate                                  apply the database schema
  set-availability -id ID -available=BOOL  open or close a doctor for booking
  set-rating -id ID -rating R -reviews N   set a doctor's rating
  reindex [-interval 6h]                   rebuild the doctor search index
  seed [-reset] [-password P]              create the demo doctor directory
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	observability.InitLogger("ayucare-admin", os.Getenv("APP_ENV"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("Command failed")
	}
}

func run(ctx context.Context, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	id := fs.String("id", "", "doctor id")
	available := fs.Bool("available", true, "availability to set")
	rating := fs.Float64("rating", 0, "rating between 0 and 5")
	reviews := fs.Int("reviews", 0, "number of reviews")
	interval := fs.String("interval", "", "repeat interval for reindex (e.g. 6h, 30m)")
	reset := fs.Bool("reset", false, "truncate all tables before seeding")
	password := fs.String("password", "", "password for seeded accounts (default $SEED_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := secrets.ApplyVaultSecrets(ctx, secrets.VaultConfigFromEnv("admin")); err != nil {
		return fmt.Errorf("load vault secrets: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	env, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.close()

	switch command {
	case "migrate":
		if err := env.pg.Migrate(ctx); err != nil {
			return err
		}
		log.Info().Msg("Schema applied")
		return nil

	case "set-availability":
		if *id == "" {
			return fmt.Errorf("-id is required")
		}
		if err := env.doctors.SetAvailability(ctx, *id, *available); err != nil {
			return err
		}
		log.Info().Str("doctor_id", *id).Bool("available", *available).Msg("Availability updated")
		return nil

	case "set-rating":
		if *id == "" {
			return fmt.Errorf("-id is required")
		}
		if err := env.doctors.UpdateRating(ctx, *id, *rating, *reviews); err != nil {
			return err
		}
		log.Info().Str("doctor_id", *id).Float64("rating", *rating).Int("reviews", *reviews).Msg("Rating updated")
		return nil

	case "reindex":
		return reindex(ctx, env.doctors, strings.TrimSpace(*interval))

	case "seed":
		return seed(ctx, env, *reset, *password)
	}

	return fmt.Errorf("unknown command %q\n%s", command, usage)
}

func reindex(ctx context.Context, doctors *services.DoctorService, intervalValue string) error {
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		var err error
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			return fmt.Errorf("invalid interval %q: %w", intervalValue, err)
		}
		if interval <= 0 {
			return fmt.Errorf("interval must be greater than zero")
		}
	}

	for {
		count, err := doctors.Reindex(ctx)
		if err != nil {
			if interval <= 0 {
				return err
			}
			log.Error().Err(err).Msg("Reindex failed")
		} else {
			log.Info().Int("doctors", count).Msg("Reindex complete")
		}

		if interval <= 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("Reindexer shutting down")
			return nil
		case <-time.After(interval):
		}
	}
}

type environment struct {
	pg       *postgres.Client
	eventBus providers.EventBus
	users    repositories.UserRepository
	doctorDB repositories.DoctorRepository
	auth     *services.AuthService
	doctors  *services.DoctorService
	closers  []func() error
}

func connect(ctx context.Context, cfg *config.Config) (*environment, error) {
	pg, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	env := &environment{pg: pg, closers: []func() error{pg.Close}}

	var doctorAdapter repositories.DoctorRepository = database.NewDoctorAdapter(pg)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable; edits will not invalidate API caches")
		} else {
			env.eventBus = events.NewRedisEventBus(redisClient)
			doctorAdapter = database.NewCachedDoctorAdapter(doctorAdapter, cache.NewRedisAdapter(redisClient), nil)
			env.closers = append(env.closers, env.eventBus.Close, redisClient.Close)
		}
	}

	var searchRepo repositories.DoctorSearchRepository
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable; search index will not be updated")
		} else {
			adapter := search.NewTypesenseAdapter(tsClient)
			if err := adapter.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to init Typesense schema")
			}
			searchRepo = adapter
		}
	}

	patients := database.NewPatientAdapter(pg)
	env.users = database.NewUserAdapter(pg)
	env.doctorDB = doctorAdapter
	env.auth = services.NewAuthService(env.users, patients, doctorAdapter, cfg.Auth.BcryptCost)
	env.doctors = services.NewDoctorService(doctorAdapter, patients, searchRepo, env.eventBus)
	return env, nil
}

func (e *environment) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			log.Warn().Err(err).Msg("Error during shutdown")
		}
	}
}
