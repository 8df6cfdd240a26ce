package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/taskhub/taskhub/internal/collection"
	"github.com/taskhub/taskhub/internal/config"
	"github.com/taskhub/taskhub/internal/domain"
	"github.com/taskhub/taskhub/internal/notify"
	"github.com/taskhub/taskhub/internal/server"
	"github.com/taskhub/taskhub/internal/store/memory"
	"github.com/taskhub/taskhub/internal/store/postgres"
	redisstore "github.com/taskhub/taskhub/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("TASKHUB_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("TASKHUB_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Select the task repository backend.
	var repo domain.TaskRepository
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
			return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
		}

		store, pgErr := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
		if pgErr != nil {
			return pgErr
		}
		defer store.Close()
		repo = store.Tasks()

	default:
		memRepo := memory.NewTaskRepo(cfg.Store.Latency)
		if cfg.Store.Seed {
			if seedErr := memRepo.Seed(ctx, memory.SeedDrafts()); seedErr != nil {
				return seedErr
			}
			log.Info().Msg("seeded demo tasks")
		}
		repo = memRepo
	}

	coll := collection.New(repo, cfg.View.ItemsPerPage)
	if fetchErr := coll.FetchAll(ctx, nil); fetchErr != nil {
		return fetchErr
	}

	// Connect to Redis when configured.
	var pubsub *redisstore.PubSub
	if cfg.Redis.Addr != "" {
		pubsub, err = redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer pubsub.Close()
	}

	// Build the notifier registry.
	notifiers := notify.NewRegistry()
	if cfg.Slack.BotToken != "" {
		slackClient := slacklib.New(cfg.Slack.BotToken)
		notifiers.Register(notify.NewSlackNotifier(slackClient, cfg.Slack.Channel))
		log.Info().Str("channel", cfg.Slack.Channel).Msg("Slack notifications enabled")
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Bridge committed collection events to Redis and the notifiers.
	if pubsub != nil || notifiers.Len() > 0 {
		events, unsubscribe := coll.Subscribe()
		defer unsubscribe()
		go fanOutEvents(ctx, events, pubsub, notifiers)
	}

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, coll, pubsub)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("backend", cfg.Store.Backend).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}

// fanOutEvents forwards committed collection events to the Redis event
// channel and the notifier registry until ctx is canceled.
func fanOutEvents(ctx context.Context, events <-chan collection.Event, pubsub *redisstore.PubSub, notifiers *notify.Registry) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			if pubsub != nil {
				payload, err := json.Marshal(ev)
				if err != nil {
					log.Error().Err(err).Msg("marshal task event")
					continue
				}
				if err := pubsub.Publish(ctx, redisstore.TaskEventsChannel(), payload); err != nil {
					log.Warn().Err(err).Msg("publish task event")
				}
			}

			notifiers.Announce(ctx, ev)
		}
	}
}
