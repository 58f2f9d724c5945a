package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tetsu-is/social-graph/internal/auth"
	"github.com/Tetsu-is/social-graph/internal/cache"
	"github.com/Tetsu-is/social-graph/internal/config"
	"github.com/Tetsu-is/social-graph/internal/events"
	"github.com/Tetsu-is/social-graph/internal/handler"
	"github.com/Tetsu-is/social-graph/internal/janitor"
	"github.com/Tetsu-is/social-graph/internal/logger"
	"github.com/Tetsu-is/social-graph/internal/repository"
	"github.com/Tetsu-is/social-graph/internal/repository/memory"
	"github.com/Tetsu-is/social-graph/internal/service"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server exited", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ============================================
	// Storage
	// ============================================

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithPasswordCost(cfg.BcryptCost),
	}

	// Redis と NATS は任意。未設定なら Nop で動く
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		}, log)
		if err != nil {
			return err
		}
		defer rc.Close()
		opts = append(opts, service.WithCache(rc))
	}

	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL, log)
		if err != nil {
			return err
		}
		defer pub.Close()

		sub, err := pub.Subscribe(func(e events.Event) {
			log.Debug("event",
				zap.String("subject", e.Subject()),
				zap.String("actor_id", e.ActorID),
				zap.String("recipient_id", e.RecipientID),
			)
		})
		if err != nil {
			return fmt.Errorf("subscribe events: %w", err)
		}
		defer sub.Unsubscribe()
		opts = append(opts, service.WithPublisher(pub))
	}

	svc := service.New(store, opts...)

	if cfg.SeedDemoData {
		seeded, err := svc.SeedDemoData(ctx)
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		log.Info("demo data", zap.Bool("seeded", seeded))
	}

	// sweeper は store より先に止める (defer は逆順に実行される)
	if cfg.StoryCleanupInterval > 0 {
		stopSweeper := janitor.NewSweeper(svc, cfg.StoryCleanupInterval, log).Start(ctx)
		defer stopSweeper()
	}

	// ============================================
	// HTTP
	// ============================================

	authenticator := auth.NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.New(svc, authenticator, log).Routes(cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("using in-memory store; data is lost on exit")
		return memory.NewStore(), func() {}, nil
	}

	pool, err := repository.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := repository.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return repository.NewPostgresStore(pool), pool.Close, nil
}
