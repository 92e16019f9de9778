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

	"github.com/SherClockHolmes/webpush-go"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salon-booking-backend/config"
	"salon-booking-backend/internal/api"
	"salon-booking-backend/internal/auth"
	"salon-booking-backend/internal/booking"
	"salon-booking-backend/internal/catalog"
	"salon-booking-backend/internal/db"
	"salon-booking-backend/internal/logger"
	"salon-booking-backend/internal/mw"
	"salon-booking-backend/internal/notification"
	"salon-booking-backend/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	log.Info("data store initialized", zap.String("storage", st.Mode()))

	registry, err := catalog.LoadOrDefault(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var pushOptions *webpush.Options
	if cfg.Push.Enabled() {
		pushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		log.Warn("VAPID keys not configured, push confirmations disabled")
	}

	channels := notificationChannels(cfg, pushOptions)
	dispatcher, stopDispatcher, err := startDispatcher(ctx, cfg.Notification, channels, log)
	if err != nil {
		return err
	}

	manager := auth.NewManager(cfg.Auth)
	handler := api.NewHandler(api.Deps{
		Store:    st,
		Bookings: booking.NewService(st, registry, dispatcher, log),
		Catalog:  registry,
		Auth:     manager,
		Cache:    mw.NewResponseCache(time.Duration(cfg.Server.CacheTTLSeconds) * time.Second),
		Webpush:  pushOptions,
		Studio:   cfg.Studio.Name,
		Log:      log,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(handler, cfg.Server, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stopDispatcher()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown", zap.Error(err))
	}
	stopDispatcher()

	log.Info("server gracefully stopped")
	return nil
}

// openStore connects the configured database. When that fails and
// fallback_memory is set, it serves from memory instead.
func openStore(cfg *config.Config, log *zap.Logger) (store.Store, error) {
	hours := cfg.Hours.StoreHours()
	if cfg.Database.Driver == "memory" {
		return store.NewMemoryStore(hours), nil
	}

	gormDB, err := db.Init(&cfg.Database, log)
	if err != nil {
		if !cfg.Database.FallbackMemory {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		log.Warn("database unavailable, falling back to in-memory storage", zap.Error(err))
		return store.NewMemoryStore(hours), nil
	}
	return store.NewGormStore(gormDB, hours), nil
}

func notificationChannels(cfg *config.Config, pushOptions *webpush.Options) []notification.Channel {
	studio := notification.Studio{
		Name:    cfg.Studio.Name,
		URL:     cfg.Studio.URL,
		Phone:   cfg.Studio.Phone,
		Address: cfg.Studio.Address,
	}

	var channels []notification.Channel
	if cfg.Email.Enabled() {
		channels = append(channels, notification.NewEmailChannel(cfg.Email.Host, cfg.Email.Port, cfg.Email.Username, cfg.Email.Password, cfg.Email.From, studio))
	}
	if pushOptions != nil {
		channels = append(channels, notification.NewPushChannel(pushOptions, studio))
	}
	return channels
}

// startDispatcher builds the configured notifier. The returned stop func
// waits for running deliveries; queued pool jobs are dropped.
func startDispatcher(ctx context.Context, cfg config.NotificationConfig, channels []notification.Channel, log *zap.Logger) (booking.Notifier, func(), error) {
	if len(channels) == 0 || cfg.Backend == "none" {
		log.Info("confirmations disabled")
		return notification.Noop{}, func() {}, nil
	}

	switch cfg.Backend {
	case "asynq":
		redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		client := asynq.NewClient(redisOpt)
		dispatcher := notification.NewQueueDispatcher(client, channels, cfg.WorkerPool.MaxAttempts, log)

		srv, mux := notification.NewQueueServer(redisOpt, cfg.WorkerPool.Size, channels, log)
		if err := srv.Start(mux); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("start asynq server: %w", err)
		}
		log.Info("confirmations queued on redis", zap.String("addr", cfg.Redis.Addr))
		return dispatcher, func() {
			dispatcher.Wait()
			client.Close()
			srv.Shutdown()
		}, nil

	default:
		pool := notification.NewWorkerPool(notification.PoolOptions{
			Size:         cfg.WorkerPool.Size,
			QueueSize:    cfg.WorkerPool.QueueSize,
			MaxAttempts:  cfg.WorkerPool.MaxAttempts,
			RetryBackoff: cfg.WorkerPool.RetryBackoff,
		}, channels, log)
		poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		pool.Start(poolCtx)
		log.Info("confirmation worker pool started", zap.Int("workers", cfg.WorkerPool.Size))
		return pool, func() {
			cancel()
			pool.Wait()
		}, nil
	}
}
