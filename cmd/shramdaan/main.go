package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/db"
	"github.com/shram-daan/shramdaan/internal/auth"
	"github.com/shram-daan/shramdaan/internal/config"
	"github.com/shram-daan/shramdaan/internal/handlers"
	"github.com/shram-daan/shramdaan/internal/logger"
	"github.com/shram-daan/shramdaan/internal/middleware"
	"github.com/shram-daan/shramdaan/internal/realtime"
	"github.com/shram-daan/shramdaan/internal/router"
	"github.com/shram-daan/shramdaan/internal/scheduler"
	"github.com/shram-daan/shramdaan/internal/services"
	"github.com/shram-daan/shramdaan/internal/storage"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		bootstrap := logger.New(os.Stderr, "info", logger.FormatJSON)
		bootstrap.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.ConnectDatabase(cfg.DBDriver, cfg.DatabaseURL)

	if err != nil {
		return err
	}

	if err := db.MigrateDatabase(conn); err != nil {
		return err
	}

	tokens, err := auth.NewManager(cfg.JWTSecret)

	if err != nil {
		return err
	}

	store := storage.New(conn)
	hub := realtime.NewHub(cfg.AllowedOrigins, log)
	users := services.NewUserService(store, log)

	h := handlers.New(
		store,
		services.NewProjectService(store, log),
		services.NewMessageService(store, hub, log),
		services.NewNotificationService(store),
		users,
		hub,
		log,
	)

	limiter := middleware.NewRateLimiter(cfg.MessageRatePerSecond, cfg.MessageBurst, log)
	limiter.StartCleanup(5*time.Minute, ctx.Done())

	reminders := scheduler.NewScheduler(store, cfg.ReminderSchedule, cfg.ReminderWindow, log)

	if err := reminders.Start(); err != nil {
		return err
	}
	defer reminders.Stop()

	engine := router.NewRouter(router.Dependencies{
		Handler:        h,
		Tokens:         tokens,
		Users:          users,
		MessageLimiter: limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", srv.Addr).Str("db_driver", cfg.DBDriver).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
