package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/calendar"
	"github.com/example/study-scheduler/internal/config"
	httptransport "github.com/example/study-scheduler/internal/http"
	"github.com/example/study-scheduler/internal/logging"
	"github.com/example/study-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	location, err := cfg.Location()
	if err != nil {
		logger.Error("failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	calendars := calendar.NewService()
	calendars.Register(calendar.NewMemoryProvider("local", uuid.NewString))

	handler := buildHandler(storage, calendars, location, cfg.DailyTargetMinutes, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("study scheduler API listening", "addr", server.Addr, "timezone", location.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// buildHandler wires the application services and the HTTP transport on top
// of the supplied storage and calendar registry.
func buildHandler(storage *sqlite.Storage, calendars *calendar.Service, location *time.Location, dailyTargetMinutes int, logger *slog.Logger) http.Handler {
	idGenerator := uuid.NewString
	now := time.Now

	schedulerService := application.NewSchedulerService(calendars, storage, storage, idGenerator, now, location, dailyTargetMinutes, logger)
	preferenceService := application.NewPreferenceService(storage, now)
	historyService := application.NewHistoryService(storage, idGenerator, now, location)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Scheduler:   httptransport.NewSchedulerHandler(schedulerService, logger),
		Preferences: httptransport.NewPreferenceHandler(preferenceService, logger),
		History:     httptransport.NewHistoryHandler(historyService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})
}
