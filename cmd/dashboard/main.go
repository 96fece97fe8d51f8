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

	"github.com/example/tutoring-dashboard/internal/application"
	"github.com/example/tutoring-dashboard/internal/config"
	"github.com/example/tutoring-dashboard/internal/feed"
	httptransport "github.com/example/tutoring-dashboard/internal/http"
	"github.com/example/tutoring-dashboard/internal/store/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	students := sqlite.NewStudentRepository(pool)
	checkIns := sqlite.NewCheckInRepository(pool)
	classes := sqlite.NewClassRepository(pool)
	catalog := sqlite.NewCatalogRepository(pool)

	dataFeed := feed.New(students, checkIns, classes, catalog, idGenerator, now, logger)

	rosterService := application.NewRosterService(students, checkIns, dataFeed, cfg.Timezone, now)
	classService := application.NewClassService(classes, catalog, dataFeed)
	calendarService := application.NewCalendarService(students, checkIns, classes, cfg.Timezone)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Students:   httptransport.NewStudentHandler(rosterService, logger),
		CheckIns:   httptransport.NewCheckInHandler(rosterService, logger),
		Classes:    httptransport.NewClassHandler(classService, logger),
		Calendar:   httptransport.NewCalendarHandler(calendarService, logger),
		Invoices:   httptransport.NewInvoiceHandler(rosterService, classService, cfg.Timezone, logger),
		Exports:    httptransport.NewExportHandler(rosterService, cfg.Timezone, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
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

	logger.Info("dashboard API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
