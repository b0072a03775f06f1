package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dairy-herd-manager/internal/domain/messaging"
	"dairy-herd-manager/internal/domain/repro"
	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/router"
	"dairy-herd-manager/internal/scheduler"
)

// @title Dairy Herd Manager API
// @version 1.0
// @description Reproductive event tracking and SMS notification service for dairy farms.
// @BasePath /
func main() {
	_ = godotenv.Load()

	lg := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	app := router.NewApp(router.Options{Log: lg})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweepWorker := scheduler.NewWorker(
		"overdue-sweep",
		envDuration("SWEEP_INTERVAL", time.Hour),
		func(ctx context.Context) (int, error) {
			res, err := app.Sweeper.RunOverdueSweep(ctx)
			if errors.Is(err, repro.ErrSweepRunning) {
				return 0, nil
			}
			return res.Emitted, err
		},
		lg,
	)
	resendWorker := scheduler.NewWorker(
		"resend-failed",
		envDuration("RESEND_INTERVAL", 15*time.Minute),
		func(ctx context.Context) (int, error) {
			return app.Dispatcher.ResendFailed(ctx, messaging.DefaultResendMaxAge)
		},
		lg,
	)
	go sweepWorker.Start(ctx)
	go resendWorker.Start(ctx)

	srv := &http.Server{
		Addr:         addr,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		lg.Info("starting server", logger.Fields{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown failed", logger.Fields{"err": err.Error()})
	}
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
