package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/krle1978/health-predictor-ai/cliparse"
	"github.com/krle1978/health-predictor-ai/gateway"
	"github.com/krle1978/health-predictor-ai/router"
)

const shutdownWait = 10 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cliparse.ParseLogLevel(cfg.LogLevel),
	})))

	// Backend address is fixed for the life of the process
	gw, err := gateway.New(gateway.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		slog.Error("gateway setup failed", "error", err)
		os.Exit(1)
	}

	// Create server
	server := &http.Server{
		Handler:           router.NewRouter(gw, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port, "backend", cfg.BackendURL, "timeout", cfg.RequestTimeout)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Wait for Ctrl-C signal or a listener failure
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}
