// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command predictor-tui is a terminal client for the health predictors. It
// talks to the Inference Backend directly (-b) or through the proxy server
// (-proxy).
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/krle1978/health-predictor-ai/cliparse"
	"github.com/krle1978/health-predictor-ai/gateway"
	"github.com/krle1978/health-predictor-ai/tui"
)

func main() {
	cfg, err := cliparse.ParseClientFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "error: predictor-tui needs an interactive terminal")
		os.Exit(1)
	}

	// Logs never go to the terminal the UI is drawing on
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug})))

	gw, err := gateway.New(gateway.Config{BaseURL: cfg.BaseURL(), Timeout: cfg.RequestTimeout})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting predictor-tui", "base", cfg.BaseURL())
	if err := tui.Run(ctx, gw); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
}
