package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thanhnguyen0311/mt5-trader/internal/app"
	"github.com/thanhnguyen0311/mt5-trader/internal/ocr"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// Secrets may live in a local .env during development.
	_ = godotenv.Load()

	// 1. Diagnostics server: pprof + /metrics. Localhost only.
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		slog.Info("🕵️ Diagnostics server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Diagnostics server failed", slog.Any("error", err))
		}
	}()

	// 2. Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. System bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(ctx); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Shutdown()

	cfg := bootstrap.Config

	// 4. Signal source + polling loop
	runner := app.NewRunner(cfg, bootstrap.Gateway, ocr.NewReader(cfg))

	// 5. Hot-reload of tunable trading parameters
	if err := app.WatchTunables(ctx, bootstrap.ConfigPath, runner); err != nil {
		slog.Warn("config watcher unavailable", slog.Any("error", err))
	}

	slog.InfoContext(ctx, "✅ MT5 Trader operational. Press Ctrl+C to exit.")

	// 6. Run until shutdown signal (blocking)
	runner.Run(ctx)
}
