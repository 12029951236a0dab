package app

import (
	"context"
	"log/slog"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
	"github.com/thanhnguyen0311/mt5-trader/internal/execution"
	"github.com/thanhnguyen0311/mt5-trader/internal/infra"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config     *infra.Config
	ConfigPath string
	Gateway    domain.Gateway

	shutdown []func()
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration, installs the logger, takes the
// single-instance lock, and connects the gateway for the configured mode.
func (b *Bootstrap) Initialize(ctx context.Context) error {
	slog.Info("🚀 Bootstrapping MT5 Trader...")

	b.ConfigPath = infra.ResolveConfigPath()
	cfg, err := infra.LoadConfig(b.ConfigPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	infra.PrintBanner(cfg)

	workDir := infra.GetWorkspaceDir()
	if err := infra.EnsureDir(workDir); err != nil {
		return err
	}

	// One automation instance per terminal: a second poller would
	// double-submit every signal.
	unlock, err := infra.CreateLockFile(workDir)
	if err != nil {
		return err
	}
	b.shutdown = append(b.shutdown, unlock)

	gw, disconnect, err := execution.NewFactory(cfg).CreateGateway(ctx)
	if err != nil {
		return err
	}
	b.Gateway = gw
	b.shutdown = append(b.shutdown, disconnect)

	slog.Info("✅ Gateway ready", slog.String("mode", cfg.Trading.Mode))
	return nil
}

// Shutdown releases resources in reverse acquisition order.
func (b *Bootstrap) Shutdown() {
	for i := len(b.shutdown) - 1; i >= 0; i-- {
		b.shutdown[i]()
	}
	slog.Info("👋 Shutdown complete")
}
