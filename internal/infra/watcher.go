package infra

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig reloads the config file whenever it is rewritten and hands
// each valid new version to onReload. Invalid rewrites are logged and
// skipped; the running configuration stays untouched.
func WatchConfig(ctx context.Context, path string, onReload func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := w.Add(path); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					slog.Warn("config reload rejected", slog.Any("error", err))
					continue
				}
				slog.Info("config reloaded",
					slog.Int("sl_min", cfg.Signal.SLMin),
					slog.Int("sl_max", cfg.Signal.SLMax),
					slog.Float64("lot", cfg.Trading.Lot))
				onReload(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher error", slog.Any("error", err))
			}
		}
	}()

	return nil
}
