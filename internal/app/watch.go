package app

import (
	"context"

	"github.com/thanhnguyen0311/mt5-trader/internal/infra"
)

// WatchTunables re-applies the reloadable trading parameters (lot,
// validator bounds, risk multiples, poll interval) whenever the config
// file is rewritten. Mode, credentials and gateway wiring are fixed for
// the process lifetime — changing those needs a restart.
func WatchTunables(ctx context.Context, path string, r *Runner) error {
	return infra.WatchConfig(ctx, path, r.ApplyConfig)
}
