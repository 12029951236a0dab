package infra

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalConfig = `
app:
  name: mt5-trader
  version: test
trading:
  mode: PAPER
  symbol: XAUUSDm
  lot: 0.01
signal:
  sl_min: 4000
  sl_max: 6000
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if got := cfg.Trading.RMultiples; len(got) != 3 || got[0] != 1.25 || got[1] != 2.5 || got[2] != 4.0 {
		t.Errorf("default r_multiples = %v, want [1.25 2.5 4]", got)
	}
	if cfg.Trading.Filling != "IOC" {
		t.Errorf("default filling = %q, want IOC", cfg.Trading.Filling)
	}
	if cfg.Signal.WindowSec != 300 || cfg.Signal.WindowCap != 5 {
		t.Errorf("default window = %d/%d, want 300/5", cfg.Signal.WindowSec, cfg.Signal.WindowCap)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("MT5_LOGIN", "12345678")
	t.Setenv("MT5_PASSWORD", "from-env")
	t.Setenv("MT5_SERVER", "Broker-Demo")

	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Bridge.Login != 12345678 {
		t.Errorf("login = %d, want 12345678", cfg.Bridge.Login)
	}
	if cfg.Bridge.Password != "from-env" {
		t.Errorf("password = %q, want from-env", cfg.Bridge.Password)
	}
	if cfg.Bridge.Server != "Broker-Demo" {
		t.Errorf("server = %q, want Broker-Demo", cfg.Bridge.Server)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown mode", `
trading: {mode: YOLO, symbol: XAUUSDm, lot: 0.01}
signal: {sl_min: 1, sl_max: 2}
`},
		{"zero lot", `
trading: {mode: PAPER, symbol: XAUUSDm, lot: 0}
signal: {sl_min: 1, sl_max: 2}
`},
		{"inverted signal bounds", `
trading: {mode: PAPER, symbol: XAUUSDm, lot: 0.01}
signal: {sl_min: 6000, sl_max: 4000}
`},
		{"bridge url required outside paper", `
trading: {mode: DEMO, symbol: XAUUSDm, lot: 0.01}
signal: {sl_min: 1, sl_max: 2}
bridge: {ws_url: "http://nope"}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestConfig_SymbolAllowed(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.SymbolAllowed("XAUUSDm") {
		t.Error("configured symbol should be allowed")
	}
	if cfg.SymbolAllowed("BTCUSD") {
		t.Error("unlisted symbol should be blocked")
	}

	cfg.Trading.AllowedSymbols = []string{"XAUUSDm", "BTCUSD"}
	if !cfg.SymbolAllowed("BTCUSD") {
		t.Error("listed symbol should be allowed")
	}
}
