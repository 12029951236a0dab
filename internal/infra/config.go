package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the whole application configuration. Secrets may be
// overridden through environment variables after the file is loaded.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Trading struct {
		Mode           string    `yaml:"mode"` // MOCK, PAPER, DEMO, REAL
		Symbol         string    `yaml:"symbol"`
		AllowedSymbols []string  `yaml:"allowed_symbols"`
		Lot            float64   `yaml:"lot"`
		Deviation      int       `yaml:"deviation"` // points
		Magic          int64     `yaml:"magic"`
		Filling        string    `yaml:"filling"` // FOK, IOC, RETURN
		RMultiples     []float64 `yaml:"r_multiples"`
		Retry          struct {
			MaxAttempts int  `yaml:"max_attempts"` // 0 = retry until terminal
			DelayMS     int  `yaml:"delay_ms"`
			Exponential bool `yaml:"exponential"`
		} `yaml:"retry"`
	} `yaml:"trading"`

	Signal struct {
		SLMin          int `yaml:"sl_min"`
		SLMax          int `yaml:"sl_max"`
		PollIntervalMS int `yaml:"poll_interval_ms"`
		WindowSec      int `yaml:"window_sec"`
		WindowCap      int `yaml:"window_cap"`
	} `yaml:"signal"`

	Bridge struct {
		WSURL      string `yaml:"ws_url"`
		Login      int64  `yaml:"login"`
		Password   string `yaml:"password"`
		Server     string `yaml:"server"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"bridge"`

	OCR struct {
		Display int    `yaml:"display"`
		Region  Region `yaml:"region"`
		Lang    string `yaml:"lang"`
	} `yaml:"ocr"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Region is a screen rectangle in display coordinates.
type Region struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// LoadConfig reads and parses the config file, applies environment
// overrides and defaults, then validates.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Trading.RMultiples) == 0 {
		c.Trading.RMultiples = []float64{1.25, 2.5, 4.0}
	}
	if c.Trading.Filling == "" {
		c.Trading.Filling = "IOC"
	}
	if c.Trading.Deviation == 0 {
		c.Trading.Deviation = 20
	}
	if c.Signal.WindowSec == 0 {
		c.Signal.WindowSec = 300
	}
	if c.Signal.WindowCap == 0 {
		c.Signal.WindowCap = 5
	}
	if c.Signal.PollIntervalMS == 0 {
		c.Signal.PollIntervalMS = 1000
	}
	if c.Bridge.TimeoutSec == 0 {
		c.Bridge.TimeoutSec = 10
	}
	if c.OCR.Lang == "" {
		c.OCR.Lang = "eng"
	}
}

// Validate checks configuration validity. Fail fast: a bad config never
// reaches the terminal.
func (c *Config) Validate() error {
	switch c.Trading.Mode {
	case "MOCK", "PAPER", "DEMO", "REAL":
	default:
		return fmt.Errorf("unknown trading mode: %q", c.Trading.Mode)
	}

	if c.Trading.Symbol == "" {
		return fmt.Errorf("trading symbol is required")
	}
	if c.Trading.Lot <= 0 {
		return fmt.Errorf("lot must be positive, got %v", c.Trading.Lot)
	}

	switch c.Trading.Filling {
	case "FOK", "IOC", "RETURN":
	default:
		return fmt.Errorf("unknown filling policy: %q", c.Trading.Filling)
	}

	for i, m := range c.Trading.RMultiples {
		if m <= 0 {
			return fmt.Errorf("r_multiples[%d] must be positive, got %v", i, m)
		}
		if i > 0 && m <= c.Trading.RMultiples[i-1] {
			return fmt.Errorf("r_multiples must be ascending")
		}
	}

	if c.Signal.SLMin >= c.Signal.SLMax {
		return fmt.Errorf("signal bounds invalid: min=%d max=%d", c.Signal.SLMin, c.Signal.SLMax)
	}
	if c.Signal.PollIntervalMS <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}

	if c.Trading.Mode == "DEMO" || c.Trading.Mode == "REAL" {
		if !strings.HasPrefix(c.Bridge.WSURL, "ws://") && !strings.HasPrefix(c.Bridge.WSURL, "wss://") {
			return fmt.Errorf("invalid bridge WS URL: %s", c.Bridge.WSURL)
		}
		if c.Bridge.Login == 0 {
			return fmt.Errorf("bridge login is required for %s mode", c.Trading.Mode)
		}
	}

	return nil
}

// SymbolAllowed reports whether symbol may be traded. An empty allow-list
// restricts trading to the configured symbol itself.
func (c *Config) SymbolAllowed(symbol string) bool {
	if len(c.Trading.AllowedSymbols) == 0 {
		return symbol == c.Trading.Symbol
	}
	for _, s := range c.Trading.AllowedSymbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// overrideWithEnv lets environment variables take precedence over the
// file for account credentials, so secrets never have to live on disk.
func overrideWithEnv(cfg *Config) {
	if cfg.Bridge.Password != "" {
		fmt.Println("⚠️  SECURITY WARNING: account password found in config file.")
		fmt.Println("   Recommendation: use environment variables instead:")
		fmt.Println("   - MT5_LOGIN, MT5_PASSWORD, MT5_SERVER")
	}

	if login := os.Getenv("MT5_LOGIN"); login != "" {
		if n, err := strconv.ParseInt(login, 10, 64); err == nil {
			cfg.Bridge.Login = n
		}
	}
	if pass := os.Getenv("MT5_PASSWORD"); pass != "" {
		cfg.Bridge.Password = pass
	}
	if server := os.Getenv("MT5_SERVER"); server != "" {
		cfg.Bridge.Server = server
	}
}
