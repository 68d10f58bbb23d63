package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type Pipeline struct {
	Iterations  int      `json:"iterations"`
	DelaySec    int      `json:"delay_sec"`
	Coins       []string `json:"coins"`
	Currencies  []string `json:"currencies"`
	OutputPath  string   `json:"output_path"`
	ChartWidth  int      `json:"chart_width"`
	ChartHeight int      `json:"chart_height"`
}

type CoinGecko struct {
	Endpoint              string `json:"endpoint"`
	RequestTimeoutSec     int    `json:"request_timeout_sec"`
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec"`
	Burst                 int    `json:"burst"`
}

type Config struct {
	Pipeline  Pipeline  `json:"pipeline"`
	CoinGecko CoinGecko `json:"coingecko"`
}

func Default() Config {
	return Config{
		Pipeline: Pipeline{
			Iterations:  3,
			DelaySec:    5,
			Coins:       []string{"bitcoin", "ethereum"},
			Currencies:  []string{"usd", "inr"},
			OutputPath:  "output/crypto_price_trend.png",
			ChartWidth:  1200,
			ChartHeight: 600,
		},
		CoinGecko: CoinGecko{
			Endpoint:          "https://api.coingecko.com/api/v3",
			RequestTimeoutSec: 15,
		},
	}
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ITERATIONS"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Pipeline.Iterations = x
		}
	}
	if v := os.Getenv("DELAY_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Pipeline.DelaySec = x
		}
	}
	if v := os.Getenv("COINS"); v != "" {
		cfg.Pipeline.Coins = splitCSV(v)
	}
	if v := os.Getenv("CURRENCIES"); v != "" {
		cfg.Pipeline.Currencies = splitCSV(v)
	}
	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		cfg.Pipeline.OutputPath = v
	}
	if v := os.Getenv("COINGECKO_ENDPOINT"); v != "" {
		cfg.CoinGecko.Endpoint = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.CoinGecko.RequestTimeoutSec = x
		}
	}
	if v := os.Getenv("COINGECKO_MAX_RPM"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.CoinGecko.MaxRequestsPerMinute = x
		}
	}
	if v := os.Getenv("COINGECKO_MIN_INTERVAL_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.CoinGecko.MinRequestIntervalSec = x
		}
	}
	if v := os.Getenv("COINGECKO_BURST"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.CoinGecko.Burst = x
		}
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
