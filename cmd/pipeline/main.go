package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"cryptotrend/internal/chart"
	"cryptotrend/internal/collect"
	"cryptotrend/internal/config"
	"cryptotrend/internal/httpx"
	"cryptotrend/internal/source"
	"cryptotrend/internal/source/coingecko"
	"cryptotrend/internal/source/fallback"
	"cryptotrend/internal/source/ratelimit"
	"cryptotrend/internal/source/synthetic"
)

func main() {
	var iterations int
	var delaySec int
	var coinsCSV string
	var currenciesCSV string
	var outputPath string
	var timeout int
	var configPath string

	flag.IntVar(&iterations, "iterations", 0, "how many samples to collect (default from config)")
	flag.IntVar(&delaySec, "delay", -1, "seconds between samples (default from config)")
	flag.StringVar(&coinsCSV, "coins", "", "comma-separated coin ids (e.g., bitcoin,ethereum)")
	flag.StringVar(&currenciesCSV, "currencies", "", "comma-separated vs currencies (e.g., usd,inr)")
	flag.StringVar(&outputPath, "out", "", "chart output path")
	flag.IntVar(&timeout, "timeout", 0, "request timeout seconds")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}
	// Override select fields from flags where provided
	if iterations > 0 {
		cfg.Pipeline.Iterations = iterations
	}
	if delaySec >= 0 {
		cfg.Pipeline.DelaySec = delaySec
	}
	if coinsCSV != "" {
		cfg.Pipeline.Coins = splitCSV(coinsCSV)
	}
	if currenciesCSV != "" {
		cfg.Pipeline.Currencies = splitCSV(currenciesCSV)
	}
	if outputPath != "" {
		cfg.Pipeline.OutputPath = outputPath
	}
	if timeout > 0 {
		cfg.CoinGecko.RequestTimeoutSec = timeout
	}

	src := buildSource(cfg, logger)
	run(context.Background(), cfg, src, logger)
}

// buildSource stacks the live client, optional rate limiting, and the
// synthetic fallback the same way regardless of configuration knobs.
func buildSource(cfg config.Config, logger *slog.Logger) source.Source {
	httpClient := httpx.New(time.Duration(cfg.CoinGecko.RequestTimeoutSec) * time.Second)
	var live source.Source = coingecko.New(coingecko.Config{BaseURL: cfg.CoinGecko.Endpoint}, httpClient)

	if cfg.CoinGecko.MaxRequestsPerMinute > 0 {
		rate := float64(cfg.CoinGecko.MaxRequestsPerMinute) / 60.0
		burst := cfg.CoinGecko.Burst
		if burst <= 0 {
			burst = 1
		}
		live = &ratelimit.TokenBucketSource{S: live, TB: ratelimit.NewTokenBucket(rate, burst)}
	} else if cfg.CoinGecko.MinRequestIntervalSec > 0 {
		interval := time.Duration(cfg.CoinGecko.MinRequestIntervalSec) * time.Second
		live = &ratelimit.MinInterval{S: live, Interval: interval}
	}

	return &fallback.Source{
		Primary:   live,
		Secondary: synthetic.New(time.Now().UnixNano()),
		Logger:    logger,
	}
}

// run drives the whole pipeline once: collect, then render unless empty.
// No failure inside the pipeline is fatal.
func run(ctx context.Context, cfg config.Config, src source.Source, logger *slog.Logger) {
	logger.Info("starting cryptocurrency data pipeline",
		"coins", strings.Join(cfg.Pipeline.Coins, ","),
		"currencies", strings.Join(cfg.Pipeline.Currencies, ","),
		"iterations", cfg.Pipeline.Iterations,
		"delay_sec", cfg.Pipeline.DelaySec,
		"output", cfg.Pipeline.OutputPath,
	)

	collector := &collect.Collector{Source: src, Logger: logger}
	table := collector.Collect(
		ctx,
		cfg.Pipeline.Iterations,
		time.Duration(cfg.Pipeline.DelaySec)*time.Second,
		cfg.Pipeline.Coins,
		cfg.Pipeline.Currencies,
	)

	if len(table) == 0 {
		logger.Info("visualization skipped, no data collected")
		return
	}

	renderer := &chart.Renderer{
		Width:  cfg.Pipeline.ChartWidth,
		Height: cfg.Pipeline.ChartHeight,
		Logger: logger,
	}
	if err := renderer.Render(table, cfg.Pipeline.OutputPath); err != nil {
		logger.Error("rendering failed", "path", cfg.Pipeline.OutputPath, "err", err)
	}

	logger.Info("pipeline complete", "records", len(table))
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

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
