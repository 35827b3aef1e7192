// Package config loads the miner configuration from a json5 file, a local
// override of it, a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"hltvminer/internal/components/telemetry"
	"hltvminer/internal/crawler"
	"hltvminer/internal/scrapers/hltv"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
)

type Database struct {
	// File is a sqlite file path, ":memory:" or a libsql url.
	File string `json:"file"`
}

type Hltv struct {
	BaseURL           string  `json:"base_url"`
	UserAgent         string  `json:"user_agent"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RetryCount        int     `json:"retry_count"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	CloudflareBypass  bool    `json:"cloudflare_bypass"`
	DumpDir           string  `json:"dump_dir"`
}

type Crawl struct {
	StartPage        int `json:"start_page"`
	BatchBudgetMs    int `json:"batch_budget_ms"`
	KnownDecrementMs int `json:"known_decrement_ms"`
}

type Events struct {
	StartPage     int `json:"start_page"`
	BatchBudgetMs int `json:"batch_budget_ms"`
	MaxFailures   int `json:"max_failures"`
}

type Config struct {
	Database  Database         `json:"database"`
	Hltv      Hltv             `json:"hltv"`
	Crawl     Crawl            `json:"crawl"`
	Events    Events           `json:"events"`
	Telemetry telemetry.Config `json:"telemetry"`
}

func Defaults() Config {
	return Config{
		Database: Database{File: "hltv.db"},
		Hltv: Hltv{
			BaseURL:        hltv.DefaultBaseURL,
			UserAgent:      hltv.DefaultUserAgent,
			TimeoutSeconds: 30,
			RetryCount:     2,
		},
		Crawl: Crawl{
			BatchBudgetMs:    int(crawler.DefaultBatchBudget / time.Millisecond),
			KnownDecrementMs: int(crawler.DefaultKnownDecrement / time.Millisecond),
		},
		Events: Events{
			BatchBudgetMs: int(crawler.DefaultBatchBudget / time.Millisecond),
			MaxFailures:   crawler.DefaultMaxFailures,
		},
	}
}

const (
	EnvDatabase  = "HLTVMINER_DATABASE"
	EnvBaseURL   = "HLTVMINER_BASE_URL"
	EnvStartPage = "HLTVMINER_START_PAGE"
	EnvUserAgent = "HLTVMINER_USER_AGENT"
)

// Load reads the config file at path over Defaults, a missing file is not an
// error. The environment overrides everything.
func Load(path string) (Config, error) {
	cfg, err := ReadFile(path, Defaults())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = inheritHeaders(&cfg.Telemetry)
	if err != nil {
		return Config{}, err
	}

	err = godotenv.Load()
	if err == nil {
		slog.Debug("loaded .env")
	}

	err = applyEnv(&cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// inheritHeaders gives the metrics exporter every trace exporter header it
// does not set itself.
func inheritHeaders(cfg *telemetry.Config) error {
	if len(cfg.Traces.Headers) == 0 {
		return nil
	}
	if cfg.Metrics.Headers == nil {
		cfg.Metrics.Headers = make(map[string]string, len(cfg.Traces.Headers))
	}
	err := mergo.Merge(&cfg.Metrics.Headers, cfg.Traces.Headers)
	if err != nil {
		return fmt.Errorf("merge telemetry headers: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if value := os.Getenv(EnvDatabase); value != "" {
		cfg.Database.File = value
	}
	if value := os.Getenv(EnvBaseURL); value != "" {
		cfg.Hltv.BaseURL = value
	}
	if value := os.Getenv(EnvUserAgent); value != "" {
		cfg.Hltv.UserAgent = value
	}
	if value := os.Getenv(EnvStartPage); value != "" {
		page, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStartPage, err)
		}
		cfg.Crawl.StartPage = page
	}
	return nil
}

func (c Config) HltvOptions() hltv.Options {
	return hltv.Options{
		BaseURL:           c.Hltv.BaseURL,
		UserAgent:         c.Hltv.UserAgent,
		Timeout:           time.Duration(c.Hltv.TimeoutSeconds) * time.Second,
		RetryCount:        c.Hltv.RetryCount,
		RequestsPerSecond: c.Hltv.RequestsPerSecond,
		CloudflareBypass:  c.Hltv.CloudflareBypass,
		DumpDir:           c.Hltv.DumpDir,
	}
}

func (c Config) CrawlOptions() crawler.Options {
	return crawler.Options{
		StartPage:      c.Crawl.StartPage,
		BatchBudget:    time.Duration(c.Crawl.BatchBudgetMs) * time.Millisecond,
		KnownDecrement: time.Duration(c.Crawl.KnownDecrementMs) * time.Millisecond,
	}
}

func (c Config) EventOptions() crawler.EventOptions {
	return crawler.EventOptions{
		StartPage:   c.Events.StartPage,
		BatchBudget: time.Duration(c.Events.BatchBudgetMs) * time.Millisecond,
		MaxFailures: c.Events.MaxFailures,
	}
}
