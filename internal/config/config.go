// Package config loads run settings from an optional YAML file, a .env file,
// and environment variables, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines one analysis run.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Report   ReportConfig   `yaml:"report"`
	Seed     SeedConfig     `yaml:"seed"`
	Log      LogConfig      `yaml:"log"`
}

type SourceConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	// DSN is a file path for sqlite or a connection URL for postgres.
	DSN string `yaml:"dsn"`
}

type AnalysisConfig struct {
	// Ranking year range, inclusive.
	YearFrom int `yaml:"year_from"`
	YearTo   int `yaml:"year_to"`
	// RankingLimit caps the duration ranking.
	RankingLimit int `yaml:"ranking_limit"`
	// LegacyRankingCap applies the cap before sorting, reproducing the
	// historical result order.
	LegacyRankingCap bool `yaml:"legacy_ranking_cap"`
	// CountsYear selects the year for the daily cumulative counts.
	CountsYear int `yaml:"counts_year"`
	// TraceDate (YYYY-MM-DD) selects the day for the per-bike trace.
	TraceDate string `yaml:"trace_date"`
}

type ReportConfig struct {
	TopK        int    `yaml:"top_k"`
	WindowStart string `yaml:"window_start"`
	WindowEnd   string `yaml:"window_end"`
}

// SeedConfig optionally loads CSV exports into a fresh SQLite database
// before the run. Ignored for the postgres driver.
type SeedConfig struct {
	TripsCSV    string `yaml:"trips_csv"`
	StationsCSV string `yaml:"stations_csv"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment
// variables. A .env file in the working directory is folded into the
// environment first.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Source: SourceConfig{
			Driver: "sqlite",
			DSN:    "cyclehire.db",
		},
		Analysis: AnalysisConfig{
			YearFrom:     2015,
			YearTo:       2017,
			RankingLimit: 100,
			CountsYear:   2015,
			TraceDate:    "2015-06-21",
		},
		Report: ReportConfig{
			TopK:        10,
			WindowStart: "06:00:00",
			WindowEnd:   "10:00:00",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("CYCLEHIRE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if driver := os.Getenv("CYCLEHIRE_SOURCE_DRIVER"); driver != "" {
		cfg.Source.Driver = driver
	}
	if dsn := os.Getenv("CYCLEHIRE_SOURCE_DSN"); dsn != "" {
		cfg.Source.DSN = dsn
	}
	if v := os.Getenv("CYCLEHIRE_TRACE_DATE"); v != "" {
		cfg.Analysis.TraceDate = v
	}
	if v := os.Getenv("CYCLEHIRE_SEED_TRIPS"); v != "" {
		cfg.Seed.TripsCSV = v
	}
	if v := os.Getenv("CYCLEHIRE_SEED_STATIONS"); v != "" {
		cfg.Seed.StationsCSV = v
	}
	if level := os.Getenv("CYCLEHIRE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	for env, dst := range map[string]*int{
		"CYCLEHIRE_YEAR_FROM":     &cfg.Analysis.YearFrom,
		"CYCLEHIRE_YEAR_TO":       &cfg.Analysis.YearTo,
		"CYCLEHIRE_RANKING_LIMIT": &cfg.Analysis.RankingLimit,
		"CYCLEHIRE_COUNTS_YEAR":   &cfg.Analysis.CountsYear,
		"CYCLEHIRE_TOP_K":         &cfg.Report.TopK,
	} {
		if v := os.Getenv(env); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", env, err)
			}
			*dst = n
		}
	}
	if v := os.Getenv("CYCLEHIRE_LEGACY_RANKING_CAP"); v != "" {
		cfg.Analysis.LegacyRankingCap = isTruthy(v)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Source.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown source driver %q", c.Source.Driver)
	}
	if c.Analysis.YearFrom > c.Analysis.YearTo {
		return fmt.Errorf("year range %d..%d is inverted", c.Analysis.YearFrom, c.Analysis.YearTo)
	}
	if c.Analysis.RankingLimit <= 0 {
		return fmt.Errorf("ranking_limit must be positive, got %d", c.Analysis.RankingLimit)
	}
	if _, err := time.Parse("2006-01-02", c.Analysis.TraceDate); err != nil {
		return fmt.Errorf("invalid trace_date %q: %w", c.Analysis.TraceDate, err)
	}
	if c.Report.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.Report.TopK)
	}
	for _, t := range []string{c.Report.WindowStart, c.Report.WindowEnd} {
		if _, err := time.Parse("15:04:05", t); err != nil {
			return fmt.Errorf("invalid report window time %q: %w", t, err)
		}
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}
