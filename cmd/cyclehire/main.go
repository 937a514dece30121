package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"cyclehire/internal/analysis"
	"cyclehire/internal/config"
	"cyclehire/internal/postgres"
	"cyclehire/internal/report"
	"cyclehire/internal/source"
	"cyclehire/internal/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	})).With("run_id", runID[:8])

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, runID, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, runID string, logger *slog.Logger) error {
	src, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	start := time.Now()

	logger.Info("ranking trip durations",
		"year_from", cfg.Analysis.YearFrom, "year_to", cfg.Analysis.YearTo,
		"limit", cfg.Analysis.RankingLimit, "legacy_cap", cfg.Analysis.LegacyRankingCap)
	var rankOpts []analysis.Option
	if cfg.Analysis.LegacyRankingCap {
		rankOpts = append(rankOpts, analysis.WithCapBeforeSort())
	}
	ranked, err := analysis.RankTripDurations(ctx, src,
		cfg.Analysis.YearFrom, cfg.Analysis.YearTo, cfg.Analysis.RankingLimit, rankOpts...)
	if err != nil {
		return err
	}

	logger.Info("counting daily trips", "year", cfg.Analysis.CountsYear)
	daily, err := analysis.DailyTripCounts(ctx, src, cfg.Analysis.CountsYear)
	if err != nil {
		return err
	}

	logger.Info("tracing bikes", "date", cfg.Analysis.TraceDate)
	trace, err := analysis.TraceBikeDay(ctx, src, cfg.Analysis.TraceDate)
	if err != nil {
		return err
	}

	logger.Info("aggregating stations")
	stations, err := analysis.StationStats(ctx, src)
	if err != nil {
		return err
	}

	logger.Info("derived tables ready",
		"ranked", len(ranked), "daily", len(daily), "trace", len(trace),
		"stations", len(stations), "elapsed", time.Since(start))

	params := report.Params{
		TopK:        cfg.Report.TopK,
		WindowStart: cfg.Report.WindowStart,
		WindowEnd:   cfg.Report.WindowEnd,
	}
	rep, err := report.Build(runID, ranked, daily, trace, stations, params)
	if err != nil {
		return err
	}
	return rep.Render(os.Stdout, params)
}

func openSource(ctx context.Context, cfg config.Config, logger *slog.Logger) (source.Source, error) {
	switch cfg.Source.Driver {
	case "sqlite":
		db, err := sqlite.New(cfg.Source.DSN)
		if err != nil {
			return nil, err
		}
		if cfg.Seed.TripsCSV != "" || cfg.Seed.StationsCSV != "" {
			if err := seed(ctx, db, cfg.Seed, logger); err != nil {
				db.Close()
				return nil, err
			}
		}
		return db, nil
	case "postgres":
		return postgres.Open(ctx, cfg.Source.DSN)
	default:
		return nil, fmt.Errorf("unknown source driver %q", cfg.Source.Driver)
	}
}

func seed(ctx context.Context, db *sqlite.DB, cfg config.SeedConfig, logger *slog.Logger) error {
	if err := db.CreateSchema(); err != nil {
		return err
	}
	if cfg.StationsCSV != "" {
		n, err := db.LoadStationsCSV(ctx, cfg.StationsCSV)
		if err != nil {
			return err
		}
		logger.Info("seeded stations", "path", cfg.StationsCSV, "rows", n)
	}
	if cfg.TripsCSV != "" {
		n, err := db.LoadTripsCSV(ctx, cfg.TripsCSV)
		if err != nil {
			return err
		}
		logger.Info("seeded trips", "path", cfg.TripsCSV, "rows", n)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
