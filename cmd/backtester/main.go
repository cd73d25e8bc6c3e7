package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/leaguetrade/config"
	"github.com/alejandrodnm/leaguetrade/internal/adapters/chart"
	"github.com/alejandrodnm/leaguetrade/internal/adapters/dataset"
	"github.com/alejandrodnm/leaguetrade/internal/adapters/export"
	"github.com/alejandrodnm/leaguetrade/internal/adapters/notify"
	"github.com/alejandrodnm/leaguetrade/internal/adapters/storage"
	"github.com/alejandrodnm/leaguetrade/internal/application/pipeline"
	"github.com/alejandrodnm/leaguetrade/internal/application/scanner"
	"github.com/alejandrodnm/leaguetrade/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full tables (default: compact 1-line per run)")
	noStore := flag.Bool("no-store", false, "do not persist runs to SQLite")
	history := flag.Bool("history", false, "list saved runs and exit")
	showRun := flag.String("run", "", "print a saved run by ID and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *history || *showRun != "" {
		if err := runHistory(ctx, cfg.Storage.DSN, *showRun); err != nil {
			slog.Error("history failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err, "path", *configPath)
		os.Exit(1)
	}
	window, _ := cfg.Window() // ya validada

	slog.Info("backtester starting",
		"config", *configPath,
		"from", window.Start().String(),
		"to", window.End().String(),
		"capital", cfg.Analysis.StartingCapital,
		"policies", cfg.Analysis.Policies,
	)

	var source ports.PriceSource = dataset.NewLoader(dataset.Config{
		CurrencyCSV:   cfg.Input.CurrencyCSV,
		ItemsCSV:      cfg.Input.ItemsCSV,
		League:        cfg.Input.League,
		PayCurrency:   cfg.Input.PayCurrency,
		ExcludedTypes: cfg.Input.ExcludedTypes,
	})
	ds, err := source.Load(ctx, window)
	if err != nil {
		slog.Error("failed to load prices", "err", err)
		os.Exit(1)
	}

	report, err := pipeline.Run(ctx, ds, pipelineConfig(cfg))
	if err != nil {
		slog.Error("backtest failed", "err", err)
		os.Exit(1)
	}

	sinks := []ports.ReportSink{
		export.NewExporter(cfg.Output.Dir, cfg.Output.Parquet),
		notify.NewConsole(cfg.Output.TopN, *table),
	}
	if cfg.Output.Charts {
		sinks = append(sinks, chart.NewRenderer(cfg.Output.Dir))
	}
	if cfg.Storage.DSN != "" && !*noStore {
		store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer store.Close()
		if retention := cfg.Retention(); retention > 0 {
			pruned, err := store.Prune(ctx, time.Now().Add(-retention))
			if err != nil {
				slog.Warn("prune failed", "err", err)
			} else if pruned > 0 {
				slog.Info("old runs pruned", "runs", pruned)
			}
		}
		sinks = append(sinks, store)
	}

	if err := pipeline.Publish(ctx, report, sinks...); err != nil {
		slog.Error("failed to publish report", "err", err)
		os.Exit(1)
	}

	slog.Info("backtester finished", "runs", len(report.Runs), "output", cfg.Output.Dir)
}

func pipelineConfig(cfg *config.Config) pipeline.Config {
	window, _ := cfg.Window()
	buckets := make([]pipeline.Bucket, len(cfg.Analysis.Buckets))
	for i, b := range cfg.Analysis.Buckets {
		buckets[i] = pipeline.Bucket{Name: b.Name, Types: b.Types, IncludeCurrency: b.IncludeCurrency}
	}
	return pipeline.Config{
		Window:          window,
		StartingCapital: cfg.Analysis.StartingCapital,
		Policies:        cfg.Analysis.Policies,
		Buckets:         buckets,
		Scanner: scanner.Config{
			Filter: scanner.PairFilter{
				MinGain:    cfg.Analysis.MinGain,
				MinGainPct: cfg.Analysis.MinGainPct,
			},
			MAWindow: cfg.Analysis.MovingAverageWindow(),
			Workers:  cfg.Analysis.Workers,
			RankTopN: cfg.Analysis.RankingTopN(),
		},
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
