// Package pipeline ejecuta todos los análisis de un dataset (elección diaria,
// simuladores por política, camino óptimo y tablas por asset) y entrega el
// report resultante a los sinks configurados.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/leaguetrade/internal/application/engine"
	"github.com/alejandrodnm/leaguetrade/internal/application/engine/pathopt"
	"github.com/alejandrodnm/leaguetrade/internal/application/engine/simulate"
	"github.com/alejandrodnm/leaguetrade/internal/application/scanner"
	"github.com/alejandrodnm/leaguetrade/internal/domain"
	"github.com/alejandrodnm/leaguetrade/internal/domain/strategy"
	"github.com/alejandrodnm/leaguetrade/internal/ports"
)

// Bucket es un subconjunto de assets con su propio camino óptimo.
type Bucket struct {
	Name            string
	Types           []string
	IncludeCurrency bool
}

// Keep devuelve true si el asset pertenece al bucket.
func (b Bucket) Keep(a domain.Asset) bool {
	if a.Kind == domain.KindCurrency {
		return b.IncludeCurrency
	}
	return slices.Contains(b.Types, a.Type)
}

// Config es todo lo que necesita un Run.
type Config struct {
	Window          domain.DateRange
	StartingCapital float64
	Policies        []string
	Buckets         []Bucket
	Scanner         scanner.Config
}

// Prefijos de nombre de los runs.
const (
	policyPrefix = "policy_"
	bucketPrefix = "optimal_path_"
)

// Run calcula el report completo de un dataset. Cualquier error de
// configuración aborta antes de calcular nada.
func Run(ctx context.Context, ds domain.Dataset, cfg Config) (*domain.Report, error) {
	if err := engine.ValidateRun(cfg.Window, cfg.StartingCapital); err != nil {
		return nil, fmt.Errorf("pipeline.Run: %w", err)
	}
	policies := make([]strategy.AllocationPolicy, 0, len(cfg.Policies))
	for _, name := range cfg.Policies {
		p, err := strategy.ByName(name)
		if err != nil {
			return nil, fmt.Errorf("pipeline.Run: %w", err)
		}
		policies = append(policies, p)
	}
	for _, b := range cfg.Buckets {
		// el nombre del run acaba en rutas de fichero
		if b.Name == "" || b.Name == "." || b.Name == ".." || strings.ContainsAny(b.Name, `/\`) {
			return nil, fmt.Errorf("pipeline.Run: bucket %q: %w", b.Name, domain.ErrInvalidConfiguration)
		}
	}
	sc, err := scanner.New(cfg.Scanner)
	if err != nil {
		return nil, fmt.Errorf("pipeline.Run: %w", err)
	}

	start := time.Now()
	data := ds.Within(cfg.Window)
	report := &domain.Report{
		Start: cfg.Window.Start(),
		End:   cfg.Window.End(),
		Meta:  data.Meta,
	}

	sim, err := simulate.New(cfg.Window, data.Prices, simulate.Config{StartingCapital: cfg.StartingCapital})
	if err != nil {
		return nil, fmt.Errorf("pipeline.Run: %w", err)
	}

	// 1. Best daily choice + switching
	report.Choices = scanner.BestDailyChoices(data.Prices, cfg.Window)
	report.Runs = append(report.Runs, newRun(cfg, domain.StrategyBestDaily, domain.StrategyBestDaily, sim.RunSwitching(report.Choices)))

	// 2. Políticas de asignación con liquidación nocturna
	oppsByDay := scanner.CrossAssetOpportunities(data.Prices, cfg.Window)
	for _, p := range policies {
		report.Runs = append(report.Runs, newRun(cfg, policyPrefix+p.Name(), p.Name(), sim.RunPolicy(oppsByDay, p)))
	}

	// 3. Camino óptimo global y por bucket
	optimal, err := optimize(cfg, data.Prices)
	if err != nil {
		return nil, err
	}
	report.Runs = append(report.Runs, newRun(cfg, domain.StrategyOptimal, domain.StrategyOptimal, optimal))

	for _, b := range cfg.Buckets {
		subset := data.Subset(b.Keep)
		res, err := optimize(cfg, subset.Prices)
		if err != nil {
			return nil, err
		}
		report.Runs = append(report.Runs, newRun(cfg, bucketPrefix+b.Name, domain.StrategyOptimal, res))
		slog.Debug("pipeline: bucket optimized", "bucket", b.Name, "assets", len(subset.Prices))
	}

	// 4. Tablas por asset
	scan, err := sc.Scan(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("pipeline.Run: %w", err)
	}
	report.Scans = scan.Scans
	report.Ranking = scan.Ranking

	slog.Info("pipeline complete",
		"assets", len(data.Prices),
		"days", len(cfg.Window),
		"runs", len(report.Runs),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return report, nil
}

// Publish entrega el report a cada sink en orden. El primer error aborta.
func Publish(ctx context.Context, report *domain.Report, sinks ...ports.ReportSink) error {
	for _, s := range sinks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline.Publish: %w", err)
		}
		if err := s.Publish(ctx, report); err != nil {
			return fmt.Errorf("pipeline.Publish: %T: %w", s, err)
		}
	}
	return nil
}

func optimize(cfg Config, prices domain.PriceMap) (engine.Result, error) {
	opt, err := pathopt.New(cfg.Window, cfg.StartingCapital)
	if err != nil {
		return engine.Result{}, fmt.Errorf("pipeline.optimize: %w", err)
	}
	return opt.Optimize(scanner.TradeCandidates(prices, cfg.Window)), nil
}

func newRun(cfg Config, name, strategyName string, res engine.Result) domain.RunResult {
	return domain.RunResult{
		ID:       uuid.New().String(),
		Name:     name,
		Strategy: strategyName,
		Start:    cfg.Window.Start(),
		End:      cfg.Window.End(),
		Trades:   res.Trades,
		Dailies:  res.Dailies,
		Curve:    res.Curve,
		Summary:  domain.Summarize(cfg.StartingCapital, res.FinalCapital, res.Trades),
	}
}
