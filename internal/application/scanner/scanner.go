package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// Config contiene la configuración del scanner.
type Config struct {
	Filter   PairFilter
	MAWindow int
	Workers  int // goroutines para análisis paralelo (0 = NumCPU)
	RankTopN int // pares por Type en el ranking (0 = sin ranking)
}

// Result es la salida del scan de un dataset completo.
type Result struct {
	Scans []domain.AssetScan // ordenados por AssetID
	// Ranking es nil si no se pidió o si no había pares rentables.
	Ranking *domain.Ranking
}

// Scanner recorre todas las series de un dataset y calcula las tablas por asset.
type Scanner struct {
	cfg      Config
	analyzer *Analyzer
}

// New crea un Scanner. Devuelve ErrInvalidConfiguration si la ventana de media no es positiva.
func New(cfg Config) (*Scanner, error) {
	a, err := NewAnalyzer(cfg.Filter, cfg.MAWindow)
	if err != nil {
		return nil, fmt.Errorf("scanner.New: %w", err)
	}
	return &Scanner{cfg: cfg, analyzer: a}, nil
}

// Scan analiza todos los assets del dataset.
func (s *Scanner) Scan(ctx context.Context, ds domain.Dataset) (*Result, error) {
	start := time.Now()

	scans, err := analyzeAssetsConcurrent(ctx, s.analyzer, ds.Prices, s.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("scanner.Scan: %w", err)
	}
	res := &Result{Scans: scans}

	if s.cfg.RankTopN > 0 {
		ranking, err := RankByType(scans, ds.Meta, s.cfg.RankTopN)
		switch {
		case errors.Is(err, domain.ErrNoOpportunities):
			slog.Warn("scanner: ranking skipped", "err", err)
		case err != nil:
			return nil, fmt.Errorf("scanner.Scan: %w", err)
		default:
			res.Ranking = &ranking
		}
	}

	profitable := 0
	for _, sc := range scans {
		profitable += len(sc.Profitable)
	}
	slog.Info("scan complete",
		"assets", len(scans),
		"profitable_pairs", profitable,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}
