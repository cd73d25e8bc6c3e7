package scanner

// concurrent.go: worker pool para analizar todos los assets en paralelo.
//
// El análisis de cada asset es independiente (embarrassingly parallel). Los
// resultados se reordenan por AssetID al final, así que la salida es idéntica
// a la de un recorrido secuencial.

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// analyzeAssetsConcurrent analiza cada serie en un pool de workers.
// Si workers <= 0 usa runtime.NumCPU().
func analyzeAssetsConcurrent(
	ctx context.Context,
	analyzer *Analyzer,
	prices domain.PriceMap,
	workers int,
) ([]domain.AssetScan, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type work struct {
		id     domain.AssetID
		series domain.PriceSeries
	}

	workCh := make(chan work, len(prices))
	resultCh := make(chan domain.AssetScan, len(prices))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				if ctx.Err() != nil {
					continue
				}
				resultCh <- analyzer.Analyze(w.id, w.series)
			}
		}()
	}

	for _, id := range prices.IDs() {
		workCh <- work{id: id, series: prices[id]}
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	scans := make([]domain.AssetScan, 0, len(prices))
	for scan := range resultCh {
		scans = append(scans, scan)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(scans, func(i, j int) bool { return scans[i].Asset < scans[j].Asset })

	slog.Debug("concurrent analysis complete",
		"assets", len(prices),
		"scans", len(scans),
		"workers", workers,
	)
	return scans, nil
}
