package scanner

import (
	"fmt"
	"sort"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// Analyzer calcula las métricas por asset con un filtro y ventana de media fijos.
type Analyzer struct {
	filter   PairFilter
	maWindow int
}

// NewAnalyzer crea un Analyzer. maWindow debe ser positivo.
func NewAnalyzer(filter PairFilter, maWindow int) (*Analyzer, error) {
	if maWindow <= 0 {
		return nil, fmt.Errorf("scanner.NewAnalyzer: ma window %d: %w", maWindow, domain.ErrInvalidConfiguration)
	}
	return &Analyzer{filter: filter, maWindow: maWindow}, nil
}

// Analyze calcula mejor par, pares rentables y media móvil de una serie.
func (a *Analyzer) Analyze(id domain.AssetID, series domain.PriceSeries) domain.AssetScan {
	scan := domain.AssetScan{Asset: id}
	scan.Best, scan.HasBest = SingleBestPair(id, series)
	scan.Profitable = ProfitablePairs(id, series, a.filter)

	points := series.Points()
	// maWindow ya validado en NewAnalyzer
	ma, _ := MovingAverage(points, a.maWindow)
	scan.Moving = make([]domain.MAPoint, len(points))
	for i, p := range points {
		scan.Moving[i] = domain.MAPoint{Date: p.Date, Price: p.Price, MA: ma[i]}
	}
	return scan
}

// MovingAverage devuelve la media de las últimas `window` observaciones para
// cada punto. En la cabecera (menos de `window` puntos vistos) promedia los
// disponibles.
func MovingAverage(points []domain.PricePoint, window int) ([]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("scanner.MovingAverage: window %d: %w", window, domain.ErrInvalidConfiguration)
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Price
	}

	ma := make([]float64, len(values))
	for i := 0; i < min(window-1, len(values)); i++ {
		ma[i] = stat.Mean(values[:i+1], nil)
	}
	// talib.Sma indexa fuera de rango con menos de window valores
	if len(values) >= window {
		sma := talib.Sma(values, window)
		copy(ma[window-1:], sma[window-1:])
	}
	return ma, nil
}

// sortOpportunities ordena por fecha de compra, asset y fecha de venta.
func sortOpportunities(opps []domain.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		a, b := opps[i], opps[j]
		if a.BuyDate != b.BuyDate {
			return a.BuyDate.Before(b.BuyDate)
		}
		if a.Asset != b.Asset {
			return a.Asset < b.Asset
		}
		return a.SellDate.Before(b.SellDate)
	})
}
