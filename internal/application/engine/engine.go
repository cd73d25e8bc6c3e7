package engine

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// Result es lo que produce un run de simulador u optimizador.
type Result struct {
	Trades       []domain.Trade
	Dailies      []domain.DailySummary // uno por día de decisión (todos menos el último)
	Curve        []float64             // capital por fecha de la ventana
	FinalCapital float64
}

// ValidateRun es la comprobación común a simuladores y optimizador:
// capital inicial positivo y ventana no vacía. Falla antes de calcular nada.
func ValidateRun(window domain.DateRange, capital float64) error {
	if !(capital > 0) || math.IsInf(capital, 1) {
		return fmt.Errorf("engine.ValidateRun: starting capital %.6f: %w", capital, domain.ErrInvalidConfiguration)
	}
	if len(window) == 0 {
		return fmt.Errorf("engine.ValidateRun: empty window: %w", domain.ErrInvalidConfiguration)
	}
	return nil
}

// PriceOr devuelve el precio de id en d, o fallback si no hay observación
// usable ese día.
func PriceOr(prices domain.PriceMap, id domain.AssetID, d domain.Date, fallback float64) float64 {
	if p, ok := prices.Price(id, d); ok && domain.UsablePrice(p) {
		return p
	}
	return fallback
}
