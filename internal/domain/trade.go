package domain

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Trade representa una transición ejecutada: se abrió una posición y se cerró.
// Inmutable una vez creada.
type Trade struct {
	Asset        AssetID
	BuyDate      Date
	SellDate     Date
	BuyPrice     float64
	SellPrice    float64
	Units        float64
	CapitalStart float64
	CapitalEnd   float64
}

// Gain devuelve CapitalEnd - CapitalStart.
func (t Trade) Gain() float64 {
	return t.CapitalEnd - t.CapitalStart
}

// GainPct devuelve Gain / CapitalStart, 0 si CapitalStart <= 0.
func (t Trade) GainPct() float64 {
	if t.CapitalStart <= 0 {
		return 0
	}
	return t.Gain() / t.CapitalStart
}

// DailySummary es el snapshot de capital de un día simulado.
type DailySummary struct {
	Date         Date
	CapitalStart float64
	CapitalEnd   float64
	Invested     float64
	CashLeft     float64
	TradesOpened int
	TradesClosed int
}

// RunSummary es el resumen agregado de una simulación.
type RunSummary struct {
	StartingCapital float64
	EndingCapital   float64
	TotalReturn     float64 // (end - start) / start
	TradeCount      int
	AvgGainPct      float64
	MedianGainPct   float64
}

// Summarize calcula el resumen de un run a partir de sus trades.
func Summarize(start, end float64, trades []Trade) RunSummary {
	s := RunSummary{
		StartingCapital: start,
		EndingCapital:   end,
		TradeCount:      len(trades),
	}
	if start > 0 {
		s.TotalReturn = (end - start) / start
	}
	if len(trades) == 0 {
		return s
	}

	gains := make([]float64, len(trades))
	for i, t := range trades {
		gains[i] = t.GainPct()
	}
	s.AvgGainPct = stat.Mean(gains, nil)
	s.MedianGainPct = median(gains)
	return s
}

// median devuelve la mediana; con longitud par promedia los dos centrales.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return stat.Mean(sorted[n/2-1:n/2+1], nil)
}

// Strategy names used to label runs.
const (
	StrategyBestDaily = "best_daily"
	StrategyOptimal   = "optimal_path"
)

// RunResult es la unidad que se persiste y exporta: un run de una estrategia.
type RunResult struct {
	ID       string
	Name     string
	Strategy string
	Start    Date
	End      Date
	Trades   []Trade
	Dailies  []DailySummary
	// Curve es el capital por fecha de la ventana (mark-to-market o best DP).
	Curve    []float64
	Summary  RunSummary
}
