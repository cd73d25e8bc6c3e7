// Package pathopt finds the trade path that maximizes ending capital over a
// date window. It is a longest-path DP over a DAG of dates: one-day cash
// edges plus trade edges [buy, sell] with weight sell/buy.
package pathopt

import (
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/leaguetrade/internal/application/engine"
	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// node es el estado DP de una fecha, indexado por offset desde el inicio.
type node struct {
	set     bool
	capital float64
	prev    int // índice del nodo origen, -1 en el inicio
	trade   int // índice en candidates, -1 = carry de cash
}

// Optimizer resuelve el camino óptimo para una ventana y capital inicial.
type Optimizer struct {
	window  domain.DateRange
	capital float64
}

// New valida la ventana y el capital.
func New(window domain.DateRange, startingCapital float64) (*Optimizer, error) {
	if err := engine.ValidateRun(window, startingCapital); err != nil {
		return nil, fmt.Errorf("pathopt.New: %w", err)
	}
	return &Optimizer{window: window, capital: startingCapital}, nil
}

// Optimize ejecuta el DP sobre candidates (pares compra/venta de cualquier
// asset, no solo adyacentes). Candidatos fuera de la ventana o sin precios
// usables y crecientes se ignoran.
//
// Empates: la actualización es estricta (>), así que gana el primer candidato
// en orden de fecha de compra y después en el orden recibido.
func (o *Optimizer) Optimize(candidates []domain.Opportunity) engine.Result {
	n := len(o.window)
	byBuy := make([][]int, n)
	for k, c := range candidates {
		b, s := o.window.Index(c.BuyDate), o.window.Index(c.SellDate)
		if b < 0 || s < 0 || s <= b || !c.Profitable() {
			continue
		}
		byBuy[b] = append(byBuy[b], k)
	}

	nodes := make([]node, n)
	nodes[0] = node{set: true, capital: o.capital, prev: -1, trade: -1}

	for i := 0; i < n; i++ {
		// Seed con carry-forward antes de procesar las aristas salientes de i.
		if i > 0 {
			carry := nodes[i-1].capital
			if !nodes[i].set || carry > nodes[i].capital {
				nodes[i] = node{set: true, capital: carry, prev: i - 1, trade: -1}
			}
		}

		c := nodes[i].capital
		for _, k := range byBuy[i] {
			opp := candidates[k]
			s := o.window.Index(opp.SellDate)
			end := (c / opp.BuyPrice) * opp.SellPrice
			if !nodes[s].set || end > nodes[s].capital {
				nodes[s] = node{set: true, capital: end, prev: i, trade: k}
			}
		}
	}

	trades := reconstruct(nodes, candidates)
	res := engine.Result{
		Trades:       trades,
		Curve:        realizedCurve(o.window, o.capital, trades),
		FinalCapital: nodes[n-1].capital,
	}
	res.Dailies = pathDailies(o.window, res.Curve, trades)

	slog.Debug("pathopt: optimized",
		"candidates", len(candidates),
		"trades", len(trades),
		"final_capital", fmt.Sprintf("%.4f", res.FinalCapital),
	)
	return res
}

// reconstruct sigue los backpointers desde la última fecha y devuelve los
// trades en orden cronológico.
func reconstruct(nodes []node, candidates []domain.Opportunity) []domain.Trade {
	var trades []domain.Trade
	for i := len(nodes) - 1; i > 0; i = nodes[i].prev {
		nd := nodes[i]
		if nd.trade >= 0 {
			trades = append(trades, candidates[nd.trade].Execute(nodes[nd.prev].capital))
		}
	}
	for l, r := 0, len(trades)-1; l < r; l, r = l+1, r-1 {
		trades[l], trades[r] = trades[r], trades[l]
	}
	return trades
}

// realizedCurve es el capital realizado por fecha: el CapitalEnd del último
// trade vendido en o antes de esa fecha, o el capital inicial.
func realizedCurve(window domain.DateRange, start float64, trades []domain.Trade) []float64 {
	curve := make([]float64, len(window))
	capital, next := start, 0
	for i, d := range window {
		for next < len(trades) && !trades[next].SellDate.After(d) {
			capital = trades[next].CapitalEnd
			next++
		}
		curve[i] = capital
	}
	return curve
}

// pathDailies deriva un DailySummary por día de decisión a partir del camino.
func pathDailies(window domain.DateRange, curve []float64, trades []domain.Trade) []domain.DailySummary {
	if len(window) < 2 {
		return nil
	}
	dailies := make([]domain.DailySummary, 0, len(window)-1)
	for i := 0; i+1 < len(window); i++ {
		d := window[i]
		ds := domain.DailySummary{
			Date:         d,
			CapitalStart: curve[i],
			CapitalEnd:   curve[i+1],
			CashLeft:     curve[i],
		}
		for _, t := range trades {
			if t.BuyDate == d {
				ds.TradesOpened++
			}
			if t.SellDate == d {
				ds.TradesClosed++
			}
			if !t.BuyDate.After(d) && t.SellDate.After(d) {
				ds.Invested = t.CapitalStart
				ds.CashLeft = 0
			}
		}
		dailies = append(dailies, ds)
	}
	return dailies
}
