package scanner

// finder.go: búsqueda de pares compra/venta sobre series de precios diarias.
//
// Todas las funciones son puras y deterministas: los assets se recorren en
// orden de AssetID y los días en orden cronológico, de forma que los empates
// se resuelven siempre igual (gana el primero encontrado, updates con `>` estricto).

import (
	"math"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// PairFilter filtra los pares rentables por ganancia mínima.
type PairFilter struct {
	MinGain    float64  // ganancia absoluta mínima (exclusiva: gain > MinGain)
	MinGainPct *float64 // nil = sin filtro; si no, gain_pct >= MinGainPct
}

// BestNextDay devuelve el asset con mayor factor sell/buy entre day y next.
// El baseline es 1.0: si ningún asset lo supera estrictamente, la elección es
// "hold cash" (Asset vacío, Factor 1.0). Assets sin precio usable (no positivo o no finito) se ignoran.
// Con factores empatados gana el AssetID menor.
func BestNextDay(prices domain.PriceMap, day, next domain.Date) domain.DailyChoice {
	choice := domain.DailyChoice{Date: day, NextDate: next, Factor: 1.0}

	for _, id := range prices.IDs() {
		series := prices[id]
		buy, ok := series[day]
		if !ok {
			continue
		}
		sell, ok := series[next]
		if !ok {
			continue
		}
		if !domain.UsablePrice(buy) || !domain.UsablePrice(sell) {
			continue
		}
		factor := sell / buy
		if factor > choice.Factor {
			choice.Asset = id
			choice.BuyPrice = buy
			choice.SellPrice = sell
			choice.Factor = factor
		}
	}
	return choice
}

// BestDailyChoices calcula BestNextDay para cada día de la ventana excepto el último.
func BestDailyChoices(prices domain.PriceMap, window domain.DateRange) []domain.DailyChoice {
	if len(window) < 2 {
		return nil
	}
	choices := make([]domain.DailyChoice, 0, len(window)-1)
	for i := 0; i+1 < len(window); i++ {
		choices = append(choices, BestNextDay(prices, window[i], window[i+1]))
	}
	return choices
}

// ProfitablePairs enumera todos los pares (buy_day < sell_day) de la serie con
// gain > MinGain y, si se pide, gain_pct >= MinGainPct. O(n²) en días con precio.
// Orden de salida: fecha de compra asc, luego fecha de venta asc.
func ProfitablePairs(id domain.AssetID, series domain.PriceSeries, f PairFilter) []domain.Opportunity {
	points := finitePoints(series)
	if len(points) < 2 {
		return nil
	}

	var out []domain.Opportunity
	for i, buy := range points[:len(points)-1] {
		for _, sell := range points[i+1:] {
			gain := sell.Price - buy.Price
			if !(gain > f.MinGain) {
				continue
			}
			if f.MinGainPct != nil {
				// sin precio de compra positivo no hay gain_pct que comparar
				if !domain.UsablePrice(buy.Price) || !(gain/buy.Price >= *f.MinGainPct) {
					continue
				}
			}
			out = append(out, domain.Opportunity{
				Asset:     id,
				BuyDate:   buy.Date,
				SellDate:  sell.Date,
				BuyPrice:  buy.Price,
				SellPrice: sell.Price,
			})
		}
	}
	return out
}

// SingleBestPair devuelve el par compra→venta de mayor ganancia absoluta en una
// pasada lineal: se arrastra el mínimo visto hasta el momento y para cada día
// posterior se compara price - min. Gana el primer mínimo antes de la primera
// ganancia máxima. Devuelve false si la serie tiene menos de 2 puntos.
// La ganancia puede ser negativa si la serie solo baja.
func SingleBestPair(id domain.AssetID, series domain.PriceSeries) (domain.PairResult, bool) {
	points := finitePoints(series)
	if len(points) < 2 {
		return domain.PairResult{}, false
	}

	minPoint := points[0]
	best := domain.PairResult{
		Asset:     id,
		BuyDate:   points[0].Date,
		BuyPrice:  points[0].Price,
		SellDate:  points[0].Date,
		SellPrice: points[0].Price,
		Gain:      math.Inf(-1),
	}

	for _, p := range points[1:] {
		gain := p.Price - minPoint.Price
		if gain > best.Gain {
			best.Gain = gain
			best.BuyDate = minPoint.Date
			best.BuyPrice = minPoint.Price
			best.SellDate = p.Date
			best.SellPrice = p.Price
		}
		if p.Price < minPoint.Price {
			minPoint = p
		}
	}

	if domain.UsablePrice(best.BuyPrice) {
		best.GainPct = best.Gain / best.BuyPrice
		best.HasGainPct = true
	}
	return best, true
}

// CrossAssetOpportunities devuelve, por día de compra, las oportunidades
// rentables de un día al siguiente (solo pares adyacentes) de todos los assets.
// La lista de cada día va ordenada por AssetID.
func CrossAssetOpportunities(prices domain.PriceMap, window domain.DateRange) map[domain.Date][]domain.Opportunity {
	byDay := make(map[domain.Date][]domain.Opportunity)
	ids := prices.IDs()
	for i := 0; i+1 < len(window); i++ {
		day, next := window[i], window[i+1]
		for _, id := range ids {
			series := prices[id]
			buy, ok := series[day]
			if !ok {
				continue
			}
			sell, ok := series[next]
			if !ok {
				continue
			}
			opp := domain.Opportunity{Asset: id, BuyDate: day, SellDate: next, BuyPrice: buy, SellPrice: sell}
			if !opp.Profitable() {
				continue
			}
			byDay[day] = append(byDay[day], opp)
		}
	}
	return byDay
}

// TradeCandidates devuelve todos los pares rentables (buy < sell, sell > buy,
// buy > 0) de todos los assets con ambas fechas dentro de la ventana, no solo
// adyacentes. Es el conjunto de aristas del optimizador global.
// Orden: fecha de compra, AssetID, fecha de venta.
func TradeCandidates(prices domain.PriceMap, window domain.DateRange) []domain.Opportunity {
	var out []domain.Opportunity
	for _, id := range prices.IDs() {
		points := prices[id].Within(window).Points()
		for i, buy := range points {
			if !domain.UsablePrice(buy.Price) {
				continue
			}
			for _, sell := range points[i+1:] {
				if !domain.UsablePrice(sell.Price) || !(sell.Price > buy.Price) {
					continue
				}
				out = append(out, domain.Opportunity{
					Asset:     id,
					BuyDate:   buy.Date,
					SellDate:  sell.Date,
					BuyPrice:  buy.Price,
					SellPrice: sell.Price,
				})
			}
		}
	}
	sortOpportunities(out)
	return out
}

// finitePoints devuelve los puntos de la serie sin NaN ni ±Inf.
func finitePoints(series domain.PriceSeries) []domain.PricePoint {
	points := series.Points()
	out := points[:0]
	for _, p := range points {
		if !math.IsNaN(p.Price) && !math.IsInf(p.Price, 0) {
			out = append(out, p)
		}
	}
	return out
}
