package simulate

import (
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/leaguetrade/internal/application/engine"
	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// position is the single open holding of the switching strategy.
type position struct {
	asset     domain.AssetID
	buyDate   domain.Date
	buyPrice  float64
	units     float64
	committed float64
}

// RunSwitching follows the best-next-day choice of every decision day with
// 100% of capital. A position is only closed when the chosen asset changes
// (or the day's choice is cash); if the same asset wins again the position
// rides. Any open position is force-closed on the last window date.
func (e *Engine) RunSwitching(choices []domain.DailyChoice) engine.Result {
	byDay := make(map[domain.Date]domain.DailyChoice, len(choices))
	for _, c := range choices {
		byDay[c.Date] = c
	}

	capital := e.cfg.StartingCapital
	res := engine.Result{Curve: make([]float64, len(e.window))}
	var open *position

	for i := 0; i+1 < len(e.window); i++ {
		day, next := e.window[i], e.window[i+1]
		choice, ok := byDay[day]
		if !ok {
			choice = domain.DailyChoice{Date: day, NextDate: next, Factor: 1.0}
		}

		startEquity := e.equity(open, capital, day)
		opened, closed := 0, 0

		if open == nil || choice.Asset != open.asset {
			if open != nil {
				capital = e.close(open, day, &res)
				open = nil
				closed++
			}
			if !choice.HoldsCash() {
				buy := engine.PriceOr(e.prices, choice.Asset, day, choice.BuyPrice)
				if domain.UsablePrice(buy) {
					open = &position{
						asset:     choice.Asset,
						buyDate:   day,
						buyPrice:  buy,
						units:     capital / buy,
						committed: capital,
					}
					opened++
				}
			}
		}

		daily := domain.DailySummary{
			Date:         day,
			CapitalStart: startEquity,
			CapitalEnd:   e.equity(open, capital, next),
			CashLeft:     capital,
			TradesOpened: opened,
			TradesClosed: closed,
		}
		if open != nil {
			daily.Invested = open.units * engine.PriceOr(e.prices, open.asset, day, open.buyPrice)
			daily.CashLeft = 0
		}
		res.Dailies = append(res.Dailies, daily)
		res.Curve[i] = startEquity
	}

	last := e.window.End()
	if open != nil {
		capital = e.close(open, last, &res)
	}
	res.Curve[len(res.Curve)-1] = capital
	res.FinalCapital = capital

	slog.Debug("simulate: switching done",
		"trades", len(res.Trades),
		"final_capital", fmt.Sprintf("%.4f", capital),
	)
	return res
}

// close realizes the open position at day's price and returns the new capital.
// A missing price (not produced by BestNextDay choices) falls back to the
// buy price, i.e. a flat trade.
func (e *Engine) close(p *position, day domain.Date, res *engine.Result) float64 {
	sell := engine.PriceOr(e.prices, p.asset, day, p.buyPrice)
	capital := p.units * sell
	res.Trades = append(res.Trades, domain.Trade{
		Asset:        p.asset,
		BuyDate:      p.buyDate,
		SellDate:     day,
		BuyPrice:     p.buyPrice,
		SellPrice:    sell,
		Units:        p.units,
		CapitalStart: p.committed,
		CapitalEnd:   capital,
	})
	return capital
}

// equity marks the portfolio to market on d.
func (e *Engine) equity(p *position, cash float64, d domain.Date) float64 {
	if p == nil {
		return cash
	}
	return p.units * engine.PriceOr(e.prices, p.asset, d, p.buyPrice)
}
