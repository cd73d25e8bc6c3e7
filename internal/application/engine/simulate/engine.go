package simulate

import (
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/leaguetrade/internal/application/engine"
	"github.com/alejandrodnm/leaguetrade/internal/domain"
	"github.com/alejandrodnm/leaguetrade/internal/domain/strategy"
)

// Config holds the day-by-day simulation settings.
type Config struct {
	StartingCapital float64
}

// Engine drives an allocation rule across a contiguous date window.
type Engine struct {
	window domain.DateRange
	prices domain.PriceMap
	cfg    Config
}

// New creates a simulation engine. The window must be contiguous and the
// starting capital positive.
func New(window domain.DateRange, prices domain.PriceMap, cfg Config) (*Engine, error) {
	if err := engine.ValidateRun(window, cfg.StartingCapital); err != nil {
		return nil, fmt.Errorf("simulate.New: %w", err)
	}
	return &Engine{window: window, prices: prices, cfg: cfg}, nil
}

// RunPolicy runs the nightly-settlement variant: every decision day the policy
// splits the available capital over that day's opportunities, each trade is
// closed the next day and everything is back in cash before the next decision.
//
//	capital_next = leftover + Σ capital_end
func (e *Engine) RunPolicy(oppsByDay map[domain.Date][]domain.Opportunity, policy strategy.AllocationPolicy) engine.Result {
	capital := e.cfg.StartingCapital
	res := engine.Result{Curve: make([]float64, len(e.window))}

	prevOpened := 0
	for i := 0; i+1 < len(e.window); i++ {
		day := e.window[i]
		trades, leftover := policy.Decide(day, oppsByDay[day], capital)

		invested, proceeds := 0.0, 0.0
		for _, t := range trades {
			invested += t.CapitalStart
			proceeds += t.CapitalEnd
		}
		next := leftover + proceeds

		res.Dailies = append(res.Dailies, domain.DailySummary{
			Date:         day,
			CapitalStart: capital,
			CapitalEnd:   next,
			Invested:     invested,
			CashLeft:     leftover,
			TradesOpened: len(trades),
			TradesClosed: prevOpened,
		})
		res.Trades = append(res.Trades, trades...)
		res.Curve[i] = capital

		slog.Debug("simulate: policy day",
			"policy", policy.Name(),
			"day", day.String(),
			"opportunities", len(oppsByDay[day]),
			"trades", len(trades),
			"capital", fmt.Sprintf("%.4f", next),
		)

		prevOpened = len(trades)
		capital = next
	}

	res.Curve[len(res.Curve)-1] = capital
	res.FinalCapital = capital
	return res
}
