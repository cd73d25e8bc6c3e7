package strategy

import (
	"fmt"
	"sort"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// AllocationPolicy define cómo repartir el capital de un día entre las
// oportunidades de ese día. Las políticas son puras: no guardan estado entre días.
type AllocationPolicy interface {
	// Name devuelve el identificador de la política (concentrate | equal | greedy).
	Name() string

	// Decide devuelve los trades abiertos ese día y el cash no comprometido.
	// Nunca asigna más capital del disponible.
	Decide(day domain.Date, opps []domain.Opportunity, capital float64) ([]domain.Trade, float64)
}

const (
	NameConcentrate = "concentrate"
	NameEqual       = "equal"
	NameGreedy      = "greedy"
)

// Names devuelve las políticas disponibles.
func Names() []string {
	return []string{NameConcentrate, NameEqual, NameGreedy}
}

// ByName resuelve una política por nombre.
func ByName(name string) (AllocationPolicy, error) {
	switch name {
	case NameConcentrate:
		return ConcentrateAll{}, nil
	case NameEqual:
		return EqualSplit{}, nil
	case NameGreedy:
		return GreedyUnit{}, nil
	}
	return nil, fmt.Errorf("strategy.ByName: unknown policy %q: %w", name, domain.ErrInvalidConfiguration)
}

// ConcentrateAll invierte el 100% del capital en la oportunidad de mayor gain_pct.
// Con empate gana la primera en el orden de entrada.
type ConcentrateAll struct{}

func (ConcentrateAll) Name() string { return NameConcentrate }

func (ConcentrateAll) Decide(_ domain.Date, opps []domain.Opportunity, capital float64) ([]domain.Trade, float64) {
	if len(opps) == 0 || capital <= 0 {
		return nil, capital
	}
	best := 0
	for i := 1; i < len(opps); i++ {
		if opps[i].GainPct() > opps[best].GainPct() {
			best = i
		}
	}
	return []domain.Trade{opps[best].Execute(capital)}, 0
}

// EqualSplit reparte capital / N en todas las oportunidades del día,
// independientemente de su retorno.
type EqualSplit struct{}

func (EqualSplit) Name() string { return NameEqual }

func (EqualSplit) Decide(_ domain.Date, opps []domain.Opportunity, capital float64) ([]domain.Trade, float64) {
	if len(opps) == 0 || capital <= 0 {
		return nil, capital
	}
	if len(opps) == 1 {
		return []domain.Trade{opps[0].Execute(capital)}, 0
	}
	share := capital / float64(len(opps))
	trades := make([]domain.Trade, 0, len(opps))
	for _, opp := range opps {
		trades = append(trades, opp.Execute(share))
	}
	return trades, 0
}

// GreedyUnit compra UNA unidad de cada oportunidad, de mayor a menor gain_pct,
// mientras el cash restante cubra su precio de compra. Nunca rellena parcialmente:
// si una no cabe se salta y se sigue con la siguiente.
type GreedyUnit struct{}

func (GreedyUnit) Name() string { return NameGreedy }

func (GreedyUnit) Decide(_ domain.Date, opps []domain.Opportunity, capital float64) ([]domain.Trade, float64) {
	if len(opps) == 0 || capital <= 0 {
		return nil, capital
	}

	ranked := append([]domain.Opportunity(nil), opps...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].GainPct() > ranked[j].GainPct()
	})

	remaining := capital
	var trades []domain.Trade
	for _, opp := range ranked {
		if !domain.UsablePrice(opp.BuyPrice) || opp.BuyPrice > remaining {
			continue
		}
		remaining -= opp.BuyPrice
		trades = append(trades, domain.Trade{
			Asset:        opp.Asset,
			BuyDate:      opp.BuyDate,
			SellDate:     opp.SellDate,
			BuyPrice:     opp.BuyPrice,
			SellPrice:    opp.SellPrice,
			Units:        1,
			CapitalStart: opp.BuyPrice,
			CapitalEnd:   opp.SellPrice,
		})
	}
	return trades, remaining
}
