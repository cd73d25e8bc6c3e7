package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) domain.Date {
	return domain.NewDate(2025, time.February, 20).AddDays(n)
}

func TestNewDateRange_Contiguous(t *testing.T) {
	r, err := domain.NewDateRange(domain.NewDate(2025, time.February, 27), domain.NewDate(2025, time.March, 2))
	require.NoError(t, err)
	require.Len(t, r, 4)
	assert.Equal(t, "2025-02-27", r.Start().String())
	assert.Equal(t, "2025-03-02", r.End().String())
	assert.Equal(t, "2025-03-01", r[2].String())
	assert.Equal(t, 2, r.Index(domain.NewDate(2025, time.March, 1)))
	assert.Equal(t, -1, r.Index(domain.NewDate(2025, time.March, 3)))
}

func TestNewDateRange_Inverted(t *testing.T) {
	_, err := domain.NewDateRange(day(3), day(1))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = domain.NewDateRange(domain.Date{}, day(1))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2025-03-20")
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2025, time.March, 20), d)
	assert.Equal(t, 28, domain.NewDate(2025, time.February, 20).DaysUntil(d))

	_, err = domain.ParseDate("20/03/2025")
	assert.Error(t, err)
}

func TestOpportunity_GuardsNonPositiveBuy(t *testing.T) {
	o := domain.Opportunity{BuyPrice: 0, SellPrice: 5}
	assert.Equal(t, 0.0, o.GainPct())
	assert.Equal(t, 1.0, o.Factor())
	assert.False(t, o.Profitable())

	tr := o.Execute(100)
	assert.Equal(t, 0.0, tr.Units)
	assert.Equal(t, 0.0, tr.CapitalEnd)
}

func TestOpportunity_Execute(t *testing.T) {
	o := domain.Opportunity{Asset: "currency|Divine Orb", BuyDate: day(0), SellDate: day(1), BuyPrice: 8, SellPrice: 20}
	assert.InDelta(t, 1.5, o.GainPct(), 1e-12)
	assert.InDelta(t, 2.5, o.Factor(), 1e-12)

	tr := o.Execute(100)
	assert.InDelta(t, 12.5, tr.Units, 1e-12)
	assert.InDelta(t, 100.0, tr.CapitalStart, 1e-12)
	assert.InDelta(t, 250.0, tr.CapitalEnd, 1e-12)
	assert.InDelta(t, 150.0, tr.Gain(), 1e-12)
	assert.InDelta(t, 1.5, tr.GainPct(), 1e-12)
}

func TestTrade_GainPctZeroCapital(t *testing.T) {
	tr := domain.Trade{CapitalStart: 0, CapitalEnd: 10}
	assert.Equal(t, 0.0, tr.GainPct())
}

func TestSummarize(t *testing.T) {
	trades := []domain.Trade{
		{CapitalStart: 100, CapitalEnd: 110}, // 0.10
		{CapitalStart: 110, CapitalEnd: 121}, // 0.10
		{CapitalStart: 121, CapitalEnd: 181.5},
		{CapitalStart: 100, CapitalEnd: 90}, // -0.10
	}
	s := domain.Summarize(100, 181.5, trades)
	assert.Equal(t, 4, s.TradeCount)
	assert.InDelta(t, 0.815, s.TotalReturn, 1e-12)
	assert.InDelta(t, (0.1+0.1+0.5-0.1)/4, s.AvgGainPct, 1e-12)
	assert.InDelta(t, 0.1, s.MedianGainPct, 1e-12)

	empty := domain.Summarize(100, 100, nil)
	assert.Equal(t, 0, empty.TradeCount)
	assert.Equal(t, 0.0, empty.AvgGainPct)
	assert.Equal(t, 0.0, empty.TotalReturn)
}

func TestPriceMap_IDsSorted(t *testing.T) {
	m := domain.PriceMap{
		"item|b||":        {day(0): 1},
		"currency|Exalt":  {day(0): 1},
		"item|a||":        {day(0): 1},
		"currency|Divine": {day(0): 1},
	}
	assert.Equal(t, []domain.AssetID{"currency|Divine", "currency|Exalt", "item|a||", "item|b||"}, m.IDs())
}

func TestDataset_WithinAndSubset(t *testing.T) {
	ds := domain.NewDataset()
	ds.Prices["currency|Divine Orb"] = domain.PriceSeries{day(0): 150, day(5): 160}
	ds.Prices["item|1||"] = domain.PriceSeries{day(5): 10}
	ds.Meta["currency|Divine Orb"] = domain.Asset{ID: "currency|Divine Orb", Kind: domain.KindCurrency, Type: domain.CurrencyType}
	ds.Meta["item|1||"] = domain.Asset{ID: "item|1||", Kind: domain.KindItem, Type: "Scarab"}

	window, err := domain.NewDateRange(day(0), day(2))
	require.NoError(t, err)

	in := ds.Within(window)
	require.Len(t, in.Prices, 1)
	assert.Equal(t, domain.PriceSeries{day(0): 150}, in.Prices["currency|Divine Orb"])

	items := ds.Subset(func(a domain.Asset) bool { return a.Kind == domain.KindItem })
	require.Len(t, items.Prices, 1)
	assert.Equal(t, "Scarab", items.Meta["item|1||"].Type)
}

func TestAssetIDs(t *testing.T) {
	assert.Equal(t, domain.AssetID("currency|Divine Orb"), domain.CurrencyID("Divine Orb"))
	assert.Equal(t, domain.AssetID("item|42|Foulborn|6"), domain.ItemID("42", "Foulborn", "6"))
	assert.Equal(t, domain.AssetID("item|42||"), domain.ItemID("42", "", ""))
}

func TestUsablePrice(t *testing.T) {
	assert.True(t, domain.UsablePrice(0.5))
	for _, p := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.False(t, domain.UsablePrice(p), "%v", p)
	}

	nanBuy := domain.Opportunity{BuyDate: day(0), SellDate: day(1), BuyPrice: math.NaN(), SellPrice: 5}
	assert.False(t, nanBuy.Profitable())
	assert.Equal(t, 1.0, nanBuy.Factor())
	assert.Equal(t, 0.0, nanBuy.GainPct())
	assert.Equal(t, 0.0, nanBuy.Execute(100).Units)

	infSell := domain.Opportunity{BuyDate: day(0), SellDate: day(1), BuyPrice: 2, SellPrice: math.Inf(1)}
	assert.False(t, infSell.Profitable())
}

func TestDataset_Merge(t *testing.T) {
	ds := domain.NewDataset()
	ds.Prices["a"] = domain.PriceSeries{day(0): 1}
	ds.Meta["a"] = domain.Asset{ID: "a", Name: "old"}

	other := domain.NewDataset()
	other.Prices["a"] = domain.PriceSeries{day(0): 2}
	other.Meta["a"] = domain.Asset{ID: "a", Name: "new"}
	other.Prices["b"] = domain.PriceSeries{day(1): 3}
	other.Meta["b"] = domain.Asset{ID: "b"}

	ds.Merge(other)

	require.Len(t, ds.Prices, 2)
	assert.Equal(t, 2.0, ds.Prices["a"][day(0)])
	assert.Equal(t, "new", ds.Meta["a"].Name)
	assert.Equal(t, 3.0, ds.Prices["b"][day(1)])
}
