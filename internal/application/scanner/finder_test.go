package scanner

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = domain.NewDate(2025, time.February, 20)

func d(n int) domain.Date { return base.AddDays(n) }

func series(prices ...float64) domain.PriceSeries {
	s := make(domain.PriceSeries, len(prices))
	for i, p := range prices {
		s[d(i)] = p
	}
	return s
}

func window(t *testing.T, from, to int) domain.DateRange {
	t.Helper()
	w, err := domain.NewDateRange(d(from), d(to))
	require.NoError(t, err)
	return w
}

func TestSingleBestPair_FindsGlobalNotFirstLocal(t *testing.T) {
	best, ok := SingleBestPair("a", series(10, 15, 8, 20))

	require.True(t, ok)
	assert.Equal(t, d(2), best.BuyDate)
	assert.Equal(t, d(3), best.SellDate)
	assert.Equal(t, 8.0, best.BuyPrice)
	assert.Equal(t, 20.0, best.SellPrice)
	assert.Equal(t, 12.0, best.Gain)
	assert.True(t, best.HasGainPct)
	assert.InDelta(t, 1.5, best.GainPct, 1e-12)
}

func TestSingleBestPair_TooShort(t *testing.T) {
	_, ok := SingleBestPair("a", series(10))
	assert.False(t, ok)
	_, ok = SingleBestPair("a", nil)
	assert.False(t, ok)
}

func TestSingleBestPair_OnlyFalling(t *testing.T) {
	best, ok := SingleBestPair("a", series(10, 7, 4))

	require.True(t, ok)
	// la menor pérdida posible
	assert.Equal(t, -3.0, best.Gain)
	assert.Equal(t, d(0), best.BuyDate)
	assert.Equal(t, d(1), best.SellDate)
}

func TestSingleBestPair_ZeroBuyPrice(t *testing.T) {
	best, ok := SingleBestPair("a", series(0, 5))

	require.True(t, ok)
	assert.Equal(t, 5.0, best.Gain)
	assert.False(t, best.HasGainPct)
	assert.Equal(t, 0.0, best.GainPct)
}

func TestSingleBestPair_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		n := 2 + rng.Intn(19)
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = 1 + rng.Float64()*100
		}

		best, ok := SingleBestPair("a", series(prices...))
		require.True(t, ok)

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				require.GreaterOrEqual(t, best.Gain, prices[j]-prices[i], "iter %d pair (%d,%d)", iter, i, j)
			}
		}
		assert.InDelta(t, best.SellPrice-best.BuyPrice, best.Gain, 1e-12)
		assert.True(t, best.BuyDate.Before(best.SellDate))
	}
}

func TestProfitablePairs_Filters(t *testing.T) {
	s := series(10, 15, 8, 20)

	all := ProfitablePairs("a", s, PairFilter{})
	assert.Len(t, all, 4)

	strict := ProfitablePairs("a", s, PairFilter{MinGain: 5})
	require.Len(t, strict, 2)
	assert.Equal(t, d(0), strict[0].BuyDate)
	assert.Equal(t, d(2), strict[1].BuyDate)

	pct := 1.0
	byPct := ProfitablePairs("a", s, PairFilter{MinGainPct: &pct})
	require.Len(t, byPct, 2)
	assert.Equal(t, 10.0, byPct[0].BuyPrice)
	assert.Equal(t, 20.0, byPct[0].SellPrice)
	assert.Equal(t, 8.0, byPct[1].BuyPrice)
}

func TestProfitablePairs_ZeroBuyWithPctFilter(t *testing.T) {
	pct := 0.0
	assert.Len(t, ProfitablePairs("a", series(0, 5), PairFilter{}), 1)
	assert.Empty(t, ProfitablePairs("a", series(0, 5), PairFilter{MinGainPct: &pct}))
}

func TestBestNextDay(t *testing.T) {
	prices := domain.PriceMap{
		"A": series(10, 12),
		"B": series(10, 9),
	}
	choice := BestNextDay(prices, d(0), d(1))
	assert.Equal(t, domain.AssetID("A"), choice.Asset)
	assert.InDelta(t, 1.2, choice.Factor, 1e-12)
	assert.False(t, choice.HoldsCash())

	falling := domain.PriceMap{
		"A": series(10, 8),
		"B": series(10, 9),
	}
	choice = BestNextDay(falling, d(0), d(1))
	assert.True(t, choice.HoldsCash())
	assert.Equal(t, 1.0, choice.Factor)
}

func TestBestNextDay_TiesGoToLowestID(t *testing.T) {
	prices := domain.PriceMap{
		"c": series(10, 20),
		"a": series(5, 10),
		"b": series(1, 2),
	}
	choice := BestNextDay(prices, d(0), d(1))
	assert.Equal(t, domain.AssetID("a"), choice.Asset)
}

func TestBestNextDay_SkipsMissingAndNonPositive(t *testing.T) {
	prices := domain.PriceMap{
		"a": {d(0): 0, d(1): 50},
		"b": {d(1): 50},
		"c": series(4, 5),
	}
	choice := BestNextDay(prices, d(0), d(1))
	assert.Equal(t, domain.AssetID("c"), choice.Asset)
}

func TestBestDailyChoices(t *testing.T) {
	prices := domain.PriceMap{"a": series(1, 2, 1, 3)}
	choices := BestDailyChoices(prices, window(t, 0, 3))

	require.Len(t, choices, 3)
	assert.Equal(t, domain.AssetID("a"), choices[0].Asset)
	assert.True(t, choices[1].HoldsCash())
	assert.Equal(t, d(2), choices[2].Date)
	assert.Equal(t, d(3), choices[2].NextDate)

	assert.Nil(t, BestDailyChoices(prices, window(t, 0, 0)))
}

func TestCrossAssetOpportunities(t *testing.T) {
	prices := domain.PriceMap{
		"B": series(10, 9, 10),
		"A": series(10, 12, 11),
	}
	byDay := CrossAssetOpportunities(prices, window(t, 0, 2))

	require.Len(t, byDay[d(0)], 1)
	assert.Equal(t, domain.AssetID("A"), byDay[d(0)][0].Asset)
	require.Len(t, byDay[d(1)], 1)
	assert.Equal(t, domain.AssetID("B"), byDay[d(1)][0].Asset)
	assert.Empty(t, byDay[d(2)])
}

func TestTradeCandidates(t *testing.T) {
	prices := domain.PriceMap{
		"B": series(10, 9, 10),
		"A": series(10, 12, 11, 50),
	}
	candidates := TradeCandidates(prices, window(t, 0, 2))

	require.Len(t, candidates, 3)
	assert.Equal(t, domain.AssetID("A"), candidates[0].Asset)
	assert.Equal(t, d(1), candidates[0].SellDate)
	assert.Equal(t, domain.AssetID("A"), candidates[1].Asset)
	assert.Equal(t, d(2), candidates[1].SellDate)
	assert.Equal(t, domain.AssetID("B"), candidates[2].Asset)
	assert.Equal(t, d(1), candidates[2].BuyDate)
	for _, c := range candidates {
		assert.True(t, c.Profitable())
	}
}

func TestFinder_IgnoresNonFinitePrices(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	prices := domain.PriceMap{
		"a": series(nan, 5),
		"b": series(10, 12),
		"c": series(4, inf),
		"d": series(inf, inf),
	}
	w := window(t, 0, 1)

	choice := BestNextDay(prices, d(0), d(1))
	assert.Equal(t, domain.AssetID("b"), choice.Asset)
	assert.InDelta(t, 1.2, choice.Factor, 1e-12)

	cands := TradeCandidates(prices, w)
	require.Len(t, cands, 1)
	assert.Equal(t, domain.AssetID("b"), cands[0].Asset)

	assert.Len(t, CrossAssetOpportunities(prices, w)[d(0)], 1)

	assert.Empty(t, ProfitablePairs("a", prices["a"], PairFilter{}))
	assert.Empty(t, ProfitablePairs("c", prices["c"], PairFilter{}))

	_, ok := SingleBestPair("a", prices["a"])
	assert.False(t, ok, "solo queda un punto finito")

	best, ok := SingleBestPair("e", series(3, nan, 9))
	require.True(t, ok)
	assert.Equal(t, 6.0, best.Gain)
	assert.Equal(t, d(2), best.SellDate)
}
