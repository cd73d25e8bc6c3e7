package scanner

import (
	"context"
	"testing"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverage_ShortHead(t *testing.T) {
	points := series(1, 2, 3, 4).Points()

	ma, err := MovingAverage(points, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.5, 2, 3}, ma)

	_, err = MovingAverage(points, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestNewAnalyzer_InvalidWindow(t *testing.T) {
	_, err := NewAnalyzer(PairFilter{}, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestAnalyzer_Analyze(t *testing.T) {
	a, err := NewAnalyzer(PairFilter{}, 2)
	require.NoError(t, err)

	scan := a.Analyze("a", series(10, 15, 8, 20))

	assert.Equal(t, domain.AssetID("a"), scan.Asset)
	assert.True(t, scan.HasBest)
	assert.Equal(t, 12.0, scan.Best.Gain)
	assert.Len(t, scan.Profitable, 4)
	require.Len(t, scan.Moving, 4)
	assert.Equal(t, 12.5, scan.Moving[1].MA)
	assert.Equal(t, 14.0, scan.Moving[3].MA)
}

func rankingFixture() ([]domain.AssetScan, map[domain.AssetID]domain.Asset) {
	a, _ := NewAnalyzer(PairFilter{}, 1)
	prices := map[domain.AssetID]domain.PriceSeries{
		"item|1||":        series(10, 20), // 1.0
		"item|2||":        series(10, 15), // 0.5
		"item|3||":        series(10, 12), // 0.2
		"item|4||":        series(10, 5),  // pérdida, fuera
		"currency|Exalt":  series(10, 11), // 0.1
		"currency|Divine": series(10, 10),
	}
	meta := map[domain.AssetID]domain.Asset{}
	var scans []domain.AssetScan
	for _, id := range domain.PriceMap(prices).IDs() {
		scans = append(scans, a.Analyze(id, prices[id]))
		typ := "Scarab"
		if id[0] == 'c' {
			typ = domain.CurrencyType
		}
		meta[id] = domain.Asset{ID: id, Name: string(id), Type: typ}
	}
	return scans, meta
}

func TestRankByType(t *testing.T) {
	scans, meta := rankingFixture()

	r, err := RankByType(scans, meta, 2)
	require.NoError(t, err)

	require.Len(t, r.Types, 2)
	assert.Equal(t, "Scarab", r.Types[0].Type)
	assert.InDelta(t, 0.75, r.Types[0].AvgGainPct, 1e-12)
	assert.Equal(t, 2, r.Types[0].Count)
	assert.Equal(t, domain.CurrencyType, r.Types[1].Type)
	assert.InDelta(t, 0.1, r.Types[1].AvgGainPct, 1e-12)

	require.Len(t, r.Pairs, 3)
	assert.Equal(t, domain.AssetID("currency|Exalt"), r.Pairs[0].Asset.ID)
	assert.Equal(t, domain.AssetID("item|1||"), r.Pairs[1].Asset.ID)
	assert.Equal(t, 1, r.Pairs[1].Rank)
	assert.Equal(t, domain.AssetID("item|2||"), r.Pairs[2].Asset.ID)
	assert.Equal(t, 2, r.Pairs[2].Rank)
}

func TestRankByType_Errors(t *testing.T) {
	scans, meta := rankingFixture()

	_, err := RankByType(scans, meta, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = RankByType(scans[:1], meta, 3) // solo currency|Divine, sin ganancia
	assert.ErrorIs(t, err, domain.ErrNoOpportunities)
	assert.NotErrorIs(t, err, domain.ErrEmptySeries)
}

func TestScanner_Scan(t *testing.T) {
	ds := domain.NewDataset()
	ds.Prices["b"] = series(1, 3)
	ds.Prices["a"] = series(4, 5, 6)
	ds.Prices["c"] = series(9, 1)
	ds.Meta["a"] = domain.Asset{ID: "a", Type: "Scarab"}
	ds.Meta["b"] = domain.Asset{ID: "b", Type: "Tattoo"}

	s, err := New(Config{MAWindow: 3, Workers: 2, RankTopN: 3})
	require.NoError(t, err)

	res, err := s.Scan(context.Background(), ds)
	require.NoError(t, err)

	require.Len(t, res.Scans, 3)
	assert.Equal(t, domain.AssetID("a"), res.Scans[0].Asset)
	assert.Equal(t, domain.AssetID("b"), res.Scans[1].Asset)
	assert.Equal(t, domain.AssetID("c"), res.Scans[2].Asset)
	require.NotNil(t, res.Ranking)
	assert.Equal(t, "Tattoo", res.Ranking.Types[0].Type)
}

func TestScanner_ScanWithoutProfit(t *testing.T) {
	ds := domain.NewDataset()
	ds.Prices["a"] = series(9, 1)

	s, err := New(Config{MAWindow: 1, RankTopN: 3})
	require.NoError(t, err)

	res, err := s.Scan(context.Background(), ds)
	require.NoError(t, err)
	assert.Nil(t, res.Ranking)
	assert.Len(t, res.Scans, 1)
}

func TestScanner_Cancelled(t *testing.T) {
	ds := domain.NewDataset()
	ds.Prices["a"] = series(1, 2)

	s, err := New(Config{MAWindow: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Scan(ctx, ds)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_InvalidMAWindow(t *testing.T) {
	_, err := New(Config{MAWindow: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}
