package scanner

import (
	"fmt"
	"sort"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// RankByType ordena los mejores pares rentables de cada Type por gain_pct y se
// queda con los topN de cada uno. Devuelve ErrNoOpportunities si no hay ninguno.
func RankByType(scans []domain.AssetScan, meta map[domain.AssetID]domain.Asset, topN int) (domain.Ranking, error) {
	if topN <= 0 {
		return domain.Ranking{}, fmt.Errorf("scanner.RankByType: top %d: %w", topN, domain.ErrInvalidConfiguration)
	}

	byType := make(map[string][]domain.RankedPair)
	for _, s := range scans {
		if !s.HasBest || !s.Best.HasGainPct || s.Best.Gain <= 0 {
			continue
		}
		asset, ok := meta[s.Asset]
		if !ok {
			asset = domain.Asset{ID: s.Asset}
		}
		typ := asset.Type
		if typ == "" {
			typ = string(asset.Kind)
		}
		byType[typ] = append(byType[typ], domain.RankedPair{Type: typ, Asset: asset, Pair: s.Best})
	}
	if len(byType) == 0 {
		return domain.Ranking{}, fmt.Errorf("scanner.RankByType: no profitable pairs: %w", domain.ErrNoOpportunities)
	}

	types := make([]string, 0, len(byType))
	for typ := range byType {
		types = append(types, typ)
	}
	sort.Strings(types)

	var r domain.Ranking
	for _, typ := range types {
		group := byType[typ]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Pair.GainPct != group[j].Pair.GainPct {
				return group[i].Pair.GainPct > group[j].Pair.GainPct
			}
			return group[i].Pair.Asset < group[j].Pair.Asset
		})
		if len(group) > topN {
			group = group[:topN]
		}

		gains := make([]float64, len(group))
		for i := range group {
			group[i].Rank = i + 1
			gains[i] = group[i].Pair.GainPct
		}
		r.Pairs = append(r.Pairs, group...)
		r.Types = append(r.Types, domain.TypeScore{Type: typ, AvgGainPct: stat.Mean(gains, nil), Count: len(group)})
	}

	sort.SliceStable(r.Types, func(i, j int) bool {
		return r.Types[i].AvgGainPct > r.Types[j].AvgGainPct
	})
	return r, nil
}
