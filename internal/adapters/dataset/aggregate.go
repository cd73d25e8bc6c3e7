package dataset

import "github.com/alejandrodnm/leaguetrade/internal/domain"

type obsKey struct {
	id  domain.AssetID
	day domain.Date
}

// aggregator acumula suma y cuenta por (asset, día) para sacar la media.
type aggregator struct {
	sums         map[obsKey]float64
	counts       map[obsKey]int
	meta         map[domain.AssetID]domain.Asset
	observations int
}

func newAggregator() *aggregator {
	return &aggregator{
		sums:   make(map[obsKey]float64),
		counts: make(map[obsKey]int),
		meta:   make(map[domain.AssetID]domain.Asset),
	}
}

// add registra una observación. Los metadatos son los de la primera fila vista.
func (a *aggregator) add(asset domain.Asset, day domain.Date, value float64) {
	k := obsKey{id: asset.ID, day: day}
	a.sums[k] += value
	a.counts[k]++
	a.observations++
	if _, ok := a.meta[asset.ID]; !ok {
		a.meta[asset.ID] = asset
	}
}

func (a *aggregator) dataset() domain.Dataset {
	ds := domain.NewDataset()
	for k, sum := range a.sums {
		series, ok := ds.Prices[k.id]
		if !ok {
			series = make(domain.PriceSeries)
			ds.Prices[k.id] = series
		}
		series[k.day] = sum / float64(a.counts[k])
	}
	for id, m := range a.meta {
		ds.Meta[id] = m
	}
	return ds
}
