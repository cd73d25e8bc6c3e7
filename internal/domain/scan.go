package domain

// MAPoint es un día de la serie con su media móvil.
type MAPoint struct {
	Date  Date
	Price float64
	MA    float64
}

// AssetScan es el resultado del análisis de un asset.
type AssetScan struct {
	Asset      AssetID
	Best       PairResult
	HasBest    bool
	Profitable []Opportunity
	Moving     []MAPoint
}

// RankedPair es el mejor par de un asset con su posición dentro de su Type.
type RankedPair struct {
	Type  string
	Rank  int // 1-based dentro del Type
	Asset Asset
	Pair  PairResult
}

// TypeScore es la media de gain_pct de los top-N pares de un Type.
type TypeScore struct {
	Type       string
	AvgGainPct float64
	Count      int
}

// Ranking agrupa los pares ordenados por Type y la puntuación de cada Type.
type Ranking struct {
	Pairs []RankedPair
	Types []TypeScore
}

// Report es todo lo que produce un backtest sobre un dataset: los runs de
// cada estrategia, la elección diaria y las tablas por asset.
type Report struct {
	Start   Date
	End     Date
	Runs    []RunResult
	Choices []DailyChoice
	Scans   []AssetScan
	Ranking *Ranking // nil si no se pidió o no había pares rentables
	Meta    map[AssetID]Asset
}

// Run devuelve el run con ese nombre.
func (r *Report) Run(name string) (RunResult, bool) {
	for _, run := range r.Runs {
		if run.Name == name {
			return run, true
		}
	}
	return RunResult{}, false
}
