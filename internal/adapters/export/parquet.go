package export

import (
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// TradeRecord es una fila del trade log en Parquet: todos los trades de todos
// los runs, sin redondear.
type TradeRecord struct {
	Run          string  `parquet:"run"`
	Strategy     string  `parquet:"strategy"`
	AssetID      string  `parquet:"asset_id"`
	AssetType    string  `parquet:"asset_type"`
	Name         string  `parquet:"name"`
	BuyDate      string  `parquet:"buy_date"`
	SellDate     string  `parquet:"sell_date"`
	BuyPrice     float64 `parquet:"buy_price"`
	SellPrice    float64 `parquet:"sell_price"`
	Units        float64 `parquet:"units"`
	CapitalStart float64 `parquet:"capital_start"`
	CapitalEnd   float64 `parquet:"capital_end"`
	GainPct      float64 `parquet:"gain_pct"`
}

func tradeRecords(report *domain.Report) []TradeRecord {
	var records []TradeRecord
	for _, run := range report.Runs {
		for _, t := range run.Trades {
			a := report.Meta[t.Asset]
			records = append(records, TradeRecord{
				Run:          run.Name,
				Strategy:     run.Strategy,
				AssetID:      string(t.Asset),
				AssetType:    a.Type,
				Name:         a.Name,
				BuyDate:      t.BuyDate.String(),
				SellDate:     t.SellDate.String(),
				BuyPrice:     t.BuyPrice,
				SellPrice:    t.SellPrice,
				Units:        t.Units,
				CapitalStart: t.CapitalStart,
				CapitalEnd:   t.CapitalEnd,
				GainPct:      t.GainPct(),
			})
		}
	}
	return records
}

func writeTradesParquet(path string, report *domain.Report) error {
	if err := parquet.WriteFile(path, tradeRecords(report)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadTrades lee un trade log escrito por el Exporter.
func ReadTrades(path string) ([]TradeRecord, error) {
	rows, err := parquet.ReadFile[TradeRecord](path)
	if err != nil {
		return nil, fmt.Errorf("export.ReadTrades: %w", err)
	}
	return rows, nil
}
