package export

// export.go: escritura del report a disco.
//
// Todas las cifras se redondean a 6 decimales solo aquí, al serializar. El
// orden de filas es determinista (runs en orden del report, assets por ID,
// fechas ascendentes), así que el mismo input produce ficheros idénticos byte
// a byte. Los IDs de run (uuid) no se escriben en los CSV por ese motivo.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

const precision = 6

// Nombres de fichero fijos.
const (
	DailyChoicesFile = "strategy_daily.csv"
	SummaryFile      = "summary.csv"
	BestTradesFile   = "best_trades.csv"
	ProfitableFile   = "profitable_trades.csv"
	MovingAvgFile    = "daily_ma.csv"
	RankingFile      = "type_ranking.csv"
	TypeScoresFile   = "type_scores.csv"
	TradesParquet    = "trades.parquet"
)

type csvFile struct {
	name string
	rows [][]string
}

// Exporter escribe el report como CSV (y opcionalmente Parquet) en un directorio.
type Exporter struct {
	dir     string
	parquet bool
}

// NewExporter crea un Exporter sobre dir. El directorio se crea al publicar.
func NewExporter(dir string, withParquet bool) *Exporter {
	return &Exporter{dir: dir, parquet: withParquet}
}

// Publish implementa ports.ReportSink.
func (e *Exporter) Publish(ctx context.Context, report *domain.Report) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("export.Publish: mkdir: %w", err)
	}

	writes := []csvFile{
		{DailyChoicesFile, choiceRows(report)},
		{SummaryFile, summaryRows(report)},
		{BestTradesFile, bestPairRows(report)},
		{ProfitableFile, profitableRows(report)},
		{MovingAvgFile, movingAvgRows(report)},
	}
	for _, run := range report.Runs {
		writes = append(writes,
			csvFile{run.Name + "_trades.csv", tradeRows(report, run.Trades)},
			csvFile{run.Name + "_daily.csv", dailyRows(run.Dailies)},
		)
	}
	if report.Ranking != nil {
		writes = append(writes,
			csvFile{RankingFile, rankingRows(report.Ranking)},
			csvFile{TypeScoresFile, typeScoreRows(report.Ranking)},
		)
	}

	for _, w := range writes {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("export.Publish: %w", err)
		}
		if err := writeCSV(filepath.Join(e.dir, w.name), w.rows); err != nil {
			return fmt.Errorf("export.Publish: %w", err)
		}
	}

	if e.parquet {
		if err := writeTradesParquet(filepath.Join(e.dir, TradesParquet), report); err != nil {
			return fmt.Errorf("export.Publish: %w", err)
		}
	}

	slog.Info("report exported", "dir", e.dir, "files", len(writes), "parquet", e.parquet)
	return nil
}

// writeCSV escribe rows (cabecera incluida) en path, sobrescribiendo.
func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return writeRows(f, path, rows)
}

// writeRows escribe rows en w y lo cierra, devolviendo también el error de Close.
func writeRows(w io.WriteCloser, path string, rows [][]string) error {
	if err := csv.NewWriter(w).WriteAll(rows); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// formatMoney redondea a 6 decimales. NaN/Inf no deberían llegar aquí; si
// llegan se escriben vacíos en vez de romper el export.
func formatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(precision)
}

func formatDate(d domain.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
