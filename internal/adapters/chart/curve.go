package chart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// Renderer dibuja la curva de capital de cada run como PNG.
type Renderer struct {
	dir string
}

// NewRenderer crea un Renderer que escribe en dir.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// RenderCurve devuelve el PNG de la curva de capital del run, o ErrEmptySeries
// si el run no tiene curva.
func (r *Renderer) RenderCurve(run domain.RunResult) ([]byte, error) {
	if len(run.Curve) == 0 {
		return nil, fmt.Errorf("chart.RenderCurve: %s: %w", run.Name, domain.ErrEmptySeries)
	}

	xLabels := make([]string, len(run.Curve))
	for i := range run.Curve {
		xLabels[i] = run.Start.AddDays(i).Time().Format("Jan 02")
	}

	minVal, maxVal := run.Curve[0], run.Curve[0]
	for _, v := range run.Curve {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = maxVal * 0.05
	}
	if padding == 0 {
		padding = 1 // curva plana en cero
	}
	yMin, yMax := minVal-padding, maxVal+padding

	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = max(len(xLabels)/3, 3)
	}

	s := run.Summary
	title := fmt.Sprintf("%s (%s → %s)\nReturn: %+.2f%% | Trades: %d",
		run.Name, run.Start, run.End, s.TotalReturn*100, s.TradeCount)

	p, err := charts.LineRender(
		[][]float64{run.Curve},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("chart.RenderCurve: render: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("chart.RenderCurve: bytes: %w", err)
	}
	return buf, nil
}

// Publish implementa ports.ReportSink: un <run>_capital.png por run.
// Los runs sin curva se saltan.
func (r *Renderer) Publish(ctx context.Context, report *domain.Report) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("chart.Publish: mkdir: %w", err)
	}
	for _, run := range report.Runs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("chart.Publish: %w", err)
		}
		buf, err := r.RenderCurve(run)
		if errors.Is(err, domain.ErrEmptySeries) {
			slog.Debug("chart: skipped", "run", run.Name, "err", err)
			continue
		}
		if err != nil {
			return fmt.Errorf("chart.Publish: %w", err)
		}
		path := filepath.Join(r.dir, run.Name+"_capital.png")
		if err := os.WriteFile(path, buf, 0o644); err != nil {
			return fmt.Errorf("chart.Publish: write %s: %w", path, err)
		}
	}
	return nil
}
