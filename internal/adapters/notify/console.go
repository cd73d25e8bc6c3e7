package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const labelWidth = 40

// Console imprime el report por consola. Implementa ports.ReportSink.
type Console struct {
	out   io.Writer
	topN  int
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(topN int, table bool) *Console {
	return &Console{out: os.Stdout, topN: topN, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, topN: 5, table: table}
}

// Publish implementa ports.ReportSink.
func (c *Console) Publish(ctx context.Context, report *domain.Report) error {
	return c.Notify(ctx, report)
}

// Notify imprime el output en el modo configurado.
func (c *Console) Notify(_ context.Context, report *domain.Report) error {
	if len(report.Runs) == 0 {
		fmt.Fprintf(c.out, "[%s → %s] no runs\n", report.Start, report.End)
		return nil
	}

	if !c.table {
		c.printCompact(report)
		return nil
	}

	fmt.Fprintf(c.out, "\n=== BACKTEST %s → %s (%d assets) ===\n", report.Start, report.End, len(report.Meta))
	c.printSummary(report)
	if run, ok := report.Run(domain.StrategyOptimal); ok {
		c.printTopTrades(report, run)
	}
	if report.Ranking != nil {
		c.printRanking(report.Ranking)
	}
	return nil
}

// printCompact imprime una línea por run.
func (c *Console) printCompact(report *domain.Report) {
	for _, r := range report.Runs {
		s := r.Summary
		fmt.Fprintf(c.out, "[%s → %s] %-28s %10.4f → %12.4f (%+.2f%%) trades:%d\n",
			report.Start, report.End, r.Name,
			s.StartingCapital, s.EndingCapital, s.TotalReturn*100, s.TradeCount)
	}
}

func (c *Console) printSummary(report *domain.Report) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Run", "Strategy", "Start", "End", "Return", "Trades", "Avg gain", "Median gain")
	for _, r := range report.Runs {
		s := r.Summary
		table.Append(
			r.Name,
			r.Strategy,
			fmt.Sprintf("%.4f", s.StartingCapital),
			fmt.Sprintf("%.4f", s.EndingCapital),
			fmt.Sprintf("%+.2f%%", s.TotalReturn*100),
			fmt.Sprintf("%d", s.TradeCount),
			fmt.Sprintf("%+.2f%%", s.AvgGainPct*100),
			fmt.Sprintf("%+.2f%%", s.MedianGainPct*100),
		)
	}
	table.Render()
}

// printTopTrades imprime los trades del camino óptimo con mayor gain_pct.
func (c *Console) printTopTrades(report *domain.Report, run domain.RunResult) {
	if len(run.Trades) == 0 {
		fmt.Fprintf(c.out, "\n  ⚠ %s: no profitable path in window\n\n", run.Name)
		return
	}

	trades := append([]domain.Trade(nil), run.Trades...)
	sort.SliceStable(trades, func(i, j int) bool { return trades[i].GainPct() > trades[j].GainPct() })
	if c.topN > 0 && len(trades) > c.topN {
		trades = trades[:c.topN]
	}

	fmt.Fprintf(c.out, "\n=== TOP %d TRADES (%s) ===\n", len(trades), run.Name)
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Asset", "Buy", "Sell", "Buy price", "Sell price", "Capital", "Gain")
	for i, t := range trades {
		table.Append(
			fmt.Sprintf("%d", i+1),
			truncateStr(assetLabel(report, t.Asset), labelWidth),
			t.BuyDate.String(),
			t.SellDate.String(),
			fmt.Sprintf("%.4f", t.BuyPrice),
			fmt.Sprintf("%.4f", t.SellPrice),
			fmt.Sprintf("%.2f → %.2f", t.CapitalStart, t.CapitalEnd),
			fmt.Sprintf("%+.2f%%", t.GainPct()*100),
		)
	}
	table.Render()
}

func (c *Console) printRanking(r *domain.Ranking) {
	fmt.Fprintf(c.out, "\n=== TYPES BY AVG GAIN ===\n")
	table := tablewriter.NewWriter(c.out)
	table.Header("Type", "Avg gain", "Pairs", "Best asset")
	best := make(map[string]string, len(r.Types))
	for _, p := range r.Pairs {
		if p.Rank == 1 {
			best[p.Type] = p.Asset.Label()
		}
	}
	for _, t := range r.Types {
		table.Append(
			t.Type,
			fmt.Sprintf("%+.2f%%", t.AvgGainPct*100),
			fmt.Sprintf("%d", t.Count),
			truncateStr(best[t.Type], labelWidth),
		)
	}
	table.Render()
}

func assetLabel(report *domain.Report, id domain.AssetID) string {
	if a, ok := report.Meta[id]; ok {
		return a.Label()
	}
	return strings.TrimPrefix(string(id), string(domain.KindItem)+"|")
}

// truncateStr trunca un string a maxLen caracteres añadiendo "..." si es necesario.
func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen || maxLen <= 3 {
		return s
	}
	return s[:maxLen-3] + "..."
}
