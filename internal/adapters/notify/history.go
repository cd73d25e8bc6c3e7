package notify

import (
	"fmt"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// PrintRuns imprime la lista de runs guardados.
func (c *Console) PrintRuns(runs []domain.RunResult) {
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "no saved runs")
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Run", "Window", "Start", "End", "Return", "Trades")
	for _, r := range runs {
		table.Append(
			r.ID,
			r.Name,
			fmt.Sprintf("%s → %s", r.Start, r.End),
			fmt.Sprintf("%.4f", r.Summary.StartingCapital),
			fmt.Sprintf("%.4f", r.Summary.EndingCapital),
			fmt.Sprintf("%+.2f%%", r.Summary.TotalReturn*100),
			fmt.Sprintf("%d", r.Summary.TradeCount),
		)
	}
	table.Render()
}

// PrintRun imprime un run guardado con todos sus trades.
func (c *Console) PrintRun(run domain.RunResult) {
	s := run.Summary
	fmt.Fprintf(c.out, "\n=== %s (%s) %s → %s ===\n", run.Name, run.ID, run.Start, run.End)
	fmt.Fprintf(c.out, "  capital %.4f → %.4f (%+.2f%%) | trades %d | avg %+.2f%% | median %+.2f%%\n",
		s.StartingCapital, s.EndingCapital, s.TotalReturn*100, s.TradeCount,
		s.AvgGainPct*100, s.MedianGainPct*100)

	if len(run.Trades) == 0 {
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Asset", "Buy", "Sell", "Units", "Capital", "Gain")
	for i, t := range run.Trades {
		table.Append(
			fmt.Sprintf("%d", i+1),
			string(t.Asset),
			fmt.Sprintf("%s @ %.4f", t.BuyDate, t.BuyPrice),
			fmt.Sprintf("%s @ %.4f", t.SellDate, t.SellPrice),
			fmt.Sprintf("%.4f", t.Units),
			fmt.Sprintf("%.2f → %.2f", t.CapitalStart, t.CapitalEnd),
			fmt.Sprintf("%+.2f%%", t.GainPct()*100),
		)
	}
	table.Render()
}

// PrintChoices imprime la elección de cada día: qué asset comprar hoy para
// vender mañana, o cash.
func (c *Console) PrintChoices(choices []domain.DailyChoice) {
	if len(choices) == 0 {
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("Day", "Asset", "Buy", "Sell", "Factor")
	for _, ch := range choices {
		if ch.HoldsCash() {
			table.Append(ch.Date.String(), "cash", "-", "-", "1.0000")
			continue
		}
		table.Append(
			ch.Date.String(),
			string(ch.Asset),
			fmt.Sprintf("%.4f", ch.BuyPrice),
			fmt.Sprintf("%.4f", ch.SellPrice),
			fmt.Sprintf("%.4f", ch.Factor),
		)
	}
	table.Render()
}
