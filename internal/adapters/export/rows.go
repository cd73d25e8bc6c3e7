package export

import (
	"strconv"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

var assetColumns = []string{"League", "Get", "Pay", "Id", "Type", "Name", "Variant", "Links"}

// assetFields devuelve los campos descriptivos de id, vacíos si no hay meta.
func assetFields(report *domain.Report, id domain.AssetID) (kind string, fields []string) {
	a, ok := report.Meta[id]
	if !ok {
		return "", make([]string, len(assetColumns))
	}
	get, itemID := "", ""
	if a.Kind == domain.KindCurrency {
		get = a.Name
	} else {
		itemID = a.ItemID
	}
	return string(a.Kind), []string{a.League, get, a.Pay, itemID, a.Type, a.Name, a.Variant, a.Links}
}

func choiceRows(report *domain.Report) [][]string {
	rows := [][]string{{"Date", "AssetId", "AssetType", "BuyPrice", "SellPrice", "Factor"}}
	for _, c := range report.Choices {
		row := []string{formatDate(c.Date), "", "", "", "", formatMoney(c.Factor)}
		if !c.HoldsCash() {
			kind, _ := assetFields(report, c.Asset)
			row[1], row[2] = string(c.Asset), kind
			row[3], row[4] = formatMoney(c.BuyPrice), formatMoney(c.SellPrice)
		}
		rows = append(rows, row)
	}
	return rows
}

func tradeRows(report *domain.Report, trades []domain.Trade) [][]string {
	header := []string{
		"AssetId", "AssetType", "BuyDate", "SellDate", "BuyPrice", "SellPrice",
		"Units", "CapitalStart", "CapitalEnd", "Gain", "GainPct",
	}
	rows := [][]string{append(header, assetColumns...)}
	for _, t := range trades {
		kind, fields := assetFields(report, t.Asset)
		row := []string{
			string(t.Asset), kind, formatDate(t.BuyDate), formatDate(t.SellDate),
			formatMoney(t.BuyPrice), formatMoney(t.SellPrice), formatMoney(t.Units),
			formatMoney(t.CapitalStart), formatMoney(t.CapitalEnd),
			formatMoney(t.Gain()), formatMoney(t.GainPct()),
		}
		rows = append(rows, append(row, fields...))
	}
	return rows
}

func dailyRows(dailies []domain.DailySummary) [][]string {
	rows := [][]string{{"Date", "CapitalStart", "CapitalEnd", "Invested", "CashLeft", "TradesOpened", "TradesClosed"}}
	for _, d := range dailies {
		rows = append(rows, []string{
			formatDate(d.Date),
			formatMoney(d.CapitalStart), formatMoney(d.CapitalEnd),
			formatMoney(d.Invested), formatMoney(d.CashLeft),
			strconv.Itoa(d.TradesOpened), strconv.Itoa(d.TradesClosed),
		})
	}
	return rows
}

func summaryRows(report *domain.Report) [][]string {
	rows := [][]string{{
		"Run", "Strategy", "StartDate", "EndDate", "StartingCapital", "EndingCapital",
		"TotalReturnPct", "Trades", "AvgGainPct", "MedianGainPct",
	}}
	for _, r := range report.Runs {
		s := r.Summary
		rows = append(rows, []string{
			r.Name, r.Strategy, formatDate(r.Start), formatDate(r.End),
			formatMoney(s.StartingCapital), formatMoney(s.EndingCapital),
			formatMoney(s.TotalReturn), strconv.Itoa(s.TradeCount),
			formatMoney(s.AvgGainPct), formatMoney(s.MedianGainPct),
		})
	}
	return rows
}

func bestPairRows(report *domain.Report) [][]string {
	header := []string{"AssetId", "AssetType", "BuyDate", "BuyPrice", "SellDate", "SellPrice", "Gain", "GainPct"}
	rows := [][]string{append(header, assetColumns...)}
	for _, s := range report.Scans {
		if !s.HasBest {
			continue
		}
		p := s.Best
		kind, fields := assetFields(report, s.Asset)
		pct := ""
		if p.HasGainPct {
			pct = formatMoney(p.GainPct)
		}
		row := []string{
			string(s.Asset), kind, formatDate(p.BuyDate), formatMoney(p.BuyPrice),
			formatDate(p.SellDate), formatMoney(p.SellPrice), formatMoney(p.Gain), pct,
		}
		rows = append(rows, append(row, fields...))
	}
	return rows
}

func profitableRows(report *domain.Report) [][]string {
	header := []string{"AssetId", "AssetType", "BuyDate", "BuyPrice", "SellDate", "SellPrice", "Gain", "GainPct"}
	rows := [][]string{append(header, assetColumns...)}
	for _, s := range report.Scans {
		kind, fields := assetFields(report, s.Asset)
		for _, o := range s.Profitable {
			row := []string{
				string(s.Asset), kind, formatDate(o.BuyDate), formatMoney(o.BuyPrice),
				formatDate(o.SellDate), formatMoney(o.SellPrice), formatMoney(o.Gain()), formatMoney(o.GainPct()),
			}
			rows = append(rows, append(row, fields...))
		}
	}
	return rows
}

func movingAvgRows(report *domain.Report) [][]string {
	rows := [][]string{{"AssetId", "AssetType", "Date", "Value", "MA"}}
	for _, s := range report.Scans {
		kind, _ := assetFields(report, s.Asset)
		for _, p := range s.Moving {
			rows = append(rows, []string{string(s.Asset), kind, formatDate(p.Date), formatMoney(p.Price), formatMoney(p.MA)})
		}
	}
	return rows
}

func rankingRows(r *domain.Ranking) [][]string {
	rows := [][]string{{"Type", "Rank", "AssetId", "Name", "BuyDate", "SellDate", "Gain", "GainPct"}}
	for _, p := range r.Pairs {
		rows = append(rows, []string{
			p.Type, strconv.Itoa(p.Rank), string(p.Asset.ID), p.Asset.Name,
			formatDate(p.Pair.BuyDate), formatDate(p.Pair.SellDate),
			formatMoney(p.Pair.Gain), formatMoney(p.Pair.GainPct),
		})
	}
	return rows
}

func typeScoreRows(r *domain.Ranking) [][]string {
	rows := [][]string{{"Type", "AvgGainPct", "Count"}}
	for _, t := range r.Types {
		rows = append(rows, []string{t.Type, formatMoney(t.AvgGainPct), strconv.Itoa(t.Count)})
	}
	return rows
}
