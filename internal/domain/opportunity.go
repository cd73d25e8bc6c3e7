package domain

import "math"

// Opportunity es un par compra/venta candidato, todavía no ejecutado.
// Invariante: BuyDate < SellDate.
type Opportunity struct {
	Asset     AssetID
	BuyDate   Date
	SellDate  Date
	BuyPrice  float64
	SellPrice float64
}

// UsablePrice devuelve true para precios positivos y finitos. NaN, ±Inf, 0 y
// negativos nunca sirven como precio de compra ni de venta.
func UsablePrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 1)
}

// Gain devuelve la ganancia absoluta por unidad.
func (o Opportunity) Gain() float64 {
	return o.SellPrice - o.BuyPrice
}

// GainPct devuelve (sell - buy) / buy. 0 si el precio de compra no es positivo.
func (o Opportunity) GainPct() float64 {
	if !UsablePrice(o.BuyPrice) {
		return 0
	}
	return o.Gain() / o.BuyPrice
}

// Factor devuelve sell / buy. 1.0 ("no trade") si el precio de compra no es positivo.
func (o Opportunity) Factor() float64 {
	if !UsablePrice(o.BuyPrice) {
		return 1.0
	}
	return o.SellPrice / o.BuyPrice
}

// Profitable devuelve true si vender da estrictamente más de lo que costó comprar.
func (o Opportunity) Profitable() bool {
	return UsablePrice(o.BuyPrice) && UsablePrice(o.SellPrice) && o.SellPrice > o.BuyPrice
}

// Execute convierte la oportunidad en un Trade invirtiendo capital completo en ella.
func (o Opportunity) Execute(capital float64) Trade {
	units := 0.0
	if UsablePrice(o.BuyPrice) {
		units = capital / o.BuyPrice
	}
	return Trade{
		Asset:        o.Asset,
		BuyDate:      o.BuyDate,
		SellDate:     o.SellDate,
		BuyPrice:     o.BuyPrice,
		SellPrice:    o.SellPrice,
		Units:        units,
		CapitalStart: capital,
		CapitalEnd:   units * o.SellPrice,
	}
}

// PairResult es el mejor par compra/venta (no necesariamente adyacente) de una serie.
type PairResult struct {
	Asset      AssetID
	BuyDate    Date
	BuyPrice   float64
	SellDate   Date
	SellPrice  float64
	Gain       float64
	GainPct    float64 // 0 cuando BuyPrice <= 0 (ver HasGainPct)
	// HasGainPct es false cuando el precio de compra no es positivo.
	HasGainPct bool
}

// DailyChoice es la mejor decisión de un día: el asset con mayor factor
// día→día siguiente, o ninguno ("hold cash") si ningún factor supera 1.0.
type DailyChoice struct {
	Date      Date
	NextDate  Date
	Asset     AssetID // vacío = mantener cash
	BuyPrice  float64
	SellPrice float64
	Factor    float64
}

// HoldsCash devuelve true si el día no tiene ningún asset ganador.
func (c DailyChoice) HoldsCash() bool {
	return c.Asset == ""
}
