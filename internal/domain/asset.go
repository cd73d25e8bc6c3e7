package domain

import (
	"fmt"
	"sort"
)

// AssetKind distingue currencies de items.
type AssetKind string

const (
	KindCurrency AssetKind = "currency"
	KindItem     AssetKind = "item"
)

// CurrencyType es el Type que se asigna a las currencies en rankings y buckets.
const CurrencyType = "Currency"

// AssetID es la clave compuesta y estable de un asset dentro de un snapshot.
type AssetID string

// CurrencyID construye la clave de una currency: "currency|<Get>".
func CurrencyID(get string) AssetID {
	return AssetID(fmt.Sprintf("%s|%s", KindCurrency, get))
}

// ItemID construye la clave de un item: "item|<Id>|<Variant>|<Links>".
func ItemID(id, variant, links string) AssetID {
	return AssetID(fmt.Sprintf("%s|%s|%s|%s", KindItem, id, variant, links))
}

// Asset son los metadatos descriptivos de un asset. Solo anotan filas de salida,
// nunca afectan al cálculo.
type Asset struct {
	ID       AssetID
	Kind     AssetKind
	League   string
	Name     string // Get para currencies, Name para items
	Type     string // "Currency" o el Type del item (UniqueWeapon, Scarab, ...)
	Pay      string // solo currencies
	ItemID   string // solo items
	BaseType string
	Variant  string
	Links    string
}

// Label devuelve un nombre legible para tablas y gráficos.
func (a Asset) Label() string {
	if a.Name == "" {
		return string(a.ID)
	}
	if a.Type == "" {
		return a.Name
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.Type)
}

// PricePoint es una observación (fecha, precio medio) de una serie.
type PricePoint struct {
	Date  Date
	Price float64
}

// PriceSeries mapea fecha → precio representativo (media de las observaciones
// crudas de ese día). Los días pueden faltar.
type PriceSeries map[Date]float64

// Dates devuelve las fechas con precio, ordenadas.
func (s PriceSeries) Dates() []Date {
	days := make([]Date, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Points devuelve la serie ordenada por fecha.
func (s PriceSeries) Points() []PricePoint {
	days := s.Dates()
	points := make([]PricePoint, len(days))
	for i, d := range days {
		points[i] = PricePoint{Date: d, Price: s[d]}
	}
	return points
}

// Within devuelve la sub-serie cuyas fechas caen dentro de la ventana.
func (s PriceSeries) Within(window DateRange) PriceSeries {
	out := make(PriceSeries, len(s))
	for d, p := range s {
		if window.Contains(d) {
			out[d] = p
		}
	}
	return out
}

// PriceMap mapea asset → serie de precios.
type PriceMap map[AssetID]PriceSeries

// IDs devuelve los asset IDs ordenados lexicográficamente. Es el orden de
// iteración estable sobre el que se definen todos los desempates.
func (m PriceMap) IDs() []AssetID {
	ids := make([]AssetID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Price devuelve el precio de id en d, si existe.
func (m PriceMap) Price(id AssetID, d Date) (float64, bool) {
	series, ok := m[id]
	if !ok {
		return 0, false
	}
	p, ok := series[d]
	return p, ok
}

// Dataset agrupa precios y metadatos de un snapshot de liga.
type Dataset struct {
	Prices PriceMap
	Meta   map[AssetID]Asset
}

// NewDataset crea un Dataset vacío.
func NewDataset() Dataset {
	return Dataset{Prices: make(PriceMap), Meta: make(map[AssetID]Asset)}
}

// Merge copia los assets de other en d (other gana en colisión).
func (d Dataset) Merge(other Dataset) {
	for id, s := range other.Prices {
		d.Prices[id] = s
	}
	for id, a := range other.Meta {
		d.Meta[id] = a
	}
}

// Asset devuelve los metadatos de id, o un Asset mínimo si no hay.
func (d Dataset) Asset(id AssetID) Asset {
	if a, ok := d.Meta[id]; ok {
		return a
	}
	return Asset{ID: id}
}

// Subset devuelve el Dataset restringido a los assets que cumplen keep.
func (d Dataset) Subset(keep func(Asset) bool) Dataset {
	out := NewDataset()
	for id, s := range d.Prices {
		a := d.Asset(id)
		if !keep(a) {
			continue
		}
		out.Prices[id] = s
		out.Meta[id] = a
	}
	return out
}

// Within recorta todas las series a la ventana y descarta los assets sin precio en ella.
func (d Dataset) Within(window DateRange) Dataset {
	out := NewDataset()
	for id, s := range d.Prices {
		clipped := s.Within(window)
		if len(clipped) == 0 {
			continue
		}
		out.Prices[id] = clipped
		out.Meta[id] = d.Asset(id)
	}
	return out
}
