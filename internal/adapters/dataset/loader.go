package dataset

// loader.go: lectura de los dumps diarios de la liga (currency + items).
//
// Formato: CSV separado por ';' con cabecera.
//   - currency: League;Date;Get;Pay;Value;Confidence
//   - items:    League;Date;Id;Type;Name;BaseType;Variant;Links;Value;Confidence
//
// Varias observaciones del mismo asset y día se promedian. Las filas fuera de
// la ventana, de otra liga o de otra moneda de pago se descartan al leer.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

const (
	delimiter = ';'

	// DefaultPayCurrency es la unidad de cuenta de todas las simulaciones.
	DefaultPayCurrency = "Chaos Orb"

	progressInterval = 2 * time.Second
)

// DefaultExcludedTypes son los Types de item que no se tradean como asset.
var DefaultExcludedTypes = []string{"BaseType", "SkillGem", "ClusterJewel"}

var (
	currencyColumns = []string{"League", "Date", "Get", "Pay", "Value"}
	itemColumns     = []string{"League", "Date", "Id", "Type", "Name", "BaseType", "Variant", "Links", "Value"}
)

// Config indica qué ficheros leer y cómo filtrarlos.
type Config struct {
	CurrencyCSV   string // vacío = no se cargan currencies
	ItemsCSV      string // vacío = no se cargan items
	League        string // vacío = cualquier liga
	PayCurrency   string
	ExcludedTypes []string
}

// Loader implementa ports.PriceSource sobre los CSV de la liga.
type Loader struct {
	cfg      Config
	progress *rate.Sometimes
}

// NewLoader crea un Loader. PayCurrency vacío usa DefaultPayCurrency.
func NewLoader(cfg Config) *Loader {
	if cfg.PayCurrency == "" {
		cfg.PayCurrency = DefaultPayCurrency
	}
	return &Loader{cfg: cfg, progress: &rate.Sometimes{Interval: progressInterval}}
}

// Load lee los ficheros configurados y devuelve precios medios por asset y día
// dentro de window. Un fichero configurado que no existe, o ningún fichero
// configurado, devuelve ErrMissingInput.
func (l *Loader) Load(ctx context.Context, window domain.DateRange) (domain.Dataset, error) {
	if l.cfg.CurrencyCSV == "" && l.cfg.ItemsCSV == "" {
		return domain.Dataset{}, fmt.Errorf("dataset.Load: no input files configured: %w", domain.ErrMissingInput)
	}

	// Currency e items no comparten AssetID (prefijo de kind), así que cada
	// fichero se agrega por separado y luego se fusiona.
	ds := domain.NewDataset()
	observations := 0
	files := []struct {
		kind    string
		path    string
		columns []string
		toAsset rowFunc
	}{
		{"currency", l.cfg.CurrencyCSV, currencyColumns, l.currencyRow},
		{"items", l.cfg.ItemsCSV, itemColumns, l.itemRow},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		agg := newAggregator()
		if err := l.readFile(ctx, f.path, f.columns, window, agg, f.toAsset); err != nil {
			return domain.Dataset{}, fmt.Errorf("dataset.Load: %s: %w", f.kind, err)
		}
		ds.Merge(agg.dataset())
		observations += agg.observations
	}

	slog.Info("dataset loaded",
		"assets", len(ds.Prices),
		"observations", observations,
		"from", window.Start().String(),
		"to", window.End().String(),
	)
	return ds, nil
}

// rowFunc convierte una fila ya filtrada por fecha en (asset, ok).
type rowFunc func(row record) (domain.Asset, bool)

func (l *Loader) readFile(
	ctx context.Context,
	path string,
	required []string,
	window domain.DateRange,
	agg *aggregator,
	toAsset rowFunc,
) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, domain.ErrMissingInput)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("%s: read header: %w", path, err)
	}
	cols, err := indexColumns(header, required)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	width := len(header) // ReuseRecord: header se sobrescribe en el siguiente Read

	rows := 0
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		rows++
		if rows%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		row := record{cols: cols, fields: fields}
		line, _ := r.FieldPos(0)
		if len(fields) < width {
			return fmt.Errorf("%s:%d: expected %d fields, got %d", path, line, width, len(fields))
		}
		if l.cfg.League != "" && row.get("League") != l.cfg.League {
			continue
		}
		day, err := domain.ParseDate(row.get("Date"))
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if !window.Contains(day) {
			continue
		}
		asset, ok := toAsset(row)
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row.get("Value")), 64)
		if err != nil {
			return fmt.Errorf("%s:%d: value %q: %w", path, line, row.get("Value"), err)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%s:%d: value %q is not a finite number", path, line, row.get("Value"))
		}
		agg.add(asset, day, value)

		l.progress.Do(func() {
			slog.Debug("dataset: reading", "file", path, "rows", rows)
		})
	}
	return nil
}

func (l *Loader) currencyRow(row record) (domain.Asset, bool) {
	if row.get("Pay") != l.cfg.PayCurrency {
		return domain.Asset{}, false
	}
	get := row.get("Get")
	return domain.Asset{
		ID:     domain.CurrencyID(get),
		Kind:   domain.KindCurrency,
		League: row.get("League"),
		Name:   get,
		Type:   domain.CurrencyType,
		Pay:    l.cfg.PayCurrency,
	}, true
}

func (l *Loader) itemRow(row record) (domain.Asset, bool) {
	typ := row.get("Type")
	if slices.Contains(l.cfg.ExcludedTypes, typ) {
		return domain.Asset{}, false
	}
	id, variant, links := row.get("Id"), row.get("Variant"), row.get("Links")
	return domain.Asset{
		ID:       domain.ItemID(id, variant, links),
		Kind:     domain.KindItem,
		League:   row.get("League"),
		Name:     row.get("Name"),
		Type:     typ,
		ItemID:   id,
		BaseType: row.get("BaseType"),
		Variant:  variant,
		Links:    links,
	}, true
}

// record da acceso por nombre de columna a una fila.
type record struct {
	cols   map[string]int
	fields []string
}

func (r record) get(name string) string {
	return r.fields[r.cols[name]]
}

func indexColumns(header, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cols[h] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}
