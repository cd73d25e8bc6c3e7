package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
	"github.com/alejandrodnm/leaguetrade/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.PriceSource = (*Loader)(nil)

const currencyCSV = "\ufeffLeague;Date;Get;Pay;Value;Confidence\n" +
	"Mercenaries;2025-02-20;Divine Orb;Chaos Orb;150;High\n" +
	"Mercenaries;2025-02-20;Divine Orb;Chaos Orb;160;High\n" +
	"Mercenaries;2025-02-21;Divine Orb;Chaos Orb;170;High\n" +
	"Mercenaries;2025-02-21;Chaos Orb;Divine Orb;0.005;High\n" +
	"Settlers;2025-02-21;Divine Orb;Chaos Orb;999;High\n" +
	"Mercenaries;2025-03-30;Divine Orb;Chaos Orb;1;High\n"

const itemsCSV = "League;Date;Id;Type;Name;BaseType;Variant;Links;Value;Confidence\n" +
	"Mercenaries;2025-02-20;7;UniqueWeapon;Starforge;Infernal Sword;;6;300;High\n" +
	"Mercenaries;2025-02-20;7;UniqueWeapon;Starforge;Infernal Sword;;;100;High\n" +
	"Mercenaries;2025-02-21;9;SkillGem;Enlighten;Enlighten Support;4/20;;50;Low\n" +
	"Mercenaries;2025-02-21;11;Scarab;Gilded Scarab;Gilded Scarab;;;2.5;Medium\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testWindow(t *testing.T) domain.DateRange {
	t.Helper()
	w, err := domain.NewDateRange(domain.NewDate(2025, time.February, 20), domain.NewDate(2025, time.March, 20))
	require.NoError(t, err)
	return w
}

func TestLoader_Load(t *testing.T) {
	l := NewLoader(Config{
		CurrencyCSV:   writeFile(t, "currency.csv", currencyCSV),
		ItemsCSV:      writeFile(t, "items.csv", itemsCSV),
		League:        "Mercenaries",
		ExcludedTypes: DefaultExcludedTypes,
	})

	ds, err := l.Load(context.Background(), testWindow(t))
	require.NoError(t, err)

	divine := domain.CurrencyID("Divine Orb")
	require.Contains(t, ds.Prices, divine)
	assert.Equal(t, domain.PriceSeries{
		domain.NewDate(2025, time.February, 20): 155,
		domain.NewDate(2025, time.February, 21): 170,
	}, ds.Prices[divine])
	assert.Equal(t, domain.CurrencyType, ds.Meta[divine].Type)
	assert.Equal(t, "Chaos Orb", ds.Meta[divine].Pay)

	// pagado en Divine: fuera
	assert.NotContains(t, ds.Prices, domain.CurrencyID("Chaos Orb"))

	// links distintos, assets distintos
	sixLink := domain.ItemID("7", "", "6")
	unlinked := domain.ItemID("7", "", "")
	assert.Equal(t, 300.0, ds.Prices[sixLink][domain.NewDate(2025, time.February, 20)])
	assert.Equal(t, 100.0, ds.Prices[unlinked][domain.NewDate(2025, time.February, 20)])
	assert.Equal(t, "Infernal Sword", ds.Meta[sixLink].BaseType)

	// SkillGem excluido por defecto
	assert.NotContains(t, ds.Prices, domain.ItemID("9", "4/20", ""))
	assert.Contains(t, ds.Prices, domain.ItemID("11", "", ""))
	assert.Len(t, ds.Prices, 4)
}

func TestLoader_AnyLeague(t *testing.T) {
	l := NewLoader(Config{CurrencyCSV: writeFile(t, "currency.csv", currencyCSV)})

	ds, err := l.Load(context.Background(), testWindow(t))
	require.NoError(t, err)

	// 170 (Mercenaries) y 999 (Settlers) el mismo día
	assert.Equal(t, 584.5, ds.Prices[domain.CurrencyID("Divine Orb")][domain.NewDate(2025, time.February, 21)])
}

func TestLoader_MissingInput(t *testing.T) {
	_, err := NewLoader(Config{}).Load(context.Background(), testWindow(t))
	assert.ErrorIs(t, err, domain.ErrMissingInput)

	missing := filepath.Join(t.TempDir(), "nope.csv")
	_, err = NewLoader(Config{CurrencyCSV: missing}).Load(context.Background(), testWindow(t))
	assert.ErrorIs(t, err, domain.ErrMissingInput)
}

func TestLoader_MalformedFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing column",
			content: "League;Date;Get;Value\nMercenaries;2025-02-20;Divine Orb;150\n",
			wantErr: `missing column "Pay"`,
		},
		{
			name:    "bad value",
			content: "League;Date;Get;Pay;Value\nMercenaries;2025-02-20;Divine Orb;Chaos Orb;lots\n",
			wantErr: "value",
		},
		{
			name:    "bad date",
			content: "League;Date;Get;Pay;Value\nMercenaries;20/02/2025;Divine Orb;Chaos Orb;1\n",
			wantErr: "ParseDate",
		},
		{
			name:    "NaN value",
			content: "League;Date;Get;Pay;Value\nMercenaries;2025-02-20;Divine Orb;Chaos Orb;NaN\n",
			wantErr: "c.csv:2: value \"NaN\" is not a finite number",
		},
		{
			name:    "infinite value",
			content: "League;Date;Get;Pay;Value\nMercenaries;2025-02-20;Divine Orb;Chaos Orb;150\nMercenaries;2025-02-21;Divine Orb;Chaos Orb;+Inf\n",
			wantErr: "c.csv:3: value \"+Inf\" is not a finite number",
		},
		{
			name:    "short row",
			content: "League;Date;Get;Pay;Value\nMercenaries;2025-02-20\n",
			wantErr: "expected 5 fields",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(Config{CurrencyCSV: writeFile(t, "c.csv", tt.content)})
			_, err := l.Load(context.Background(), testWindow(t))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
		})
	}
}
