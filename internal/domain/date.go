package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date es una fecha de calendario sin hora ni zona. Es comparable y se usa
// como clave de mapa en las series de precios.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normaliza (y, m, d) igual que time.Date (p.ej. 31 de febrero → 3 de marzo).
func NewDate(y int, m time.Month, d int) Date {
	return DateOf(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// DateOf extrae la fecha de calendario de t en su propia zona.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parsea una fecha ISO (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("domain.ParseDate: %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time devuelve la medianoche UTC de la fecha.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays devuelve la fecha desplazada n días.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before devuelve true si d es anterior a o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After devuelve true si d es posterior a o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// Compare devuelve -1, 0 o +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// DaysUntil devuelve el número de días de d a o (negativo si o es anterior).
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()).Hours() / 24)
}

// IsZero devuelve true para la fecha sin inicializar.
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// DateRange es una secuencia de días consecutivos sin huecos: la ventana de simulación.
type DateRange []Date

// NewDateRange construye la ventana [start, end] día a día.
func NewDateRange(start, end Date) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("domain.NewDateRange: empty bound: %w", ErrInvalidConfiguration)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("domain.NewDateRange: end %s before start %s: %w", end, start, ErrInvalidConfiguration)
	}
	n := start.DaysUntil(end) + 1
	days := make(DateRange, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, start.AddDays(i))
	}
	return days, nil
}

// Start devuelve el primer día de la ventana.
func (r DateRange) Start() Date {
	if len(r) == 0 {
		return Date{}
	}
	return r[0]
}

// End devuelve el último día de la ventana.
func (r DateRange) End() Date {
	if len(r) == 0 {
		return Date{}
	}
	return r[len(r)-1]
}

// Index devuelve el offset ordinal de d dentro de la ventana, o -1 si está fuera.
func (r DateRange) Index(d Date) int {
	if len(r) == 0 || d.Before(r[0]) || d.After(r[len(r)-1]) {
		return -1
	}
	return r[0].DaysUntil(d)
}

// Contains devuelve true si d está dentro de la ventana.
func (r DateRange) Contains(d Date) bool {
	return r.Index(d) >= 0
}
