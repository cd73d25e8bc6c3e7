package domain

import "errors"

// Taxonomía de errores del backtester. Los componentes los envuelven con %w
// y el caller los distingue con errors.Is.
var (
	// ErrMissingInput: falta un fichero o mapa de precios requerido. Aborta el run.
	ErrMissingInput = errors.New("missing input")

	// ErrEmptySeries: un cálculo pedido (p.ej. el gráfico) no tiene filas.
	ErrEmptySeries = errors.New("empty series")

	// ErrNoOpportunities: no hay ninguna oportunidad rentable en la ventana
	// (p.ej. el ranking por Type sin pares con ganancia).
	ErrNoOpportunities = errors.New("no opportunities")

	// ErrInvalidConfiguration: capital, ventana o parámetros no positivos / inválidos.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
