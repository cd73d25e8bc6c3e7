package ports

import (
	"context"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// PriceSource carga los precios diarios ya agregados (media por asset y día)
// y filtrados a la ventana de análisis.
type PriceSource interface {
	// Load devuelve ErrMissingInput si falta algún fichero requerido.
	Load(ctx context.Context, window domain.DateRange) (domain.Dataset, error)
}
