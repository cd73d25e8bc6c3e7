package ports

import (
	"context"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// ReportSink recibe el report final de un backtest. Exporters, storage,
// consola y charts implementan esta interfaz.
type ReportSink interface {
	Publish(ctx context.Context, report *domain.Report) error
}
