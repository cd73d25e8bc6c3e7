package ports

import (
	"context"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
)

// ResultStore persiste los runs de cada backtest.
type ResultStore interface {
	// SaveReport persiste todos los runs y la elección diaria de un report.
	SaveReport(ctx context.Context, report *domain.Report) error

	// GetRun devuelve un run completo (trades y dailies) por su ID.
	GetRun(ctx context.Context, id string) (domain.RunResult, error)

	// GetChoices devuelve la elección diaria guardada con un run best_daily.
	GetChoices(ctx context.Context, runID string) ([]domain.DailyChoice, error)

	// ListRuns devuelve los runs guardados (sin trades ni dailies), más recientes primero.
	ListRuns(ctx context.Context) ([]domain.RunResult, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
