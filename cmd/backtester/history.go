package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/leaguetrade/internal/adapters/notify"
	"github.com/alejandrodnm/leaguetrade/internal/adapters/storage"
	"github.com/alejandrodnm/leaguetrade/internal/domain"
	"github.com/alejandrodnm/leaguetrade/internal/ports"
)

// runHistory lista los runs guardados o, si runID no está vacío, imprime ese run.
func runHistory(ctx context.Context, dsn, runID string) error {
	if dsn == "" {
		return errors.New("storage.dsn is empty: nothing to read")
	}
	db, err := storage.NewSQLiteStorage(dsn)
	if err != nil {
		return err
	}
	var store ports.ResultStore = db
	defer store.Close()

	console := notify.NewConsole(0, true)

	if runID == "" {
		runs, err := store.ListRuns(ctx)
		if err != nil {
			return err
		}
		slog.Info("saved runs", "count", len(runs))
		console.PrintRuns(runs)
		return nil
	}

	run, err := store.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	console.PrintRun(run)

	if run.Strategy != domain.StrategyBestDaily {
		return nil
	}
	choices, err := store.GetChoices(ctx, runID)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	console.PrintChoices(choices)
	return nil
}
