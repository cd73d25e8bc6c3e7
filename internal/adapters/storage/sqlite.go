package storage

// sqlite.go: histórico de backtests.
//
// Estrategia:
//   - `runs`: una fila por run con su resumen. Un report entero se guarda en
//     una sola transacción: o están todos sus runs o ninguno.
//   - `run_trades`, `run_dailies`, `run_curve`: detalle por run, en orden.
//   - `daily_choices`: la elección best-next-day, colgada del run best_daily.
//   - Prune explícito: los runs anteriores a un corte se borran con su detalle.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id               TEXT PRIMARY KEY,
    created_at       INTEGER NOT NULL,
    seq              INTEGER NOT NULL,
    name             TEXT    NOT NULL,
    strategy         TEXT    NOT NULL,
    start_date       TEXT    NOT NULL,
    end_date         TEXT    NOT NULL,
    starting_capital REAL    NOT NULL,
    ending_capital   REAL    NOT NULL,
    total_return     REAL    NOT NULL DEFAULT 0,
    trade_count      INTEGER NOT NULL DEFAULT 0,
    avg_gain_pct     REAL    NOT NULL DEFAULT 0,
    median_gain_pct  REAL    NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_trades (
    run_id        TEXT    NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq           INTEGER NOT NULL,
    asset_id      TEXT    NOT NULL,
    buy_date      TEXT    NOT NULL,
    sell_date     TEXT    NOT NULL,
    buy_price     REAL    NOT NULL,
    sell_price    REAL    NOT NULL,
    units         REAL    NOT NULL,
    capital_start REAL    NOT NULL,
    capital_end   REAL    NOT NULL,
    PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS run_dailies (
    run_id        TEXT    NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    date          TEXT    NOT NULL,
    capital_start REAL    NOT NULL,
    capital_end   REAL    NOT NULL,
    invested      REAL    NOT NULL DEFAULT 0,
    cash_left     REAL    NOT NULL DEFAULT 0,
    trades_opened INTEGER NOT NULL DEFAULT 0,
    trades_closed INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, date)
);

CREATE TABLE IF NOT EXISTS run_curve (
    run_id  TEXT    NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq     INTEGER NOT NULL,
    capital REAL    NOT NULL,
    PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS daily_choices (
    run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    date       TEXT NOT NULL,
    next_date  TEXT NOT NULL,
    asset_id   TEXT NOT NULL DEFAULT '',
    buy_price  REAL NOT NULL DEFAULT 0,
    sell_price REAL NOT NULL DEFAULT 0,
    factor     REAL NOT NULL DEFAULT 1,
    PRIMARY KEY (run_id, date)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC, seq);
CREATE INDEX IF NOT EXISTS idx_runs_name    ON runs(name);
`

// ErrRunNotFound se devuelve cuando no existe un run con el ID pedido.
var ErrRunNotFound = errors.New("run not found")

// SQLiteStorage implementa ports.ResultStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	return &SQLiteStorage{db: db, now: time.Now}, nil
}

// Publish implementa ports.ReportSink.
func (s *SQLiteStorage) Publish(ctx context.Context, report *domain.Report) error {
	return s.SaveReport(ctx, report)
}

// SaveReport persiste todos los runs del report en una transacción.
func (s *SQLiteStorage) SaveReport(ctx context.Context, report *domain.Report) error {
	if len(report.Runs) == 0 {
		return nil
	}
	createdAt := s.now().UTC().UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveReport: begin tx: %w", err)
	}
	defer tx.Rollback()

	for i, run := range report.Runs {
		if err := insertRun(ctx, tx, run, createdAt, i); err != nil {
			return fmt.Errorf("storage.SaveReport: %s: %w", run.Name, err)
		}
		if run.Strategy == domain.StrategyBestDaily && len(report.Choices) > 0 {
			if err := insertChoices(ctx, tx, run.ID, report.Choices); err != nil {
				return fmt.Errorf("storage.SaveReport: %s: %w", run.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveReport: commit: %w", err)
	}
	return nil
}

func insertRun(ctx context.Context, tx *sql.Tx, run domain.RunResult, createdAt int64, seq int) error {
	sum := run.Summary
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs
			(id, created_at, seq, name, strategy, start_date, end_date,
			 starting_capital, ending_capital, total_return, trade_count,
			 avg_gain_pct, median_gain_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, createdAt, seq, run.Name, run.Strategy, run.Start.String(), run.End.String(),
		sum.StartingCapital, sum.EndingCapital, sum.TotalReturn, sum.TradeCount,
		sum.AvgGainPct, sum.MedianGainPct,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	trades, err := tx.PrepareContext(ctx, `
		INSERT INTO run_trades
			(run_id, seq, asset_id, buy_date, sell_date, buy_price, sell_price,
			 units, capital_start, capital_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare trades: %w", err)
	}
	defer trades.Close()
	for i, t := range run.Trades {
		if _, err := trades.ExecContext(ctx,
			run.ID, i, string(t.Asset), t.BuyDate.String(), t.SellDate.String(),
			t.BuyPrice, t.SellPrice, t.Units, t.CapitalStart, t.CapitalEnd,
		); err != nil {
			return fmt.Errorf("insert trade %d: %w", i, err)
		}
	}

	dailies, err := tx.PrepareContext(ctx, `
		INSERT INTO run_dailies
			(run_id, date, capital_start, capital_end, invested, cash_left,
			 trades_opened, trades_closed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare dailies: %w", err)
	}
	defer dailies.Close()
	for _, d := range run.Dailies {
		if _, err := dailies.ExecContext(ctx,
			run.ID, d.Date.String(), d.CapitalStart, d.CapitalEnd, d.Invested, d.CashLeft,
			d.TradesOpened, d.TradesClosed,
		); err != nil {
			return fmt.Errorf("insert daily %s: %w", d.Date, err)
		}
	}

	curve, err := tx.PrepareContext(ctx, `INSERT INTO run_curve (run_id, seq, capital) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare curve: %w", err)
	}
	defer curve.Close()
	for i, c := range run.Curve {
		if _, err := curve.ExecContext(ctx, run.ID, i, c); err != nil {
			return fmt.Errorf("insert curve %d: %w", i, err)
		}
	}
	return nil
}

func insertChoices(ctx context.Context, tx *sql.Tx, runID string, choices []domain.DailyChoice) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_choices (run_id, date, next_date, asset_id, buy_price, sell_price, factor)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare choices: %w", err)
	}
	defer stmt.Close()
	for _, c := range choices {
		if _, err := stmt.ExecContext(ctx,
			runID, c.Date.String(), c.NextDate.String(), string(c.Asset), c.BuyPrice, c.SellPrice, c.Factor,
		); err != nil {
			return fmt.Errorf("insert choice %s: %w", c.Date, err)
		}
	}
	return nil
}

// ListRuns devuelve la cabecera y el resumen de cada run, más recientes primero.
func (s *SQLiteStorage) ListRuns(ctx context.Context) ([]domain.RunResult, error) {
	rows, err := s.db.QueryContext(ctx, runSelect+` ORDER BY created_at DESC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("storage.ListRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunResult
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage.ListRuns: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun devuelve un run con sus trades, dailies y curva.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (domain.RunResult, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, runSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RunResult{}, fmt.Errorf("storage.GetRun: %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("storage.GetRun: %w", err)
	}

	if run.Trades, err = s.trades(ctx, id); err != nil {
		return domain.RunResult{}, fmt.Errorf("storage.GetRun: %w", err)
	}
	if run.Dailies, err = s.dailies(ctx, id); err != nil {
		return domain.RunResult{}, fmt.Errorf("storage.GetRun: %w", err)
	}
	if run.Curve, err = s.curve(ctx, id); err != nil {
		return domain.RunResult{}, fmt.Errorf("storage.GetRun: %w", err)
	}
	return run, nil
}

// GetChoices devuelve la elección diaria guardada con un run best_daily.
func (s *SQLiteStorage) GetChoices(ctx context.Context, runID string) ([]domain.DailyChoice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, next_date, asset_id, buy_price, sell_price, factor
		FROM daily_choices WHERE run_id = ? ORDER BY date`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetChoices: query: %w", err)
	}
	defer rows.Close()

	var choices []domain.DailyChoice
	for rows.Next() {
		var c domain.DailyChoice
		var day, next, asset string
		if err := rows.Scan(&day, &next, &asset, &c.BuyPrice, &c.SellPrice, &c.Factor); err != nil {
			return nil, fmt.Errorf("storage.GetChoices: scan row: %w", err)
		}
		if c.Date, err = domain.ParseDate(day); err != nil {
			return nil, fmt.Errorf("storage.GetChoices: %w", err)
		}
		if c.NextDate, err = domain.ParseDate(next); err != nil {
			return nil, fmt.Errorf("storage.GetChoices: %w", err)
		}
		c.Asset = domain.AssetID(asset)
		choices = append(choices, c)
	}
	return choices, rows.Err()
}

// Prune borra los runs creados antes de cutoff junto con su detalle.
// Devuelve cuántos runs se eliminaron.
func (s *SQLiteStorage) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("storage.Prune: %w", err)
	}
	return res.RowsAffected()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

const runSelect = `
	SELECT id, name, strategy, start_date, end_date, starting_capital, ending_capital,
	       total_return, trade_count, avg_gain_pct, median_gain_pct
	FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (domain.RunResult, error) {
	var run domain.RunResult
	var start, end string
	sum := &run.Summary
	if err := r.Scan(
		&run.ID, &run.Name, &run.Strategy, &start, &end,
		&sum.StartingCapital, &sum.EndingCapital, &sum.TotalReturn, &sum.TradeCount,
		&sum.AvgGainPct, &sum.MedianGainPct,
	); err != nil {
		return run, err
	}
	var err error
	if run.Start, err = domain.ParseDate(start); err != nil {
		return run, err
	}
	if run.End, err = domain.ParseDate(end); err != nil {
		return run, err
	}
	return run, nil
}

func (s *SQLiteStorage) trades(ctx context.Context, runID string) ([]domain.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset_id, buy_date, sell_date, buy_price, sell_price, units, capital_start, capital_end
		FROM run_trades WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var asset, buy, sell string
		if err := rows.Scan(&asset, &buy, &sell, &t.BuyPrice, &t.SellPrice, &t.Units, &t.CapitalStart, &t.CapitalEnd); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Asset = domain.AssetID(asset)
		if t.BuyDate, err = domain.ParseDate(buy); err != nil {
			return nil, err
		}
		if t.SellDate, err = domain.ParseDate(sell); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *SQLiteStorage) dailies(ctx context.Context, runID string) ([]domain.DailySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, capital_start, capital_end, invested, cash_left, trades_opened, trades_closed
		FROM run_dailies WHERE run_id = ? ORDER BY date`, runID)
	if err != nil {
		return nil, fmt.Errorf("query dailies: %w", err)
	}
	defer rows.Close()

	var dailies []domain.DailySummary
	for rows.Next() {
		var d domain.DailySummary
		var day string
		if err := rows.Scan(&day, &d.CapitalStart, &d.CapitalEnd, &d.Invested, &d.CashLeft, &d.TradesOpened, &d.TradesClosed); err != nil {
			return nil, fmt.Errorf("scan daily: %w", err)
		}
		if d.Date, err = domain.ParseDate(day); err != nil {
			return nil, err
		}
		dailies = append(dailies, d)
	}
	return dailies, rows.Err()
}

func (s *SQLiteStorage) curve(ctx context.Context, runID string) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT capital FROM run_curve WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query curve: %w", err)
	}
	defer rows.Close()

	var curve []float64
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan curve: %w", err)
		}
		curve = append(curve, c)
	}
	return curve, rows.Err()
}
