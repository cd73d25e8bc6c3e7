package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/leaguetrade/internal/domain"
	"github.com/alejandrodnm/leaguetrade/internal/domain/strategy"
)

const (
	defaultMAWindow = 3
	defaultRankTopN = 3
)

// Los nombres de bucket acaban en rutas de output.dir (<bucket>_trades.csv, ...).
var bucketName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Config es la configuración completa del backtester.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// AnalysisConfig controla la ventana, el capital y las estrategias.
type AnalysisConfig struct {
	StartDate       string         `yaml:"start_date"` // YYYY-MM-DD
	EndDate         string         `yaml:"end_date"`   // YYYY-MM-DD, inclusive
	StartingCapital float64        `yaml:"starting_capital"`
	MinGain         float64        `yaml:"min_gain"`     // gain > min_gain
	MinGainPct      *float64       `yaml:"min_gain_pct"` // nil = sin filtro
	MAWindow        *int           `yaml:"ma_window"` // nil = 3; 0 o negativo es inválido
	Workers         int            `yaml:"workers"` // 0 = NumCPU
	Policies        []string       `yaml:"policies"`
	RankTopN        *int           `yaml:"rank_top_n"` // nil = 3; 0 = sin ranking
	Buckets         []BucketConfig `yaml:"buckets"`
}

// BucketConfig es un subconjunto de assets con su propio camino óptimo.
type BucketConfig struct {
	Name            string   `yaml:"name"` // va al nombre de los ficheros: [A-Za-z0-9_-]
	Types           []string `yaml:"types"`
	IncludeCurrency bool     `yaml:"include_currency"`
}

// InputConfig indica qué dumps leer y cómo filtrarlos.
type InputConfig struct {
	CurrencyCSV   string   `yaml:"currency_csv"`
	ItemsCSV      string   `yaml:"items_csv"`
	League        string   `yaml:"league"`
	PayCurrency   string   `yaml:"pay_currency"`
	ExcludedTypes []string `yaml:"excluded_types"`
}

// OutputConfig controla los ficheros generados.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Parquet bool   `yaml:"parquet"`
	Charts  bool   `yaml:"charts"`
	TopN    int    `yaml:"top_n"` // trades en la tabla de consola
}

// StorageConfig controla dónde se persisten los runs.
type StorageConfig struct {
	DSN           string `yaml:"dsn"`            // ruta al archivo SQLite, ":memory:", o vacío = sin persistencia
	RetentionDays int    `yaml:"retention_days"` // 0 = no borrar runs antiguos
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	return &cfg, nil
}

// Validate rechaza configuraciones con las que no tiene sentido calcular nada.
// Todos los errores envuelven domain.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	var errs []error
	if capital := c.Analysis.StartingCapital; !(capital > 0) || math.IsInf(capital, 1) {
		errs = append(errs, fmt.Errorf("starting_capital must be positive and finite, got %v", capital))
	}
	if w := c.Analysis.MovingAverageWindow(); w <= 0 {
		errs = append(errs, fmt.Errorf("ma_window must be positive, got %d", w))
	}
	if n := c.Analysis.RankingTopN(); n < 0 {
		errs = append(errs, fmt.Errorf("rank_top_n must not be negative, got %d", n))
	}
	if _, err := c.Window(); err != nil {
		errs = append(errs, err)
	}
	for _, name := range c.Analysis.Policies {
		if _, err := strategy.ByName(name); err != nil {
			errs = append(errs, fmt.Errorf("policy %q: unknown", name))
		}
	}
	seen := make(map[string]bool, len(c.Analysis.Buckets))
	for i, b := range c.Analysis.Buckets {
		switch {
		case strings.TrimSpace(b.Name) == "":
			errs = append(errs, fmt.Errorf("bucket %d: empty name", i))
		case !bucketName.MatchString(b.Name):
			errs = append(errs, fmt.Errorf("bucket %d: name %q may only contain letters, digits, '_' and '-'", i, b.Name))
		case seen[b.Name]:
			errs = append(errs, fmt.Errorf("bucket %d: duplicate name %q", i, b.Name))
		}
		seen[b.Name] = true
	}
	if c.Input.CurrencyCSV == "" && c.Input.ItemsCSV == "" {
		errs = append(errs, errors.New("input: currency_csv or items_csv is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config.Validate: %w: %w", domain.ErrInvalidConfiguration, errors.Join(errs...))
	}
	return nil
}

// MovingAverageWindow devuelve ma_window, o el default si no se configuró.
func (a AnalysisConfig) MovingAverageWindow() int {
	if a.MAWindow == nil {
		return defaultMAWindow
	}
	return *a.MAWindow
}

// RankingTopN devuelve rank_top_n, o el default si no se configuró. 0 desactiva el ranking.
func (a AnalysisConfig) RankingTopN() int {
	if a.RankTopN == nil {
		return defaultRankTopN
	}
	return *a.RankTopN
}

// Window devuelve la ventana de análisis [start_date, end_date].
func (c *Config) Window() (domain.DateRange, error) {
	start, err := domain.ParseDate(c.Analysis.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	end, err := domain.ParseDate(c.Analysis.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}
	return domain.NewDateRange(start, end)
}

// Retention devuelve la antigüedad máxima de los runs guardados (0 = sin límite).
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Storage.RetentionDays) * 24 * time.Hour
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("BACKTEST_STARTING_CAPITAL"); v != "" {
		capital, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("BACKTEST_STARTING_CAPITAL %q: %w", v, err)
		}
		cfg.Analysis.StartingCapital = capital
	}
	if v := os.Getenv("BACKTEST_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("BACKTEST_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
// starting_capital no tiene default: 0 o negativo lo rechaza Validate.
func setDefaults(cfg *Config) {
	if cfg.Analysis.MAWindow == nil {
		w := defaultMAWindow
		cfg.Analysis.MAWindow = &w
	}
	if cfg.Analysis.RankTopN == nil {
		n := defaultRankTopN
		cfg.Analysis.RankTopN = &n
	}
	if len(cfg.Analysis.Policies) == 0 {
		cfg.Analysis.Policies = strategy.Names()
	}
	if cfg.Analysis.Buckets == nil {
		cfg.Analysis.Buckets = DefaultBuckets()
	}
	if cfg.Input.PayCurrency == "" {
		cfg.Input.PayCurrency = "Chaos Orb"
	}
	if cfg.Input.ExcludedTypes == nil {
		cfg.Input.ExcludedTypes = []string{"BaseType", "SkillGem", "ClusterJewel"}
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "analysis"
	}
	if cfg.Output.TopN <= 0 {
		cfg.Output.TopN = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// DefaultBuckets son los dos timelines de beneficio de la liga: uniques por
// un lado y consumibles estables más currency por otro.
func DefaultBuckets() []BucketConfig {
	return []BucketConfig{
		{
			Name:  "unique",
			Types: []string{"UniqueWeapon", "UniqueArmour", "UniqueJewel", "UniqueAccessory", "UniqueFlask"},
		},
		{
			Name:            "stable",
			Types:           []string{"Tattoo", "DivinationCard", "Scarab", domain.CurrencyType},
			IncludeCurrency: true,
		},
	}
}
