package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// browser origins allowed by CORS, "*" allows all
	AllowedOrigins []string `toml:"allowed_origins"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// rate limiting of the CSV export route
	ExportRateLimitAllowedPerMin int `toml:"export_rate_limit_allowed_per_min"`

	Volume Volume `toml:"volume"`
}

// Volume holds the weighting and classification settings of the volume engine.
type Volume struct {
	// a weight left out of the file gets its default, an explicit 0 turns
	// the slot off
	WeightPrimary   *float64 `toml:"weight_primary"`
	WeightSecondary *float64 `toml:"weight_secondary"`
	WeightTertiary  *float64 `toml:"weight_tertiary"`
	WeightIsolated  *float64 `toml:"weight_isolated"`

	// empty threshold lists mean "use the built-in defaults"
	DirectThresholds   []Threshold `toml:"direct_thresholds"`
	IndirectThresholds []Threshold `toml:"indirect_thresholds"`

	CatalogCacheSizeMB  int      `toml:"catalog_cache_size_mb"`
	CatalogCacheTTL     Duration `toml:"catalog_cache_ttl"`
	IncludeAllByDefault bool     `toml:"include_all_muscle_groups"`
}

type Threshold struct {
	Bound float64 `toml:"bound"`
	Class string  `toml:"class"`
}

// Duration lets TOML files use strings like "10m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load decodes the TOML file at path and returns the validated config section
// for the given env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	defaultWeight(&c.Volume.WeightPrimary, 1.0)
	defaultWeight(&c.Volume.WeightSecondary, 0.5)
	defaultWeight(&c.Volume.WeightTertiary, 0.25)
	defaultWeight(&c.Volume.WeightIsolated, 1.0)
	if c.Volume.CatalogCacheSizeMB == 0 {
		c.Volume.CatalogCacheSizeMB = 10
	}
	if c.Volume.CatalogCacheTTL.Duration == 0 {
		c.Volume.CatalogCacheTTL.Duration = 10 * time.Minute
	}
	if c.ExportRateLimitAllowedPerMin == 0 {
		c.ExportRateLimitAllowedPerMin = 10
	}
}

func defaultWeight(w **float64, value float64) {
	if *w == nil {
		*w = &value
	}
}

// Weight returns a pointer to v, for building a Volume section in code.
func Weight(v float64) *float64 {
	return &v
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	for _, w := range []*float64{
		c.Volume.WeightPrimary,
		c.Volume.WeightSecondary,
		c.Volume.WeightTertiary,
		c.Volume.WeightIsolated,
	} {
		if w != nil && *w < 0 {
			errs = append(errs, errors.New("volume weights must not be negative"))
			break
		}
	}
	if err := validateThresholds("direct", c.Volume.DirectThresholds); err != nil {
		errs = append(errs, err)
	}
	if err := validateThresholds("indirect", c.Volume.IndirectThresholds); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateThresholds(role string, thresholds []Threshold) error {
	for i, th := range thresholds {
		if th.Class == "" {
			return fmt.Errorf("%s threshold #%d: empty class", role, i)
		}
		if i > 0 && th.Bound <= thresholds[i-1].Bound {
			return fmt.Errorf("%s thresholds must be strictly ascending, got %v after %v", role, th.Bound, thresholds[i-1].Bound)
		}
	}
	return nil
}
