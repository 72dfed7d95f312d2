package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. LEARNQUEST_STORE_DRIVER.
const EnvPrefix = "LEARNQUEST"

// StoreConfig selects and locates the game state backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`
	Path   string `mapstructure:"path"`
}

// SelectionConfig holds the interest selection policy.
type SelectionConfig struct {
	Min                  int  `mapstructure:"min"`
	Max                  int  `mapstructure:"max"`
	ResetClearsInterests bool `mapstructure:"reset_clears_interests"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config holds all runtime configuration.
// Values are populated from .learnquest.yaml, LEARNQUEST_* env vars, and CLI flags.
type Config struct {
	Store        StoreConfig     `mapstructure:"store"`
	TickInterval time.Duration   `mapstructure:"tick_interval"`
	CacheSize    int             `mapstructure:"cache_size"`
	Selection    SelectionConfig `mapstructure:"selection"`
	HTTP         HTTPConfig      `mapstructure:"http"`
	User         string          `mapstructure:"user"`
	LogFile      string          `mapstructure:"log_file"`
	Verbose      bool            `mapstructure:"verbose"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.path", "")
	v.SetDefault("tick_interval", time.Second)
	v.SetDefault("cache_size", 1024)
	v.SetDefault("selection.min", 2)
	v.SetDefault("selection.max", 3)
	v.SetDefault("selection.reset_clears_interests", false)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("user", "")
	v.SetDefault("log_file", "")
	v.SetDefault("verbose", false)
}

// BindEnv makes nested keys reachable as LEARNQUEST_SECTION_KEY.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the global viper, applying built-in defaults
// for any values not set by config file, environment, or flags.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads configuration from v.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at open time.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite":
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q (want sqlite or postgres)", c.Store.Driver)
	}
	if c.Selection.Min < 1 || c.Selection.Max < c.Selection.Min {
		return fmt.Errorf("invalid selection bounds %d..%d", c.Selection.Min, c.Selection.Max)
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("tick_interval must not be negative")
	}
	return nil
}
