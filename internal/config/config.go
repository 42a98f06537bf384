package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/seo-forecast/internal/model"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the full application configuration.
type Config struct {
	Forecast model.Settings `yaml:"forecast" mapstructure:"forecast"`
	WhatIf   WhatIfConfig   `yaml:"whatif" mapstructure:"whatif"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// WhatIfConfig configures parameter sweeps.
type WhatIfConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	Steps       int `yaml:"steps" mapstructure:"steps"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst       int      `yaml:"burst" mapstructure:"burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config.yaml and the environment, in
// increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SEOFORECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	d := model.DefaultSettings()
	v.SetDefault("forecast.category", string(d.Category))
	v.SetDefault("forecast.months", d.Months)
	v.SetDefault("forecast.conversion_rate", d.ConversionRate)
	v.SetDefault("forecast.aov", d.AOV)
	v.SetDefault("forecast.implementation_cost", d.ImplementationCost)
	v.SetDefault("forecast.currency", string(d.Currency))
	v.SetDefault("forecast.ctr_profile", string(d.CTRProfile))
	v.SetDefault("forecast.custom_ctr.top", d.CustomCTR.Top)
	v.SetDefault("forecast.custom_ctr.beyond", d.CustomCTR.Beyond)
	v.SetDefault("forecast.serp.featured_snippet", false)
	v.SetDefault("forecast.serp.owns_featured_snippet", false)
	v.SetDefault("forecast.serp.faq", false)
	v.SetDefault("forecast.serp.owns_faq", false)
	v.SetDefault("forecast.confidence_level", d.ConfidenceLevel)
	v.SetDefault("whatif.concurrency", 4)
	v.SetDefault("whatif.steps", 5)
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.database_url", "seo-forecast.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.burst", 20)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes are
// "forecast", "runs" and "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "forecast":
		errs = append(errs, c.validateForecast()...)
	case "runs":
		errs = append(errs, c.validateStore()...)
	case "serve":
		errs = append(errs, c.validateForecast()...)
		errs = append(errs, c.validateStore()...)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
		if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
			errs = append(errs, "server.burst must be >= 1 when rate limiting")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateForecast() []string {
	var errs []string
	if err := c.Forecast.Validate(); err != nil {
		errs = append(errs, "forecast: "+eris.Cause(err).Error())
	}
	if c.WhatIf.Concurrency < 1 || c.WhatIf.Concurrency > 64 {
		errs = append(errs, "whatif.concurrency must be between 1 and 64")
	}
	if c.WhatIf.Steps < 2 {
		errs = append(errs, "whatif.steps must be >= 2")
	}
	return errs
}

func (c *Config) validateStore() []string {
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return []string{"store.driver must be sqlite or postgres"}
	}
	if c.Store.DatabaseURL == "" {
		return []string{"store.database_url is required"}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
