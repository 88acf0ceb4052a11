package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds process settings read from the environment.
type Config struct {
	LogLevel string `envconfig:"SLABQUOTE_LOG_LEVEL" default:"info"`
	// CatalogPath overrides the material catalog location.
	CatalogPath string `envconfig:"SLABQUOTE_CATALOG" default:""`
	// ConfigPath overrides ~/.slabquote/config.json.
	ConfigPath string `envconfig:"SLABQUOTE_CONFIG" default:""`
	// TemplatesPath overrides ~/.slabquote/templates.json.
	TemplatesPath string `envconfig:"SLABQUOTE_TEMPLATES" default:""`
	Rates         RatesConfig
}

type RatesConfig struct {
	URL     string        `envconfig:"SLABQUOTE_RATES_URL" default:"https://api.frankfurter.app"`
	Timeout time.Duration `envconfig:"SLABQUOTE_RATES_TIMEOUT" default:"5s"`
	Offline bool          `envconfig:"SLABQUOTE_RATES_OFFLINE" default:"false"`
}

// New reads the configuration from the environment. When envFile is not
// empty it is loaded first; a missing file is not an error. Variables that
// are already set take precedence over the file.
func New(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
