// Package cli implements the slabquote commands.
package cli

import (
	"fmt"

	"github.com/piwi3910/SlabQuote/internal/config"
	"github.com/piwi3910/SlabQuote/internal/engine"
	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/piwi3910/SlabQuote/internal/project"
	"github.com/piwi3910/SlabQuote/internal/rates"
	"github.com/piwi3910/SlabQuote/pkg/log"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type GlobalOptions struct {
	EnvFile  string
	LogLevel string

	env *Env
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		EnvFile: ".env",
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.EnvFile, "env-file", o.EnvFile, "Environment file read before the SLABQUOTE_* variables.")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level (debug, info, warn, error). Overrides SLABQUOTE_LOG_LEVEL.")
}

// Env is the resolved runtime state shared by all commands.
type Env struct {
	Config        *config.Config
	Log           *zap.Logger
	AppConfig     model.AppConfig
	AppConfigPath string
	CatalogPath   string
	TemplatesPath string
	Rates         rates.Provider
}

// Env reads the configuration once and returns the shared state.
func (o *GlobalOptions) Env() (*Env, error) {
	if o.env != nil {
		return o.env, nil
	}
	cfg, err := config.New(o.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	level := cfg.LogLevel
	if o.LogLevel != "" {
		level = o.LogLevel
	}
	logger := log.InitLog(log.ParseLevel(level))

	env := &Env{
		Config:        cfg,
		Log:           logger,
		AppConfigPath: orDefault(cfg.ConfigPath, project.DefaultConfigPath()),
		TemplatesPath: orDefault(cfg.TemplatesPath, project.DefaultTemplatePath()),
	}

	env.AppConfig, err = project.LoadAppConfig(env.AppConfigPath)
	if err != nil {
		logger.Warn("app config not loaded, using defaults", zap.String("path", env.AppConfigPath), zap.Error(err))
		env.AppConfig = model.DefaultAppConfig()
	}
	env.CatalogPath = orDefault(cfg.CatalogPath, orDefault(env.AppConfig.CatalogPath, project.DefaultCatalogPath()))

	if cfg.Rates.Offline {
		static := rates.NewStatic()
		for cur, r := range env.AppConfig.ExchangeRates {
			if r > 0 {
				static.Rates[cur] = r
			}
		}
		env.Rates = static
	} else {
		env.Rates = rates.NewCached(rates.NewFrankfurter(cfg.Rates.URL, cfg.Rates.Timeout), logger)
	}

	logger.Debug("configuration loaded",
		zap.String("config", env.AppConfigPath),
		zap.String("catalog", env.CatalogPath),
		zap.Bool("offline", cfg.Rates.Offline))
	o.env = env
	return env, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Catalog loads the material catalog, falling back to the built-in list.
func (e *Env) Catalog() model.Catalog {
	catalog, _ := project.LoadCatalogOrFallback(e.CatalogPath, e.Log)
	return catalog
}

// Calculator returns a calculator using the configured sheet gap.
func (e *Env) Calculator() *engine.Calculator {
	opts := engine.DefaultOptions()
	opts.SheetGap = e.AppConfig.SheetGap
	return engine.New(opts)
}

// Templates loads the template store.
func (e *Env) Templates() (model.TemplateStore, error) {
	store, err := project.LoadTemplates(e.TemplatesPath)
	if err != nil {
		return model.TemplateStore{}, fmt.Errorf("loading templates: %w", err)
	}
	return store, nil
}

// SaveAppConfig persists the app config.
func (e *Env) SaveAppConfig() error {
	if err := project.SaveAppConfig(e.AppConfigPath, e.AppConfig); err != nil {
		return fmt.Errorf("saving app config: %w", err)
	}
	return nil
}

// quote is a loaded quote file together with its calculation inputs.
type quote struct {
	Path     string
	Spec     model.QuoteSpec
	Catalog  model.Catalog
	Material model.MaterialDefinition
}

// loadQuote reads a quote file and resolves its material.
func (e *Env) loadQuote(path string) (quote, error) {
	spec, err := project.LoadQuote(path)
	if err != nil {
		return quote{}, err
	}
	catalog := e.Catalog()
	material := model.MaterialDefinition{ID: spec.MaterialID}
	if m := catalog.Find(spec.MaterialID); m != nil {
		material = *m
	}
	return quote{Path: path, Spec: spec, Catalog: catalog, Material: material}, nil
}

// calculate runs the calculation for a loaded quote.
func (e *Env) calculate(q quote) model.CalculatedQuote {
	result := e.Calculator().Calculate(q.Spec, q.Catalog)
	for _, w := range result.Warnings {
		e.Log.Warn("quote warning", zap.String("quote", q.Path), zap.String("detail", w))
	}
	return result
}
