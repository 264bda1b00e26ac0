// Package config loads runtime settings from defaults, an optional file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"xbrl_statements/pkg/core/export"
	"xbrl_statements/pkg/core/utils"
	"xbrl_statements/pkg/core/xbrl"
)

// Scaling selects how scale and decimals attributes are combined.
type Scaling struct {
	Convention string `yaml:"convention" json:"convention"`
	Precision  uint32 `yaml:"precision" json:"precision"`
}

// Config holds every tunable of the extractor, the fetcher and the API server.
type Config struct {
	Queries         []string `yaml:"queries" json:"queries"`
	OutputDir       string   `yaml:"output_dir" json:"output_dir"` // empty: derived from the filing path
	Formats         []string `yaml:"formats" json:"formats"`
	ContextCount    int      `yaml:"context_count" json:"context_count"`
	InstantKeywords []string `yaml:"instant_keywords" json:"instant_keywords"`
	Scaling         Scaling  `yaml:"scaling" json:"scaling"`
	Workers         int      `yaml:"workers" json:"workers"`

	DatabaseURL string `yaml:"database_url" json:"database_url"`
	StoreDir    string `yaml:"store_dir" json:"store_dir"`
	CacheDir    string `yaml:"cache_dir" json:"cache_dir"`
	UserAgent   string `yaml:"user_agent" json:"user_agent"`

	LogLevel   string `yaml:"log_level" json:"log_level"`
	LogPretty  bool   `yaml:"log_pretty" json:"log_pretty"`
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
}

// DefaultQueries are the statements extracted when none are configured.
var DefaultQueries = []string{"income statement", "balance sheet", "earnings per share", "cash flow", "Goodwill"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Queries:         append([]string(nil), DefaultQueries...),
		Formats:         []string{string(export.FormatCSV)},
		ContextCount:    xbrl.DefaultContextCount,
		InstantKeywords: append([]string(nil), xbrl.DefaultInstantKeywords...),
		Scaling: Scaling{
			Convention: string(xbrl.ScaleMinusDecimals),
			Precision:  xbrl.DefaultPrecision,
		},
		Workers:    1,
		StoreDir:   filepath.Join(".cache", "statements"),
		CacheDir:   filepath.Join(".cache", "edgar", "filings"),
		LogLevel:   "info",
		ListenAddr: ":8080",
	}
}

// Load builds the configuration: defaults, then .env, then the optional file at path,
// then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if _, err := utils.DecodeLenient(string(data), c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".hjson":
		if err := utils.DecodeHJSON(string(data), c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("XBRL_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("XBRL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("XBRL_SCALING_CONVENTION"); v != "" {
		c.Scaling.Convention = v
	}
	if v := os.Getenv("SEC_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("XBRL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("XBRL_WORKERS: %w", err)
		}
		c.Workers = n
	}
	return nil
}

// Validate rejects settings the extractor cannot run with.
func (c *Config) Validate() error {
	if _, err := xbrl.ParseScalingConvention(c.Scaling.Convention); err != nil {
		return err
	}
	if _, err := export.ParseFormats(c.Formats); err != nil {
		return err
	}
	if c.ContextCount <= 0 {
		return fmt.Errorf("context_count must be positive, got %d", c.ContextCount)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// LoadOptions converts the configuration into filing load options.
func (c *Config) LoadOptions() xbrl.LoadOptions {
	convention, _ := xbrl.ParseScalingConvention(c.Scaling.Convention)
	return xbrl.LoadOptions{
		Convention: convention,
		Precision:  c.Scaling.Precision,
		Resolver: xbrl.ResolverOptions{
			ContextCount:    c.ContextCount,
			InstantKeywords: c.InstantKeywords,
		},
	}
}

// ExportFormats returns the parsed output formats.
func (c *Config) ExportFormats() ([]export.Format, error) {
	return export.ParseFormats(c.Formats)
}
