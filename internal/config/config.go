package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/revipro-dev/revipro/internal/extract"
	"github.com/revipro-dev/revipro/internal/pipeline"
	"github.com/revipro-dev/revipro/internal/reconcile"
)

// FileName is the config file created by `revipro init`.
const FileName = "revipro.yaml"

// Config represents the top-level revipro.yaml configuration.
type Config struct {
	Organization OrganizationConfig `yaml:"organization"`
	Extraction   ExtractionConfig   `yaml:"extraction"`
	Thresholds   ThresholdsConfig   `yaml:"thresholds"`
	Pipeline     PipelineConfig     `yaml:"pipeline"`
	Accounts     AccountsConfig     `yaml:"accounts"`
}

// OrganizationConfig identifies the audited organization and its column
// in the tax statements (Politische Gemeinde, Kirchgemeinde, Schulgemeinde).
type OrganizationConfig struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
}

// ExtractionConfig describes the statement layout.
type ExtractionConfig struct {
	DefaultColumn     int    `yaml:"default_column"`
	HeaderRows        int    `yaml:"header_rows"`
	LedgerHeaderLines int    `yaml:"ledger_header_lines"`
	DefaultYear       string `yaml:"default_year"`
}

// ThresholdsConfig holds the heuristic constants.
type ThresholdsConfig struct {
	MatchEpsilon float64 `yaml:"match_epsilon"`
	BalanceMin   float64 `yaml:"balance_min"`
}

// PipelineConfig controls the worker pool.
type PipelineConfig struct {
	Workers         int    `yaml:"workers"`
	DocumentTimeout string `yaml:"document_timeout"` // Go duration, e.g. "30s"
}

// AccountsConfig names the GL accounts of rules R805 and R806.
type AccountsConfig struct {
	Receivables string `yaml:"receivables"`
	Payables    string `yaml:"payables"`
}

// Load reads a revipro.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(orgName string) *Config {
	return &Config{
		Organization: OrganizationConfig{
			Name:   orgName,
			Column: "Politische Gemeinde",
		},
		Extraction: ExtractionConfig{
			DefaultColumn:     2,
			HeaderRows:        5,
			LedgerHeaderLines: 15,
			DefaultYear:       "2024",
		},
		Thresholds: ThresholdsConfig{
			MatchEpsilon: 0.01,
			BalanceMin:   100,
		},
		Pipeline: PipelineConfig{
			Workers:         4,
			DocumentTimeout: "30s",
		},
		Accounts: AccountsConfig{
			Receivables: "1012.00",
			Payables:    "2002.00",
		},
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Extraction.DefaultColumn < 0 {
		errs = append(errs, fmt.Errorf("extraction.default_column must not be negative"))
	}
	if c.Thresholds.MatchEpsilon <= 0 {
		errs = append(errs, fmt.Errorf("thresholds.match_epsilon must be positive"))
	}
	if c.Thresholds.BalanceMin < 0 {
		errs = append(errs, fmt.Errorf("thresholds.balance_min must not be negative"))
	}
	if c.Pipeline.Workers < 1 {
		errs = append(errs, fmt.Errorf("pipeline.workers must be at least 1"))
	}
	if _, err := c.timeout(); err != nil {
		errs = append(errs, err)
	}
	if c.Accounts.Receivables == "" || c.Accounts.Payables == "" {
		errs = append(errs, fmt.Errorf("accounts.receivables and accounts.payables are required"))
	} else if c.Accounts.Receivables == c.Accounts.Payables {
		errs = append(errs, fmt.Errorf("accounts.receivables and accounts.payables must differ"))
	}
	return errors.Join(errs...)
}

func (c *Config) timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Pipeline.DocumentTimeout)
	if err != nil {
		return 0, fmt.Errorf("pipeline.document_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("pipeline.document_timeout must be positive")
	}
	return d, nil
}

// ExtractOptions converts the layout settings. ledgerTokens come from the
// chart of accounts; nil keeps the built-in list.
func (c *Config) ExtractOptions(ledgerTokens []string) extract.Options {
	opts := extract.DefaultOptions()
	opts.ColumnMarker = c.Organization.Column
	opts.DefaultColumn = c.Extraction.DefaultColumn
	opts.HeaderRows = c.Extraction.HeaderRows
	opts.LedgerHeaderLines = c.Extraction.LedgerHeaderLines
	if c.Extraction.DefaultYear != "" {
		opts.DefaultYear = c.Extraction.DefaultYear
	}
	opts.BalanceMin = decimal.NewFromFloat(c.Thresholds.BalanceMin)
	opts.Receivables = c.Accounts.Receivables
	opts.Payables = c.Accounts.Payables
	if len(ledgerTokens) > 0 {
		opts.LedgerAccounts = ledgerTokens
	}
	return opts
}

// ReconcileOptions converts the rule settings.
func (c *Config) ReconcileOptions() reconcile.Options {
	return reconcile.Options{
		Epsilon:     decimal.NewFromFloat(c.Thresholds.MatchEpsilon),
		Receivables: c.Accounts.Receivables,
		Payables:    c.Accounts.Payables,
	}
}

// PipelineOptions converts the whole config into pipeline options.
func (c *Config) PipelineOptions(ledgerTokens []string) (pipeline.Options, error) {
	timeout, err := c.timeout()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Workers:         c.Pipeline.Workers,
		DocumentTimeout: timeout,
		Extract:         c.ExtractOptions(ledgerTokens),
		Reconcile:       c.ReconcileOptions(),
	}, nil
}
