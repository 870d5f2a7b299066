// Package config loads and validates the simulation configuration: the
// bank's starting balance sheet, the stress scenario (preset name or inline
// definition), the liquidation order and the journal settings.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/bankstress/balance"
	"github.com/rustyeddy/bankstress/engine"
	"github.com/rustyeddy/bankstress/scenario"
)

// Config represents the complete simulation configuration.
type Config struct {
	Bank       BankConfig       `json:"bank" yaml:"bank"`
	Scenario   ScenarioConfig   `json:"scenario" yaml:"scenario"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// BankConfig is the starting balance sheet.
type BankConfig struct {
	Name        string             `json:"name" yaml:"name"`
	Assets      map[string]float64 `json:"assets" yaml:"assets"`
	Liabilities map[string]float64 `json:"liabilities" yaml:"liabilities"`
	Equity      map[string]float64 `json:"equity" yaml:"equity"`
}

// ScenarioConfig selects the stress scenario: either a preset from the
// library by name, or a full inline definition. Exactly one must be set.
type ScenarioConfig struct {
	Preset string             `json:"preset,omitempty" yaml:"preset,omitempty"`
	Custom *scenario.Scenario `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// SimulationConfig contains run parameters.
type SimulationConfig struct {
	LiquidationOrder []string `json:"liquidation_order,omitempty" yaml:"liquidation_order,omitempty"`
	RecoveryActions  []string `json:"recovery_actions,omitempty" yaml:"recovery_actions,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "csv" or "sqlite"
	RunsFile    string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	PeriodsFile string `json:"periods_file,omitempty" yaml:"periods_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file, YAML or JSON. Files ending
// in .xz are decompressed transparently.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if strings.HasSuffix(path, ".xz") {
		r, err := xz.NewReader(strings.NewReader(string(data)))
		if err != nil {
			return nil, fmt.Errorf("open xz config: %w", err)
		}
		if data, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("decompress config: %w", err)
		}
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file, YAML or JSON by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid. Balance-sheet values and
// the scenario itself get their deeper checks when built.
func (c *Config) Validate() error {
	if len(c.Bank.Assets) == 0 {
		return fmt.Errorf("bank.assets is required")
	}
	if len(c.Bank.Liabilities) == 0 {
		return fmt.Errorf("bank.liabilities is required")
	}
	if len(c.Bank.Equity) == 0 {
		return fmt.Errorf("bank.equity is required")
	}
	if c.Scenario.Preset == "" && c.Scenario.Custom == nil {
		return fmt.Errorf("scenario requires either preset or custom")
	}
	if c.Scenario.Preset != "" && c.Scenario.Custom != nil {
		return fmt.Errorf("scenario preset and custom are mutually exclusive")
	}
	if c.Scenario.Preset != "" {
		if _, err := scenario.ByName(c.Scenario.Preset); err != nil {
			return err
		}
	}
	if c.Journal.Type != "" && c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.RunsFile == "" || c.Journal.PeriodsFile == "") {
		return fmt.Errorf("journal runs_file and periods_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// BalanceSheet builds the starting balance sheet from the bank section.
func (c *Config) BalanceSheet() (*balance.BalanceSheet, error) {
	return balance.New(c.Bank.Assets, c.Bank.Liabilities, c.Bank.Equity)
}

// StressScenario resolves the scenario section into a validated scenario.
func (c *Config) StressScenario() (*scenario.Scenario, error) {
	if c.Scenario.Custom != nil {
		return scenario.New(*c.Scenario.Custom)
	}
	return scenario.ByName(c.Scenario.Preset)
}

// LiquidationOrder returns the configured order, or the default waterfall.
func (c *Config) LiquidationOrder() []string {
	if len(c.Simulation.LiquidationOrder) > 0 {
		return c.Simulation.LiquidationOrder
	}
	return engine.DefaultLiquidationOrder()
}

// Default returns a configuration with a mid-sized sample bank and the
// standard Basel scenario.
func Default() *Config {
	return &Config{
		Bank: BankConfig{
			Name: "Sample Bank",
			Assets: map[string]float64{
				balance.CashReserves:    1000,
				balance.HQLALevel1:      2000,
				balance.HQLALevel2A:     500,
				balance.HQLALevel2B:     300,
				balance.PerformingLoans: 15000,
				balance.NPL:             500,
				balance.RealEstate:      1000,
				balance.OtherSecurities: 800,
				balance.OtherAssets:     200,
			},
			Liabilities: map[string]float64{
				balance.RetailStable:      8000,
				balance.RetailUnstable:    4000,
				balance.CorporateDeposits: 3000,
				balance.WholesaleFunding:  2000,
				balance.SecuredFunding:    1500,
				balance.OtherLiabilities:  500,
			},
			Equity: map[string]float64{
				balance.CET1:  1500,
				balance.AT1:   200,
				balance.Tier2: 600,
			},
		},
		Scenario: ScenarioConfig{Preset: scenario.BaselLCRStandard().Name},
		Journal: JournalConfig{
			Type:        "csv",
			RunsFile:    "./runs.csv",
			PeriodsFile: "./periods.csv",
		},
	}
}
