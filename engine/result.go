package engine

import (
	"github.com/rustyeddy/bankstress/balance"
	"github.com/rustyeddy/bankstress/scenario"
)

// BreachType identifies which regulatory threshold stopped a run.
type BreachType string

const (
	BreachNone      BreachType = "None"
	BreachLCR       BreachType = "LCR"
	BreachCET1      BreachType = "CET1"
	BreachLiquidity BreachType = "Liquidity"
)

// Regulatory minimums checked each period.
const (
	LCRMinimum  = 100.0
	CET1Minimum = 4.5
)

// Breach describes the first threshold violation of a run.
type Breach struct {
	Type      BreachType `json:"type" yaml:"type"`
	Value     float64    `json:"value" yaml:"value"`
	Threshold float64    `json:"threshold" yaml:"threshold"`
	Period    int        `json:"period" yaml:"period"`
}

// Metrics is the per-period metrics snapshot carried in the trace.
type Metrics struct {
	LCR               float64 `json:"lcr" yaml:"lcr"`
	NSFR              float64 `json:"nsfr" yaml:"nsfr"`
	CET1Ratio         float64 `json:"cet1_ratio" yaml:"cet1_ratio"`
	TotalCapitalRatio float64 `json:"total_capital_ratio" yaml:"total_capital_ratio"`
	LiquidAssets      float64 `json:"liquid_assets" yaml:"liquid_assets"`
	TotalDeposits     float64 `json:"total_deposits" yaml:"total_deposits"`
}

// PeriodResult is one period of the simulation trace.
type PeriodResult struct {
	Period       int                    `json:"period" yaml:"period"`
	Opening      balance.Snapshot       `json:"opening" yaml:"opening"`
	Closing      balance.Snapshot       `json:"closing" yaml:"closing"`
	Outflows     map[string]float64     `json:"outflows" yaml:"outflows"`
	Liquidations []balance.Liquidation  `json:"liquidations" yaml:"liquidations"`
	Losses       float64                `json:"losses" yaml:"losses"`
	Credit       *scenario.CreditImpact `json:"credit_impact,omitempty" yaml:"credit_impact,omitempty"`
	Metrics      Metrics                `json:"metrics" yaml:"metrics"`
}

// TotalOutflow sums the period's per-category withdrawals.
func (p PeriodResult) TotalOutflow() float64 {
	var total float64
	for _, amount := range p.Outflows {
		total += amount
	}
	return total
}

// Result is the immutable outcome of one simulation run.
type Result struct {
	ScenarioName    string         `json:"scenario_name" yaml:"scenario_name"`
	SurvivalHorizon int            `json:"survival_horizon" yaml:"survival_horizon"`
	BreachType      BreachType     `json:"breach_type" yaml:"breach_type"`
	Breach          *Breach        `json:"breach_info,omitempty" yaml:"breach_info,omitempty"`
	AssetDepletion  float64        `json:"asset_depletion" yaml:"asset_depletion"`
	TotalLosses     float64        `json:"total_losses" yaml:"total_losses"`
	CapitalErosion  float64        `json:"capital_erosion" yaml:"capital_erosion"`
	FinalLCR        float64        `json:"final_lcr" yaml:"final_lcr"`
	FinalCET1       float64        `json:"final_cet1" yaml:"final_cet1"`
	RecoveryActions []string       `json:"recovery_actions,omitempty" yaml:"recovery_actions,omitempty"`
	Periods         []PeriodResult `json:"period_results" yaml:"period_results"`
}

// Breached reports whether the run ended in a threshold breach.
func (r *Result) Breached() bool { return r.Breach != nil }
