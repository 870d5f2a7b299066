// Package scenario defines the stress-scenario parameter bundle: deposit
// run-off rates, market shocks, the fire-sale curve, and periodic credit
// deterioration. A Scenario is validated once at construction and treated
// as immutable configuration afterwards.
package scenario

import (
	"fmt"
	"time"

	"github.com/rustyeddy/bankstress/balance"
)

// Granularity is the simulation time step.
type Granularity string

const (
	Daily     Granularity = "Daily"
	Monthly   Granularity = "Monthly"
	Quarterly Granularity = "Quarterly"
	Yearly    Granularity = "Yearly"
)

// Days returns the day count of one period, 0 for an invalid granularity.
func (g Granularity) Days() int {
	switch g {
	case Daily:
		return 1
	case Monthly:
		return 30
	case Quarterly:
		return 90
	case Yearly:
		return 365
	}
	return 0
}

// The fire-sale discount never exceeds this, however large the sale.
const maxFireSaleDiscount = 50.0

// PeriodOverride maps a deposit category to an explicit withdrawal amount
// for one period, used verbatim instead of the rate-based formula.
type PeriodOverride map[string]float64

// Scenario is a stress-scenario parameter bundle. Build one via New (or a
// library preset) and do not mutate it afterwards; the engine shares it
// across periods.
type Scenario struct {
	Name        string      `json:"name" yaml:"name"`
	Granularity Granularity `json:"time_granularity" yaml:"time_granularity"`
	NumPeriods  int         `json:"num_periods" yaml:"num_periods"`

	// Deposit run-off, percent of the opening balance per period.
	RunoffRates  map[string]float64 `json:"runoff_rates" yaml:"runoff_rates"`
	CustomRunoff []PeriodOverride   `json:"custom_runoff,omitempty" yaml:"custom_runoff,omitempty"`

	// Market stress.
	SecurityShocks    map[string]float64 `json:"security_shocks" yaml:"security_shocks"`
	FireSaleDiscount  float64            `json:"fire_sale_discount" yaml:"fire_sale_discount"`
	FireSaleIncrement float64            `json:"fire_sale_increment" yaml:"fire_sale_increment"`

	// Funding stress.
	FundingSpreadBps          int     `json:"funding_spread_increase" yaml:"funding_spread_increase"`
	CollateralHaircutIncrease float64 `json:"collateral_haircut_increase" yaml:"collateral_haircut_increase"`

	// Credit deterioration, percent.
	LoanMigrationRate float64 `json:"loan_migration_rate" yaml:"loan_migration_rate"`
	ProvisioningRate  float64 `json:"provisioning_rate" yaml:"provisioning_rate"`
	RWAIncrease       float64 `json:"rwa_increase" yaml:"rwa_increase"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// CreditImpact reports one application of credit deterioration. The RWA
// increase is carried for reporting only; RWA is always recomputed live
// from asset balances, never incremented.
type CreditImpact struct {
	MigrationAmount float64 `json:"migration_amount" yaml:"migration_amount"`
	Provision       float64 `json:"provision" yaml:"provision"`
	RWAIncreasePct  float64 `json:"rwa_increase_pct" yaml:"rwa_increase_pct"`
}

// ValidationError reports an out-of-range or malformed scenario parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scenario invalid: %s: %s", e.Field, e.Reason)
}

// DefaultRunoffRates returns the Basel III standard per-category run-off
// rates in percent.
func DefaultRunoffRates() map[string]float64 {
	return map[string]float64{
		balance.RetailStable:      5.0,
		balance.RetailUnstable:    10.0,
		balance.CorporateDeposits: 40.0,
		balance.WholesaleFunding:  100.0,
		balance.SecuredFunding:    25.0,
	}
}

// Defaults returns a scenario skeleton carrying the conventional parameter
// levels (moderate fire-sale curve, 100bps funding spread, 2% loan
// migration with 50% provisioning). Callers overlay their own name,
// granularity, periods, and rates before passing it to New.
func Defaults() Scenario {
	return Scenario{
		FireSaleDiscount:          10.0,
		FireSaleIncrement:         2.0,
		FundingSpreadBps:          100,
		CollateralHaircutIncrease: 10.0,
		LoanMigrationRate:         2.0,
		ProvisioningRate:          50.0,
		RWAIncrease:               10.0,
	}
}

// New validates s and returns it as an immutable scenario. Empty run-off
// rates default to the Basel standard set; CreatedAt defaults to now. The
// parameter maps are copied so later edits to the caller's maps cannot
// leak into a running simulation.
func New(s Scenario) (*Scenario, error) {
	if len(s.RunoffRates) == 0 {
		s.RunoffRates = DefaultRunoffRates()
	} else {
		s.RunoffRates = copyRates(s.RunoffRates)
	}
	if s.SecurityShocks != nil {
		s.SecurityShocks = copyRates(s.SecurityShocks)
	}
	if s.CustomRunoff != nil {
		s.CustomRunoff = copyOverrides(s.CustomRunoff)
	}
	if s.CreatedAt == "" {
		s.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Granularity.Days() == 0 {
		return &ValidationError{
			Field:  "time_granularity",
			Reason: fmt.Sprintf("invalid granularity %q", s.Granularity),
		}
	}
	if s.NumPeriods <= 0 {
		return &ValidationError{
			Field:  "num_periods",
			Reason: fmt.Sprintf("must be positive, got %d", s.NumPeriods),
		}
	}
	for depositType, rate := range s.RunoffRates {
		if rate < 0 || rate > 100 {
			return &ValidationError{
				Field:  "runoff_rates." + depositType,
				Reason: fmt.Sprintf("rate %.2f outside [0,100]", rate),
			}
		}
	}
	for assetType, shock := range s.SecurityShocks {
		if shock < -100 || shock > 100 {
			return &ValidationError{
				Field:  "security_shocks." + assetType,
				Reason: fmt.Sprintf("shock %.2f outside [-100,100]", shock),
			}
		}
	}
	return nil
}

// RunoffForPeriod returns the withdrawal amount for one deposit category in
// one period: the override-table entry verbatim when one exists, otherwise
// openingBalance times the configured rate (0% for unconfigured categories).
func (s *Scenario) RunoffForPeriod(period int, depositType string, openingBalance float64) float64 {
	if period >= 0 && period < len(s.CustomRunoff) {
		if amount, ok := s.CustomRunoff[period][depositType]; ok {
			return amount
		}
	}
	return openingBalance * s.RunoffRates[depositType] / 100
}

// SecurityShock returns the configured price shock for an asset as a
// decimal fraction (-0.15 for -15%), 0 for unconfigured assets.
func (s *Scenario) SecurityShock(assetType string) float64 {
	return s.SecurityShocks[assetType] / 100
}

// FireSaleDiscountFor returns the total fire-sale discount percentage for
// selling amountSold out of totalAvailable: the base discount plus an
// increment per 10% of the available stock sold, capped at 50%.
func (s *Scenario) FireSaleDiscountFor(amountSold, totalAvailable float64) float64 {
	discount := s.FireSaleDiscount
	if totalAvailable > 0 {
		volumePct := amountSold / totalAvailable * 100
		discount += volumePct / 10 * s.FireSaleIncrement
	}
	return min(discount, maxFireSaleDiscount)
}

// ApplyCreditDeterioration migrates the configured share of performing
// loans to NPL and provisions against CET1, mutating bs in place.
func (s *Scenario) ApplyCreditDeterioration(bs *balance.BalanceSheet) CreditImpact {
	migration := bs.Asset(balance.PerformingLoans) * s.LoanMigrationRate / 100
	migrated := bs.MigrateToNPL(migration)

	provision := migrated * s.ProvisioningRate / 100
	bs.DebitCET1(provision)

	return CreditImpact{
		MigrationAmount: migrated,
		Provision:       provision,
		RWAIncreasePct:  s.RWAIncrease,
	}
}

func (s *Scenario) String() string {
	return fmt.Sprintf("StressScenario(name=%q granularity=%s periods=%d)",
		s.Name, s.Granularity, s.NumPeriods)
}

func copyRates(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyOverrides(rows []PeriodOverride) []PeriodOverride {
	out := make([]PeriodOverride, len(rows))
	for i, row := range rows {
		out[i] = PeriodOverride(copyRates(row))
	}
	return out
}
