package scenario

import (
	"fmt"

	"github.com/rustyeddy/bankstress/balance"
)

// Predefined scenarios. These are convenience parameter sets, not engine
// logic; they mirror the regulatory 30-day standard plus two harsher
// composites.

// BaselLCRStandard is the Basel III LCR stress: standard run-off rates over
// 30 daily periods, no market shocks, no fire-sale pressure.
func BaselLCRStandard() *Scenario {
	s, err := New(Scenario{
		Name:                      "Basel III LCR Standard",
		Granularity:               Daily,
		NumPeriods:                30,
		RunoffRates:               DefaultRunoffRates(),
		FireSaleDiscount:          0.0,
		FireSaleIncrement:         2.0,
		FundingSpreadBps:          100,
		CollateralHaircutIncrease: 10.0,
		LoanMigrationRate:         2.0,
		ProvisioningRate:          50.0,
		RWAIncrease:               10.0,
		Description:               "Standard Basel III LCR stress scenario over 30 days",
	})
	if err != nil {
		panic(fmt.Sprintf("library scenario invalid: %v", err))
	}
	return s
}

// SevereStress combines a deposit run, market shocks, and credit
// deterioration over 60 daily periods.
func SevereStress() *Scenario {
	s, err := New(Scenario{
		Name:        "Severe Combined Stress",
		Granularity: Daily,
		NumPeriods:  60,
		RunoffRates: map[string]float64{
			balance.RetailStable:      15.0,
			balance.RetailUnstable:    30.0,
			balance.CorporateDeposits: 60.0,
			balance.WholesaleFunding:  100.0,
			balance.SecuredFunding:    50.0,
		},
		SecurityShocks: map[string]float64{
			balance.HQLALevel1:      0.0,
			balance.HQLALevel2A:     -10.0,
			balance.HQLALevel2B:     -25.0,
			balance.OtherSecurities: -40.0,
		},
		FireSaleDiscount:          15.0,
		FireSaleIncrement:         3.0,
		FundingSpreadBps:          250,
		CollateralHaircutIncrease: 20.0,
		LoanMigrationRate:         5.0,
		ProvisioningRate:          60.0,
		RWAIncrease:               15.0,
		Description:               "Severe stress combining deposit runs, market shocks, and credit deterioration",
	})
	if err != nil {
		panic(fmt.Sprintf("library scenario invalid: %v", err))
	}
	return s
}

// IdiosyncraticCrisis is a bank-specific crisis with major deposit flight
// over 90 daily periods.
func IdiosyncraticCrisis() *Scenario {
	s, err := New(Scenario{
		Name:        "Idiosyncratic Bank Crisis",
		Granularity: Daily,
		NumPeriods:  90,
		RunoffRates: map[string]float64{
			balance.RetailStable:      20.0,
			balance.RetailUnstable:    50.0,
			balance.CorporateDeposits: 80.0,
			balance.WholesaleFunding:  100.0,
			balance.SecuredFunding:    75.0,
		},
		SecurityShocks: map[string]float64{
			balance.HQLALevel1:      0.0,
			balance.HQLALevel2A:     -15.0,
			balance.HQLALevel2B:     -35.0,
			balance.OtherSecurities: -50.0,
		},
		FireSaleDiscount:          20.0,
		FireSaleIncrement:         5.0,
		FundingSpreadBps:          500,
		CollateralHaircutIncrease: 30.0,
		LoanMigrationRate:         8.0,
		ProvisioningRate:          70.0,
		RWAIncrease:               25.0,
		Description:               "Severe idiosyncratic crisis with major deposit flight",
	})
	if err != nil {
		panic(fmt.Sprintf("library scenario invalid: %v", err))
	}
	return s
}

// Predefined returns all library scenarios.
func Predefined() []*Scenario {
	return []*Scenario{
		BaselLCRStandard(),
		SevereStress(),
		IdiosyncraticCrisis(),
	}
}

// ByName looks up a predefined scenario by its (unique) name.
func ByName(name string) (*Scenario, error) {
	for _, s := range Predefined() {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no predefined scenario named %q", name)
}
