// Package metrics computes the formal Basel III regulatory ratios (LCR,
// NSFR) and aggregates them with the capital ratios into a snapshot. All
// functions are stateless and read-only over a balance sheet.
package metrics

import "github.com/rustyeddy/bankstress/balance"

// ZeroDenominatorRatio is returned when a ratio's denominator is zero: by
// convention "no stress exposure", not an error.
const ZeroDenominatorRatio = 999.9

// LCR numerator parameters (Basel III).
const (
	Level2AHaircut = 0.85 // 15% haircut
	Level2BHaircut = 0.50 // 50% haircut
	Level2Cap      = 0.40 // level-2 assets at most 40% of the HQLA stock
)

// 30-day stressed outflow rates by funding category.
const (
	RetailStableOutflow   = 0.05
	RetailUnstableOutflow = 0.10
	CorporateOutflow      = 0.40
	WholesaleOutflow      = 1.00
	SecuredOutflow        = 0.25
)

// 30-day inflow parameters: loan maturities estimated at 5% of performing
// loans, credited at 75%, with net outflows floored at 25% of gross.
const (
	LoanMaturityInflow = 0.05
	InflowCap          = 0.75
	OutflowFloor       = 0.25
)

// NSFR available-stable-funding factors.
const (
	EquityASF         = 1.00
	RetailStableASF   = 0.95
	RetailUnstableASF = 0.90
	CorporateASF      = 0.50
)

// NSFR required-stable-funding factors.
const (
	Level1RSF          = 0.05
	Level2ARSF         = 0.15
	Level2BRSF         = 0.50
	PerformingLoansRSF = 0.85
	NPLRSF             = 1.00
	RealEstateRSF      = 1.00
	OtherAssetsRSF     = 0.85
)

// LCRResult breaks the Liquidity Coverage Ratio into its components.
type LCRResult struct {
	LCR              float64 `json:"lcr" yaml:"lcr"`
	TotalHQLA        float64 `json:"total_hqla" yaml:"total_hqla"`
	Level1HQLA       float64 `json:"level1_hqla" yaml:"level1_hqla"`
	Level2HQLA       float64 `json:"level2_hqla" yaml:"level2_hqla"`
	GrossOutflows    float64 `json:"gross_outflows" yaml:"gross_outflows"`
	GrossInflows     float64 `json:"gross_inflows" yaml:"gross_inflows"`
	NetOutflows      float64 `json:"net_outflows" yaml:"net_outflows"`
	Level2CapBinding bool    `json:"level2_cap_binding" yaml:"level2_cap_binding"`
}

// NSFRResult breaks the Net Stable Funding Ratio into its components.
type NSFRResult struct {
	NSFR                   float64 `json:"nsfr" yaml:"nsfr"`
	AvailableStableFunding float64 `json:"available_stable_funding" yaml:"available_stable_funding"`
	RequiredStableFunding  float64 `json:"required_stable_funding" yaml:"required_stable_funding"`
}

// Summary is the full metrics snapshot for one balance-sheet state.
type Summary struct {
	LCR               LCRResult  `json:"lcr" yaml:"lcr"`
	NSFR              NSFRResult `json:"nsfr" yaml:"nsfr"`
	CET1Ratio         float64    `json:"cet1_ratio" yaml:"cet1_ratio"`
	Tier1Ratio        float64    `json:"tier1_ratio" yaml:"tier1_ratio"`
	TotalCapitalRatio float64    `json:"total_capital_ratio" yaml:"total_capital_ratio"`
	LeverageRatio     float64    `json:"leverage_ratio" yaml:"leverage_ratio"`
	LiquidAssets      float64    `json:"liquid_assets" yaml:"liquid_assets"`
	TotalAssets       float64    `json:"total_assets" yaml:"total_assets"`
	TotalDeposits     float64    `json:"total_deposits" yaml:"total_deposits"`
	LoanToDeposit     float64    `json:"loan_to_deposit_ratio" yaml:"loan_to_deposit_ratio"`
}

// LCR computes the Liquidity Coverage Ratio per Basel III: haircut HQLA
// with the 40% level-2 cap over stressed 30-day net outflows. Note the cap
// is applied here and only here; balance.TotalHQLA stays uncapped because
// downstream callers depend on both definitions.
func LCR(bs *balance.BalanceSheet) LCRResult {
	level1 := bs.Asset(balance.HQLALevel1)
	level2a := bs.Asset(balance.HQLALevel2A) * Level2AHaircut
	level2b := bs.Asset(balance.HQLALevel2B) * Level2BHaircut

	level2 := level2a + level2b
	cap := (level1 + level2) * Level2Cap

	capBinding := level2 > cap
	if capBinding {
		level2 = cap
	}
	hqla := level1 + level2

	outflows := grossOutflows(bs)
	inflows := grossInflows(bs)
	net := max(outflows-inflows*InflowCap, outflows*OutflowFloor)

	lcr := ZeroDenominatorRatio
	if net > 0 {
		lcr = hqla / net * 100
	}

	return LCRResult{
		LCR:              lcr,
		TotalHQLA:        hqla,
		Level1HQLA:       level1,
		Level2HQLA:       level2,
		GrossOutflows:    outflows,
		GrossInflows:     inflows,
		NetOutflows:      net,
		Level2CapBinding: capBinding,
	}
}

func grossOutflows(bs *balance.BalanceSheet) float64 {
	return bs.Liability(balance.RetailStable)*RetailStableOutflow +
		bs.Liability(balance.RetailUnstable)*RetailUnstableOutflow +
		bs.Liability(balance.CorporateDeposits)*CorporateOutflow +
		bs.Liability(balance.WholesaleFunding)*WholesaleOutflow +
		bs.Liability(balance.SecuredFunding)*SecuredOutflow
}

func grossInflows(bs *balance.BalanceSheet) float64 {
	return bs.Asset(balance.PerformingLoans) * LoanMaturityInflow
}

// NSFR computes the Net Stable Funding Ratio per Basel III.
func NSFR(bs *balance.BalanceSheet) NSFRResult {
	asf := bs.TotalEquity()*EquityASF +
		bs.Liability(balance.RetailStable)*RetailStableASF +
		bs.Liability(balance.RetailUnstable)*RetailUnstableASF +
		bs.Liability(balance.CorporateDeposits)*CorporateASF

	rsf := bs.Asset(balance.HQLALevel1)*Level1RSF +
		bs.Asset(balance.HQLALevel2A)*Level2ARSF +
		bs.Asset(balance.HQLALevel2B)*Level2BRSF +
		bs.Asset(balance.PerformingLoans)*PerformingLoansRSF +
		bs.Asset(balance.NPL)*NPLRSF +
		bs.Asset(balance.RealEstate)*RealEstateRSF +
		bs.Asset(balance.OtherSecurities)*OtherAssetsRSF +
		bs.Asset(balance.OtherAssets)*OtherAssetsRSF

	nsfr := ZeroDenominatorRatio
	if rsf > 0 {
		nsfr = asf / rsf * 100
	}

	return NSFRResult{
		NSFR:                   nsfr,
		AvailableStableFunding: asf,
		RequiredStableFunding:  rsf,
	}
}

// Calculate returns the full metrics snapshot for the balance sheet.
func Calculate(bs *balance.BalanceSheet) Summary {
	loanToDeposit := 0.0
	if deposits := bs.TotalDeposits(); deposits > 0 {
		loanToDeposit = bs.Asset(balance.PerformingLoans) / deposits * 100
	}

	return Summary{
		LCR:               LCR(bs),
		NSFR:              NSFR(bs),
		CET1Ratio:         bs.CET1Ratio(),
		Tier1Ratio:        bs.Tier1Ratio(),
		TotalCapitalRatio: bs.TotalCapitalRatio(),
		LeverageRatio:     bs.LeverageRatio(),
		LiquidAssets:      bs.TotalLiquidAssets(),
		TotalAssets:       bs.TotalAssets(),
		TotalDeposits:     bs.TotalDeposits(),
		LoanToDeposit:     loanToDeposit,
	}
}
