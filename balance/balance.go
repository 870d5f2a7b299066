// Package balance models a bank balance sheet as three keyed ledgers
// (assets, liabilities, equity) with the aggregate queries and the two
// mutating operations (withdrawal, liquidation) the stress engine needs.
package balance

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Asset line items.
const (
	CashReserves    = "cash_reserves"
	HQLALevel1      = "hqla_level1"
	HQLALevel2A     = "hqla_level2a"
	HQLALevel2B     = "hqla_level2b"
	PerformingLoans = "performing_loans"
	NPL             = "npl"
	RealEstate      = "real_estate"
	OtherSecurities = "other_securities"
	OtherAssets     = "other_assets"
)

// Liability line items.
const (
	RetailStable      = "retail_stable"
	RetailUnstable    = "retail_unstable"
	CorporateDeposits = "corporate_deposits"
	WholesaleFunding  = "wholesale_funding"
	SecuredFunding    = "secured_funding"
	OtherLiabilities  = "other_liabilities"
)

// Equity line items.
const (
	CET1  = "cet1"
	AT1   = "at1"
	Tier2 = "tier2"
)

// Basel III LCR haircuts applied by TotalHQLA.
const (
	haircutLevel2A = 0.85 // 15% haircut
	haircutLevel2B = 0.50 // 50% haircut
)

// Balance equation tolerances, in the ledger's currency unit (millions).
// Differences above warnTolerance are logged; above failTolerance the
// sheet is rejected.
const (
	warnTolerance = 0.01
	failTolerance = 1.0
)

// BalanceSheet holds the ledger. All amounts are in millions of a single
// currency. The maps are owned by the instance; callers that need an
// unmodified baseline must Copy() before handing one to a mutating caller.
type BalanceSheet struct {
	assets      map[string]float64
	liabilities map[string]float64
	equity      map[string]float64

	Period int

	log zerolog.Logger
}

// Liquidation describes one executed asset sale.
type Liquidation struct {
	AssetType        string  `json:"asset_type" yaml:"asset_type"`
	AmountLiquidated float64 `json:"amount_liquidated" yaml:"amount_liquidated"`
	HaircutPct       float64 `json:"haircut_pct" yaml:"haircut_pct"`
	Proceeds         float64 `json:"proceeds" yaml:"proceeds"`
	Loss             float64 `json:"loss" yaml:"loss"`
}

// Snapshot is an immutable point-in-time copy of the ledger, used in the
// simulation trace.
type Snapshot struct {
	Assets      map[string]float64 `json:"assets" yaml:"assets"`
	Liabilities map[string]float64 `json:"liabilities" yaml:"liabilities"`
	Equity      map[string]float64 `json:"equity" yaml:"equity"`
}

// New builds a balance sheet from the three category maps. The maps are
// deep-copied; the caller's maps are never retained or mutated. Negative
// line items are rejected here; the balance-equation check is Validate(),
// which input boundaries call before handing a sheet to the engine.
// cash_reserves and cet1 entries are created at zero if absent so that
// liquidation proceeds and losses always have a home.
func New(assets, liabilities, equity map[string]float64) (*BalanceSheet, error) {
	if assets == nil {
		return nil, &ValidationError{Item: "assets", Reason: "missing required category"}
	}
	if liabilities == nil {
		return nil, &ValidationError{Item: "liabilities", Reason: "missing required category"}
	}
	if equity == nil {
		return nil, &ValidationError{Item: "equity", Reason: "missing required category"}
	}

	bs := &BalanceSheet{
		assets:      copyMap(assets),
		liabilities: copyMap(liabilities),
		equity:      copyMap(equity),
		log:         zerolog.Nop(),
	}

	if _, ok := bs.assets[CashReserves]; !ok {
		bs.assets[CashReserves] = 0
	}
	if _, ok := bs.equity[CET1]; !ok {
		bs.equity[CET1] = 0
	}

	if err := bs.checkNonNegative(); err != nil {
		return nil, err
	}
	return bs, nil
}

// SetLogger injects the logger used for soft warnings (balance mismatch
// within tolerance). The default is a no-op logger.
func (bs *BalanceSheet) SetLogger(log zerolog.Logger) { bs.log = log }

// Validate rejects negative line items and balance-equation mismatches
// beyond failTolerance. Mismatches above warnTolerance are logged but
// allowed. Validate is an input-boundary gate; the engine does not call it
// between mutations, so realized losses may legitimately drive CET1
// negative mid-run.
func (bs *BalanceSheet) Validate() error {
	if err := bs.checkNonNegative(); err != nil {
		return err
	}

	diff := bs.TotalAssets() - (bs.TotalLiabilities() + bs.TotalEquity())
	if diff < 0 {
		diff = -diff
	}
	if diff > failTolerance {
		return &ValidationError{
			Reason: fmt.Sprintf("balance equation out of tolerance by %.2fM", diff),
		}
	}
	if diff > warnTolerance {
		bs.log.Warn().
			Float64("assets", bs.TotalAssets()).
			Float64("liabilities", bs.TotalLiabilities()).
			Float64("equity", bs.TotalEquity()).
			Float64("difference", diff).
			Msg("balance sheet imbalance")
	}
	return nil
}

func (bs *BalanceSheet) checkNonNegative() error {
	for category, items := range map[string]map[string]float64{
		"assets":      bs.assets,
		"liabilities": bs.liabilities,
		"equity":      bs.equity,
	} {
		for key, value := range items {
			if value < 0 {
				return &ValidationError{
					Item:   category + "." + key,
					Reason: fmt.Sprintf("negative value not allowed: %.2f", value),
				}
			}
		}
	}
	return nil
}

// Asset returns the named asset balance, 0 if absent.
func (bs *BalanceSheet) Asset(key string) float64 { return bs.assets[key] }

// Liability returns the named liability balance, 0 if absent.
func (bs *BalanceSheet) Liability(key string) float64 { return bs.liabilities[key] }

// EquityItem returns the named equity balance, 0 if absent.
func (bs *BalanceSheet) EquityItem(key string) float64 { return bs.equity[key] }

func (bs *BalanceSheet) TotalAssets() float64      { return sum(bs.assets) }
func (bs *BalanceSheet) TotalLiabilities() float64 { return sum(bs.liabilities) }
func (bs *BalanceSheet) TotalEquity() float64      { return sum(bs.equity) }

// TotalHQLA sums the three HQLA tiers. With applyHaircuts it weights
// level 2A at 85% and level 2B at 50%. It never applies the regulatory 40%
// level-2 cap; that belongs to the formal LCR numerator in the metrics
// package, and downstream callers depend on both definitions.
func (bs *BalanceSheet) TotalHQLA(applyHaircuts bool) float64 {
	level1 := bs.assets[HQLALevel1]
	level2a := bs.assets[HQLALevel2A]
	level2b := bs.assets[HQLALevel2B]

	if applyHaircuts {
		level2a *= haircutLevel2A
		level2b *= haircutLevel2B
	}
	return level1 + level2a + level2b
}

// TotalDeposits sums retail and corporate deposits.
func (bs *BalanceSheet) TotalDeposits() float64 {
	return bs.liabilities[RetailStable] +
		bs.liabilities[RetailUnstable] +
		bs.liabilities[CorporateDeposits]
}

// TotalRetailDeposits sums stable and unstable retail deposits.
func (bs *BalanceSheet) TotalRetailDeposits() float64 {
	return bs.liabilities[RetailStable] + bs.liabilities[RetailUnstable]
}

// TotalLiquidAssets is cash plus unhaircut HQLA.
func (bs *BalanceSheet) TotalLiquidAssets() float64 {
	return bs.assets[CashReserves] + bs.TotalHQLA(false)
}

// Tier1Capital is CET1 + AT1.
func (bs *BalanceSheet) Tier1Capital() float64 {
	return bs.equity[CET1] + bs.equity[AT1]
}

// TotalCapital is total regulatory capital (all equity).
func (bs *BalanceSheet) TotalCapital() float64 { return bs.TotalEquity() }

// RWAEstimate is a simplified risk-weighted asset figure: 100% performing
// loans, 150% NPL, 100% real estate, 50% other securities, 100% other
// assets; cash and HQLA carry a 0% weight. Always recomputed live from the
// current asset balances, never cached.
func (bs *BalanceSheet) RWAEstimate() float64 {
	return bs.assets[PerformingLoans]*1.0 +
		bs.assets[NPL]*1.5 +
		bs.assets[RealEstate]*1.0 +
		bs.assets[OtherSecurities]*0.5 +
		bs.assets[OtherAssets]*1.0
}

// CET1Ratio is CET1 / RWA as a percentage, 0 when RWA is 0.
func (bs *BalanceSheet) CET1Ratio() float64 {
	rwa := bs.RWAEstimate()
	if rwa == 0 {
		return 0
	}
	return bs.equity[CET1] / rwa * 100
}

// Tier1Ratio is Tier-1 capital / RWA as a percentage, 0 when RWA is 0.
func (bs *BalanceSheet) Tier1Ratio() float64 {
	rwa := bs.RWAEstimate()
	if rwa == 0 {
		return 0
	}
	return bs.Tier1Capital() / rwa * 100
}

// TotalCapitalRatio is total capital / RWA as a percentage, 0 when RWA is 0.
func (bs *BalanceSheet) TotalCapitalRatio() float64 {
	rwa := bs.RWAEstimate()
	if rwa == 0 {
		return 0
	}
	return bs.TotalCapital() / rwa * 100
}

// LeverageRatio is equity / assets as a percentage, 0 when assets are 0.
func (bs *BalanceSheet) LeverageRatio() float64 {
	assets := bs.TotalAssets()
	if assets == 0 {
		return 0
	}
	return bs.TotalEquity() / assets * 100
}

// ApplyWithdrawal reduces the named liability by min(amount, balance) and
// returns the amount actually withdrawn. The balance never goes negative.
func (bs *BalanceSheet) ApplyWithdrawal(depositType string, amount float64) (float64, error) {
	current, ok := bs.liabilities[depositType]
	if !ok {
		return 0, &UnknownCategoryError{Category: "liabilities", Key: depositType}
	}

	withdrawn := min(amount, current)
	bs.liabilities[depositType] = current - withdrawn

	bs.log.Debug().
		Str("deposit_type", depositType).
		Float64("withdrawn", withdrawn).
		Msg("withdrawal applied")

	return withdrawn, nil
}

// LiquidateAsset sells min(amount, available) of the named asset at the
// given haircut percentage. Proceeds are credited to cash_reserves and the
// realized loss debits CET1 immediately: simplified, but it makes fire-sale
// damage show up in the capital ratios the same period it happens.
func (bs *BalanceSheet) LiquidateAsset(assetType string, amount, haircutPct float64) (Liquidation, error) {
	available, ok := bs.assets[assetType]
	if !ok {
		return Liquidation{}, &UnknownCategoryError{Category: "assets", Key: assetType}
	}

	liquidated := min(amount, available)
	proceeds := liquidated * (1 - haircutPct/100)
	loss := liquidated - proceeds

	bs.assets[assetType] = available - liquidated
	bs.assets[CashReserves] += proceeds
	bs.equity[CET1] -= loss

	bs.log.Debug().
		Str("asset_type", assetType).
		Float64("liquidated", liquidated).
		Float64("haircut_pct", haircutPct).
		Float64("proceeds", proceeds).
		Float64("loss", loss).
		Msg("asset liquidated")

	return Liquidation{
		AssetType:        assetType,
		AmountLiquidated: liquidated,
		HaircutPct:       haircutPct,
		Proceeds:         proceeds,
		Loss:             loss,
	}, nil
}

// DrawCash spends up to amount from cash_reserves with no haircut and
// returns the amount drawn. Cash never goes negative.
func (bs *BalanceSheet) DrawCash(amount float64) float64 {
	drawn := min(amount, bs.assets[CashReserves])
	bs.assets[CashReserves] -= drawn
	return drawn
}

// MigrateToNPL moves up to amount from performing loans to NPL and returns
// the amount migrated.
func (bs *BalanceSheet) MigrateToNPL(amount float64) float64 {
	migrated := min(amount, bs.assets[PerformingLoans])
	bs.assets[PerformingLoans] -= migrated
	bs.assets[NPL] += migrated
	return migrated
}

// DebitCET1 charges a loss or provision directly against CET1. Unclamped:
// capital can go negative and is caught by the breach checks.
func (bs *BalanceSheet) DebitCET1(amount float64) {
	bs.equity[CET1] -= amount
}

// Copy returns a fully independent deep copy.
func (bs *BalanceSheet) Copy() *BalanceSheet {
	return &BalanceSheet{
		assets:      copyMap(bs.assets),
		liabilities: copyMap(bs.liabilities),
		equity:      copyMap(bs.equity),
		Period:      bs.Period,
		log:         bs.log,
	}
}

// Snapshot returns a deep copy of the ledger maps for the simulation trace.
func (bs *BalanceSheet) Snapshot() Snapshot {
	return Snapshot{
		Assets:      copyMap(bs.assets),
		Liabilities: copyMap(bs.liabilities),
		Equity:      copyMap(bs.equity),
	}
}

func (bs *BalanceSheet) String() string {
	return fmt.Sprintf("BalanceSheet(assets=%.2fM liabilities=%.2fM equity=%.2fM period=%d)",
		bs.TotalAssets(), bs.TotalLiabilities(), bs.TotalEquity(), bs.Period)
}

func copyMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sum(m map[string]float64) float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}
