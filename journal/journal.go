// Package journal persists simulation runs and their per-period traces,
// either as CSV files or in a SQLite database.
package journal

import (
	"time"

	"github.com/rustyeddy/bankstress/engine"
)

// RunRecord is the run-level summary row.
type RunRecord struct {
	RunID           string
	ScenarioName    string
	StartedAt       time.Time
	SurvivalHorizon int
	BreachType      string
	BreachPeriod    int
	AssetDepletion  float64
	TotalLosses     float64
	CapitalErosion  float64
	FinalLCR        float64
	FinalCET1       float64
}

// PeriodRecord is one period of a run's metric trace.
type PeriodRecord struct {
	RunID         string
	Period        int
	LCR           float64
	NSFR          float64
	CET1Ratio     float64
	LiquidAssets  float64
	TotalDeposits float64
	Outflow       float64
	Losses        float64
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordPeriod(PeriodRecord) error
	Close() error
}

// Record writes a finished simulation result as one run row plus its full
// period trace.
func Record(j Journal, runID string, startedAt time.Time, result *engine.Result) error {
	run := RunRecord{
		RunID:           runID,
		ScenarioName:    result.ScenarioName,
		StartedAt:       startedAt,
		SurvivalHorizon: result.SurvivalHorizon,
		BreachType:      string(result.BreachType),
		BreachPeriod:    -1,
		AssetDepletion:  result.AssetDepletion,
		TotalLosses:     result.TotalLosses,
		CapitalErosion:  result.CapitalErosion,
		FinalLCR:        result.FinalLCR,
		FinalCET1:       result.FinalCET1,
	}
	if result.Breach != nil {
		run.BreachPeriod = result.Breach.Period
	}

	if err := j.RecordRun(run); err != nil {
		return err
	}

	for _, p := range result.Periods {
		rec := PeriodRecord{
			RunID:         runID,
			Period:        p.Period,
			LCR:           p.Metrics.LCR,
			NSFR:          p.Metrics.NSFR,
			CET1Ratio:     p.Metrics.CET1Ratio,
			LiquidAssets:  p.Metrics.LiquidAssets,
			TotalDeposits: p.Metrics.TotalDeposits,
			Outflow:       p.TotalOutflow(),
			Losses:        p.Losses,
		}
		if err := j.RecordPeriod(rec); err != nil {
			return err
		}
	}
	return nil
}
