package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	runs    *csv.Writer
	periods *csv.Writer
	rf, pf  *os.File
}

func NewCSV(runsPath, periodsPath string) (*CSV, error) {
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}
	pf, err := os.Create(periodsPath)
	if err != nil {
		rf.Close()
		return nil, err
	}

	rw := csv.NewWriter(rf)
	pw := csv.NewWriter(pf)

	if err := rw.Write([]string{"run_id", "scenario_name", "started_at", "survival_horizon", "breach_type", "breach_period", "asset_depletion", "total_losses", "capital_erosion", "final_lcr", "final_cet1"}); err != nil {
		return nil, err
	}
	if err := pw.Write([]string{"run_id", "period", "lcr", "nsfr", "cet1_ratio", "liquid_assets", "total_deposits", "outflow", "losses"}); err != nil {
		return nil, err
	}

	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}
	pw.Flush()
	if err := pw.Error(); err != nil {
		return nil, err
	}

	return &CSV{rw, pw, rf, pf}, nil
}

func (j *CSV) RecordRun(r RunRecord) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.ScenarioName,
		r.StartedAt.Format(time.RFC3339),
		strconv.Itoa(r.SurvivalHorizon),
		r.BreachType,
		strconv.Itoa(r.BreachPeriod),
		f(r.AssetDepletion),
		f(r.TotalLosses),
		f(r.CapitalErosion),
		f(r.FinalLCR),
		f(r.FinalCET1),
	})
	if err != nil {
		return err
	}

	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSV) RecordPeriod(p PeriodRecord) error {
	err := j.periods.Write([]string{
		p.RunID,
		strconv.Itoa(p.Period),
		f(p.LCR),
		f(p.NSFR),
		f(p.CET1Ratio),
		f(p.LiquidAssets),
		f(p.TotalDeposits),
		f(p.Outflow),
		f(p.Losses),
	})
	if err != nil {
		return err
	}

	j.periods.Flush()
	return j.periods.Error()
}

func (j *CSV) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.periods.Flush()
	if err := j.periods.Error(); err != nil {
		return err
	}

	if err := j.rf.Close(); err != nil {
		return err
	}
	return j.pf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
