package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run summary by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, scenario_name, started_at, survival_horizon, breach_type, breach_period, asset_depletion, total_losses, capital_erosion, final_lcr, final_cet1
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.ScenarioName,
		&rec.StartedAt,
		&rec.SurvivalHorizon,
		&rec.BreachType,
		&rec.BreachPeriod,
		&rec.AssetDepletion,
		&rec.TotalLosses,
		&rec.CapitalErosion,
		&rec.FinalLCR,
		&rec.FinalCET1,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns all run summaries, most recent first.
func (j *SQLite) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, scenario_name, started_at, survival_horizon, breach_type, breach_period, asset_depletion, total_losses, capital_erosion, final_lcr, final_cet1
		FROM runs
		ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.ScenarioName,
			&rec.StartedAt,
			&rec.SurvivalHorizon,
			&rec.BreachType,
			&rec.BreachPeriod,
			&rec.AssetDepletion,
			&rec.TotalLosses,
			&rec.CapitalErosion,
			&rec.FinalLCR,
			&rec.FinalCET1,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPeriods returns a run's period trace in period order.
func (j *SQLite) ListPeriods(runID string) ([]PeriodRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, period, lcr, nsfr, cet1_ratio, liquid_assets, total_deposits, outflow, losses
		FROM periods
		WHERE run_id = ?
		ORDER BY period ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PeriodRecord
	for rows.Next() {
		var rec PeriodRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Period,
			&rec.LCR,
			&rec.NSFR,
			&rec.CET1Ratio,
			&rec.LiquidAssets,
			&rec.TotalDeposits,
			&rec.Outflow,
			&rec.Losses,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
