package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, scenario_name, started_at, survival_horizon, breach_type, breach_period, asset_depletion, total_losses, capital_erosion, final_lcr, final_cet1)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.ScenarioName, r.StartedAt, r.SurvivalHorizon,
		r.BreachType, r.BreachPeriod, r.AssetDepletion, r.TotalLosses,
		r.CapitalErosion, r.FinalLCR, r.FinalCET1,
	)
	return err
}

func (j *SQLite) RecordPeriod(p PeriodRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO periods
		(run_id, period, lcr, nsfr, cet1_ratio, liquid_assets, total_deposits, outflow, losses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.RunID, p.Period, p.LCR, p.NSFR, p.CET1Ratio,
		p.LiquidAssets, p.TotalDeposits, p.Outflow, p.Losses,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
