package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	scenario_name TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	survival_horizon INTEGER NOT NULL,
	breach_type TEXT NOT NULL,
	breach_period INTEGER NOT NULL,
	asset_depletion REAL NOT NULL,
	total_losses REAL NOT NULL,
	capital_erosion REAL NOT NULL,
	final_lcr REAL NOT NULL,
	final_cet1 REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS periods (
	run_id TEXT NOT NULL,
	period INTEGER NOT NULL,
	lcr REAL NOT NULL,
	nsfr REAL NOT NULL,
	cet1_ratio REAL NOT NULL,
	liquid_assets REAL NOT NULL,
	total_deposits REAL NOT NULL,
	outflow REAL NOT NULL,
	losses REAL NOT NULL,
	PRIMARY KEY (run_id, period)
);

CREATE INDEX IF NOT EXISTS idx_periods_run ON periods(run_id);
`
