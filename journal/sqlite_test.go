package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func testRun(id string, at time.Time) RunRecord {
	return RunRecord{
		RunID:           id,
		ScenarioName:    "Severe Combined Stress",
		StartedAt:       at,
		SurvivalHorizon: 12,
		BreachType:      "LCR",
		BreachPeriod:    12,
		AssetDepletion:  4321.5,
		TotalLosses:     650.25,
		CapitalErosion:  32.5,
		FinalLCR:        97.3,
		FinalCET1:       6.1,
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('runs','periods')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["runs"])
	assert.True(t, found["periods"])
}

func TestSQLiteRecordAndGetRun(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	rec := testRun("R1", time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC))
	require.NoError(t, j.RecordRun(rec))

	got, err := j.GetRun("R1")
	require.NoError(t, err)

	assert.Equal(t, rec.RunID, got.RunID)
	assert.Equal(t, rec.ScenarioName, got.ScenarioName)
	assert.True(t, got.StartedAt.Equal(rec.StartedAt))
	assert.Equal(t, rec.SurvivalHorizon, got.SurvivalHorizon)
	assert.Equal(t, rec.BreachType, got.BreachType)
	assert.Equal(t, rec.BreachPeriod, got.BreachPeriod)
	assert.InDelta(t, rec.AssetDepletion, got.AssetDepletion, 1e-6)
	assert.InDelta(t, rec.TotalLosses, got.TotalLosses, 1e-6)
	assert.InDelta(t, rec.FinalLCR, got.FinalLCR, 1e-6)
	assert.InDelta(t, rec.FinalCET1, got.FinalCET1, 1e-6)
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	_, err := j.GetRun("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteListRunsOrder(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordRun(testRun("older", base)))
	require.NoError(t, j.RecordRun(testRun("newer", base.Add(time.Hour))))

	runs, err := j.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "newer", runs[0].RunID)
	assert.Equal(t, "older", runs[1].RunID)
}

func TestSQLiteListPeriods(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	for _, p := range []int{2, 0, 1} {
		rec := PeriodRecord{
			RunID:         "R1",
			Period:        p,
			LCR:           150 - float64(p)*10,
			NSFR:          105,
			CET1Ratio:     9.5,
			LiquidAssets:  3000,
			TotalDeposits: 18000,
			Outflow:       1200,
			Losses:        45.5,
		}
		require.NoError(t, j.RecordPeriod(rec))
	}
	require.NoError(t, j.RecordPeriod(PeriodRecord{RunID: "R2", Period: 0, LCR: 80}))

	periods, err := j.ListPeriods("R1")
	require.NoError(t, err)
	require.Len(t, periods, 3)
	for i, p := range periods {
		assert.Equal(t, i, p.Period)
		assert.InDelta(t, 150-float64(i)*10, p.LCR, 1e-6)
	}
}
