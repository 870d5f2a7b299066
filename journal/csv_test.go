package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCSV(t *testing.T) (*CSV, string, string) {
	t.Helper()

	dir := t.TempDir()
	runsPath := filepath.Join(dir, "runs.csv")
	periodsPath := filepath.Join(dir, "periods.csv")

	j, err := NewCSV(runsPath, periodsPath)
	require.NoError(t, err)

	return j, runsPath, periodsPath
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVHeaders(t *testing.T) {
	t.Parallel()

	j, runsPath, periodsPath := newTestCSV(t)
	assert.NoError(t, j.Close())

	runs := readCSV(t, runsPath)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{"run_id", "scenario_name", "started_at", "survival_horizon", "breach_type", "breach_period", "asset_depletion", "total_losses", "capital_erosion", "final_lcr", "final_cet1"}, runs[0])

	periods := readCSV(t, periodsPath)
	require.Len(t, periods, 1)
	assert.Equal(t, []string{"run_id", "period", "lcr", "nsfr", "cet1_ratio", "liquid_assets", "total_deposits", "outflow", "losses"}, periods[0])
}

func TestCSVRecordRun(t *testing.T) {
	t.Parallel()

	j, runsPath, _ := newTestCSV(t)

	rec := testRun("R1", time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC))
	require.NoError(t, j.RecordRun(rec))
	require.NoError(t, j.Close())

	rows := readCSV(t, runsPath)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "R1", row[0])
	assert.Equal(t, "Severe Combined Stress", row[1])
	assert.Equal(t, "2026-03-04T05:06:07Z", row[2])
	assert.Equal(t, "12", row[3])
	assert.Equal(t, "LCR", row[4])
	assert.Equal(t, "12", row[5])
	assert.Equal(t, "4321.500000", row[6])
	assert.Equal(t, "97.300000", row[9])
}

func TestCSVRecordPeriod(t *testing.T) {
	t.Parallel()

	j, _, periodsPath := newTestCSV(t)

	require.NoError(t, j.RecordPeriod(PeriodRecord{
		RunID:         "R1",
		Period:        3,
		LCR:           120.5,
		NSFR:          104.2,
		CET1Ratio:     8.75,
		LiquidAssets:  2500,
		TotalDeposits: 17000,
		Outflow:       950.25,
		Losses:        12.5,
	}))
	require.NoError(t, j.Close())

	rows := readCSV(t, periodsPath)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "R1", row[0])
	assert.Equal(t, "3", row[1])
	assert.Equal(t, "120.500000", row[2])
	assert.Equal(t, "950.250000", row[7])
}
