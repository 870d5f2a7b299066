package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/bankstress/config"
	"github.com/rustyeddy/bankstress/engine"
	"github.com/rustyeddy/bankstress/journal"
	"github.com/rustyeddy/bankstress/pkg/id"
	"github.com/rustyeddy/bankstress/scenario"
	"github.com/rustyeddy/bankstress/survival"
)

func newRunCmd(rc *rootConfig) *cobra.Command {
	var (
		scenarioName string
		format       string
		noJournal    bool
		showProgress bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a stress-test simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid --format (want text or json, got %q)", format)
			}

			cfg, err := loadConfig(rc)
			if err != nil {
				return err
			}
			if scenarioName != "" {
				cfg.Scenario = config.ScenarioConfig{Preset: scenarioName}
			}

			bs, err := cfg.BalanceSheet()
			if err != nil {
				return fmt.Errorf("balance sheet: %w", err)
			}
			if err := bs.Validate(); err != nil {
				return fmt.Errorf("balance sheet: %w", err)
			}

			sc, err := cfg.StressScenario()
			if err != nil {
				return fmt.Errorf("scenario: %w", err)
			}

			e := engine.New(bs, sc, cfg.LiquidationOrder(), cfg.Simulation.RecoveryActions)
			e.SetLogger(rc.log)

			startedAt := time.Now().UTC()
			result, err := e.Run(func(period int, status string) {
				rc.log.Debug().Int("period", period).Msg(status)
				if showProgress {
					fmt.Println(status)
				}
			})
			if err != nil {
				return err
			}

			runID := id.New()
			if !noJournal {
				j, err := openJournal(rc, cfg)
				if err != nil {
					return err
				}
				defer j.Close()

				if err := journal.Record(j, runID, startedAt, result); err != nil {
					return fmt.Errorf("journal: %w", err)
				}
			}

			report := survival.New(result).SummaryReport()
			if format == "json" {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			printReport(runID, sc, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioName, "scenario", "", "Predefined scenario name (overrides config)")
	cmd.Flags().StringVar(&format, "format", "text", "Report format: text|json")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "Skip journaling the run")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Print per-period progress")

	return cmd
}

func loadConfig(rc *rootConfig) (*config.Config, error) {
	if rc.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(rc.ConfigPath)
}

func openJournal(rc *rootConfig, cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.RunsFile, cfg.Journal.PeriodsFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return journal.NewSQLite(rc.DBPath)
	}
}

func printReport(runID string, sc *scenario.Scenario, report survival.Report) {
	fmt.Printf("Run %s — %s (%d %s periods)\n", runID, report.ScenarioName, sc.NumPeriods, sc.Granularity)
	fmt.Printf("Survival horizon: %d periods\n", report.SurvivalHorizon)

	if report.Breach.Breached {
		fmt.Printf("Breach: %s at period %d (%.2f vs %.2f, severity %s)\n",
			report.Breach.Type, report.Breach.Period, report.Breach.Value,
			report.Breach.Threshold, report.Breach.Severity)
	} else {
		fmt.Println("Breach: none")
	}
	fmt.Printf("Driver: %s\n", report.PrimaryDriver)

	if len(report.CriticalPeriods) > 0 {
		parts := make([]string, len(report.CriticalPeriods))
		for i, p := range report.CriticalPeriods {
			parts[i] = fmt.Sprintf("%d", p)
		}
		fmt.Printf("Critical periods: %s\n", strings.Join(parts, ", "))
	}

	fmt.Printf("Assets liquidated: %.2f  Losses: %.2f  Capital erosion: %.2f%%\n",
		report.TotalDepletion, report.TotalLosses, report.CapitalErosion)
	fmt.Printf("Final LCR: %.2f%%  Final CET1: %.2f%%\n", report.FinalLCR, report.FinalCET1)
}
