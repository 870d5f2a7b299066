package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/bankstress/journal"
)

func newRunsCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List journaled simulation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.NewSQLite(rc.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer j.Close()

			runs, err := j.ListRuns()
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Println("no runs journaled")
				return nil
			}

			for _, r := range runs {
				fmt.Printf("%s  %s  %-28s horizon=%-3d breach=%-9s lcr=%.1f cet1=%.1f\n",
					r.RunID, r.StartedAt.Format(time.RFC3339), r.ScenarioName,
					r.SurvivalHorizon, r.BreachType, r.FinalLCR, r.FinalCET1)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its period trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.NewSQLite(rc.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer j.Close()

			run, err := j.GetRun(args[0])
			if err != nil {
				return err
			}
			periods, err := j.ListPeriods(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Run %s — %s started %s\n", run.RunID, run.ScenarioName,
				run.StartedAt.Format(time.RFC3339))
			fmt.Printf("Horizon %d, breach %s", run.SurvivalHorizon, run.BreachType)
			if run.BreachPeriod >= 0 {
				fmt.Printf(" at period %d", run.BreachPeriod)
			}
			fmt.Printf("\nLosses %.2f (erosion %.2f%%), final LCR %.2f%%, final CET1 %.2f%%\n\n",
				run.TotalLosses, run.CapitalErosion, run.FinalLCR, run.FinalCET1)

			fmt.Println("period     lcr    nsfr   cet1   liquid    deposits   outflow   losses")
			for _, p := range periods {
				fmt.Printf("%6d  %6.1f  %6.1f  %5.2f  %8.1f  %9.1f  %8.1f  %7.1f\n",
					p.Period, p.LCR, p.NSFR, p.CET1Ratio, p.LiquidAssets,
					p.TotalDeposits, p.Outflow, p.Losses)
			}
			return nil
		},
	})

	return cmd
}
