package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/bankstress/metrics"
)

func newValidateCmd(rc *rootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configured balance sheet and print its baseline metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rc)
			if err != nil {
				return err
			}

			bs, err := cfg.BalanceSheet()
			if err != nil {
				return fmt.Errorf("balance sheet: %w", err)
			}
			bs.SetLogger(rc.log)
			if err := bs.Validate(); err != nil {
				return fmt.Errorf("balance sheet: %w", err)
			}

			m := metrics.Calculate(bs)
			fmt.Printf("%s: balance sheet OK\n", cfg.Bank.Name)
			fmt.Printf("  Total assets:  %.2f\n", m.TotalAssets)
			fmt.Printf("  LCR:           %.2f%%\n", m.LCR.LCR)
			fmt.Printf("  NSFR:          %.2f%%\n", m.NSFR.NSFR)
			fmt.Printf("  CET1 ratio:    %.2f%%\n", m.CET1Ratio)
			fmt.Printf("  Leverage:      %.2f%%\n", m.LeverageRatio)
			return nil
		},
	}
}
