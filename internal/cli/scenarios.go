package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/bankstress/scenario"
)

func newScenariosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List predefined stress scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range scenario.Predefined() {
				fmt.Printf("%s\n", s.Name)
				fmt.Printf("  %d %s periods, fire-sale %.0f%%+%.0f%%/10%% sold\n",
					s.NumPeriods, s.Granularity, s.FireSaleDiscount, s.FireSaleIncrement)
				if s.Description != "" {
					fmt.Printf("  %s\n", s.Description)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print one predefined scenario as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.ByName(args[0])
			if err != nil {
				return err
			}
			data, err := s.Encode()
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	})

	return cmd
}
