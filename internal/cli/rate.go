package cli

import (
	"fmt"

	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/spf13/cobra"
)

func NewCmdRate(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rate CURRENCY",
		Short: "Show the current exchange rate of a currency to CZK.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := model.ParseCurrency(args[0])
			if err != nil {
				return err
			}
			env, err := g.Env()
			if err != nil {
				return err
			}
			rate, err := env.Rates.FetchRate(cmd.Context(), cur, model.SettlementCurrency)
			if err != nil {
				return fmt.Errorf("fetching %s rate: %w", cur, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "1 %s = %.4f %s\n", cur, rate, model.SettlementCurrency)
			return nil
		},
	}
}
