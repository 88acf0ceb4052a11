package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/piwi3910/SlabQuote/internal/engine"
	"github.com/piwi3910/SlabQuote/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	compareFormats   = "formats"
	compareMaterials = "materials"
)

type CompareOptions struct {
	*GlobalOptions

	By string
}

func NewCmdCompare(g *GlobalOptions) *cobra.Command {
	o := &CompareOptions{GlobalOptions: g, By: compareFormats}
	cmd := &cobra.Command{
		Use:   "compare QUOTE_FILE",
		Short: "Price a quote on every sheet format or every catalog material.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.By != compareFormats && o.By != compareMaterials {
				return fmt.Errorf("--by must be %s or %s", compareFormats, compareMaterials)
			}
			return o.Run(cmd.Context(), cmd, args)
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *CompareOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.By, "by", o.By, "Compare sheet formats or materials.")
}

func (o *CompareOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	env, err := o.Env()
	if err != nil {
		return err
	}
	q, err := env.loadQuote(args[0])
	if err != nil {
		return err
	}

	var scenarios []engine.ComparisonScenario
	if o.By == compareMaterials {
		scenarios = engine.MaterialScenarios(q.Spec, q.Catalog)
	} else {
		scenarios = engine.SheetFormatScenarios(q.Spec)
	}
	results := env.Calculator().CompareScenarios(scenarios, q.Catalog)
	best, found := engine.Cheapest(results)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tSTOCK\tTOTAL\tPER PART\t")
	for _, r := range results {
		mark := ""
		if found && r.Scenario.Name == best.Scenario.Name {
			mark = "*"
		}
		stock := fmt.Sprintf("%d", r.StockUnits)
		if !r.Fits {
			stock = "does not fit"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Scenario.Name, stock,
			export.CZK(r.TotalPrice), export.CZK(r.Result.PricePerPart), mark)
	}
	return tw.Flush()
}
