package cli

import (
	"context"
	"fmt"

	"github.com/piwi3910/SlabQuote/internal/gcode"
	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/piwi3910/SlabQuote/internal/project"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type GCodeOptions struct {
	*GlobalOptions

	Quote      string
	Name       string
	HourlyRate float64
	Machine    gcode.Machine
}

func NewCmdGCode(g *GlobalOptions) *cobra.Command {
	o := &GCodeOptions{
		GlobalOptions: g,
		Name:          "CNC Machining",
		HourlyRate:    model.DefaultOperationRate,
		Machine:       gcode.DefaultMachine(),
	}
	cmd := &cobra.Command{
		Use:   "gcode PROGRAM",
		Short: "Estimate the cycle time of an NC program and optionally add it to a quote.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), cmd, args)
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *GCodeOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.Quote, "quote", o.Quote, "Quote file to add the operation to.")
	fs.StringVar(&o.Name, "name", o.Name, "Operation name.")
	fs.Float64Var(&o.HourlyRate, "rate", o.HourlyRate, "Hourly rate of the operation in CZK.")
	fs.Float64Var(&o.Machine.RapidRate, "rapid", o.Machine.RapidRate, "Machine rapid rate in mm/min.")
	fs.Float64Var(&o.Machine.DefaultFeed, "default-feed", o.Machine.DefaultFeed, "Feed in mm/min for moves before the first F word.")
}

func (o *GCodeOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	env, err := o.Env()
	if err != nil {
		return err
	}
	est, err := gcode.EstimateFile(args[0], o.Machine)
	if err != nil {
		return err
	}
	for _, w := range est.Warnings {
		env.Log.Warn("program warning", zap.String("file", args[0]), zap.String("detail", w))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d moves, %.0f mm cutting, %.0f mm rapid, %.2f min per part\n",
		est.Moves, est.CuttingLength, est.RapidLength, est.Minutes())

	if o.Quote == "" {
		return nil
	}
	spec, err := project.LoadQuote(o.Quote)
	if err != nil {
		return err
	}
	op := model.NewOperation(o.Name, est.Minutes(), o.HourlyRate)
	spec.Operations = append(spec.Operations, op)
	if err := project.SaveQuote(o.Quote, spec); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added operation %s to %s\n", op.Name, o.Quote)
	return nil
}
