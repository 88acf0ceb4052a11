package cli

import (
	"fmt"

	"github.com/piwi3910/SlabQuote/internal/importer"
	"github.com/piwi3910/SlabQuote/internal/project"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewCmdDXF(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dxf DRAWING QUOTE_FILE",
		Short: "Take the part length and width of a quote from a DXF drawing.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env()
			if err != nil {
				return err
			}
			res := importer.ImportPartDXF(args[0])
			for _, w := range res.Warnings {
				env.Log.Warn("drawing warning", zap.String("file", args[0]), zap.String("detail", w))
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("reading %s: %s", args[0], res.Errors[0])
			}

			spec, err := project.LoadQuote(args[1])
			if err != nil {
				return err
			}
			res.Part.ApplyTo(&spec)
			if err := project.SaveQuote(args[1], spec); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "part %.1f x %.1f mm, net area %.0f mm², %d outlines\n",
				res.Part.Length, res.Part.Width, res.Part.NetArea, res.Part.Outlines)
			return nil
		},
	}
}
