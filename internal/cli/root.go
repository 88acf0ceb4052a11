package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the slabquote command tree.
func NewRootCommand() *cobra.Command {
	g := DefaultGlobalOptions()
	cmd := &cobra.Command{
		Use:   "slabquote [command]",
		Short: "slabquote prices CNC parts machined from bar and sheet stock.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if g.env != nil {
				_ = g.env.Log.Sync()
			}
		},
	}
	g.Bind(cmd.PersistentFlags())

	cmd.AddCommand(NewCmdNew(&g))
	cmd.AddCommand(NewCmdCalc(&g))
	cmd.AddCommand(NewCmdCompare(&g))
	cmd.AddCommand(NewCmdExport(&g))
	cmd.AddCommand(NewCmdEmail(&g))
	cmd.AddCommand(NewCmdMaterials(&g))
	cmd.AddCommand(NewCmdRate(&g))
	cmd.AddCommand(NewCmdDXF(&g))
	cmd.AddCommand(NewCmdGCode(&g))
	cmd.AddCommand(NewCmdTemplate(&g))
	cmd.AddCommand(NewCmdBackup(&g))
	return cmd
}
