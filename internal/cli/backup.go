package cli

import (
	"fmt"

	"github.com/piwi3910/SlabQuote/internal/project"
	"github.com/spf13/cobra"
)

func NewCmdBackup(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore settings, materials and templates.",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export FILE",
		Short: "Write all settings to a backup file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env()
			if err != nil {
				return err
			}
			store, err := env.Templates()
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], env.AppConfig, env.Catalog(), store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Replace settings, materials and templates with a backup.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env()
			if err != nil {
				return err
			}
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			env.AppConfig = backup.Config
			if err := env.SaveAppConfig(); err != nil {
				return err
			}
			if len(backup.Catalog) > 0 {
				if err := project.SaveCatalog(env.CatalogPath, backup.Catalog); err != nil {
					return err
				}
			}
			if err := project.SaveTemplates(env.TemplatesPath, backup.Templates); err != nil {
				return fmt.Errorf("saving templates: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d materials and %d templates\n",
				len(backup.Catalog), len(backup.Templates.Templates))
			return nil
		},
	})
	return cmd
}
