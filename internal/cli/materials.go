package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/piwi3910/SlabQuote/internal/importer"
	"github.com/piwi3910/SlabQuote/internal/project"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewCmdMaterials(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "materials",
		Aliases: []string{"material"},
		Short:   "Manage the material catalog.",
	}
	cmd.AddCommand(newCmdMaterialsList(g))
	cmd.AddCommand(newCmdMaterialsAdd(g))
	cmd.AddCommand(newCmdMaterialsRemove(g))
	cmd.AddCommand(newCmdMaterialsImport(g))
	return cmd
}

func newCmdMaterialsList(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog materials.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDENSITY\tPRICE/KG")
			for _, m := range env.Catalog() {
				price := "-"
				if m.DefaultPricePerKg > 0 {
					price = fmt.Sprintf("%g", m.DefaultPricePerKg)
				}
				fmt.Fprintf(tw, "%s\t%s\t%g\t%s\n", m.ID, m.Name, m.Density, price)
			}
			return tw.Flush()
		},
	}
}

func newCmdMaterialsAdd(g *GlobalOptions) *cobra.Command {
	var density, price float64
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a material; its id is derived from the name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env()
			if err != nil {
				return err
			}
			catalog := env.Catalog()
			m, err := catalog.Add(args[0], density, price)
			if err != nil {
				return err
			}
			if err := project.SaveCatalog(env.CatalogPath, catalog); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", m.ID)
			return nil
		},
	}
	cmd.Flags().Float64Var(&density, "density", 0, "Density in g/cm³.")
	cmd.Flags().Float64Var(&price, "price", 0, "Default price per kg in CZK (0 = not set).")
	_ = cmd.MarkFlagRequired("density")
	return cmd
}

func newCmdMaterialsRemove(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a material from the catalog.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env()
			if err != nil {
				return err
			}
			catalog := env.Catalog()
			if !catalog.Remove(args[0]) {
				return fmt.Errorf("material %q not found", args[0])
			}
			if len(catalog) == 0 {
				return fmt.Errorf("cannot remove the last material")
			}
			if err := project.SaveCatalog(env.CatalogPath, catalog); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

func newCmdMaterialsImport(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Merge materials from a CSV or Excel file into the catalog.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env()
			if err != nil {
				return err
			}
			res := importer.ImportMaterials(args[0])
			for _, w := range res.Warnings {
				env.Log.Warn("import warning", zap.String("file", args[0]), zap.String("detail", w))
			}
			for _, e := range res.Errors {
				env.Log.Error("import error", zap.String("file", args[0]), zap.String("detail", e))
			}
			if len(res.Materials) == 0 {
				return fmt.Errorf("no materials imported from %s", args[0])
			}
			catalog, added, updated := importer.Merge(env.Catalog(), res.Materials)
			if err := project.SaveCatalog(env.CatalogPath, catalog); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d materials (%d added, %d updated)\n", len(res.Materials), added, updated)
			return nil
		},
	}
}
