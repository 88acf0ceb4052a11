package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/piwi3910/SlabQuote/internal/project"
	"github.com/spf13/cobra"
)

func NewCmdTemplate(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates"},
		Short:   "Manage quote templates.",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved templates.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env()
			if err != nil {
				return err
			}
			store, err := env.Templates()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMATERIAL\tPROFILE\tDESCRIPTION")
			for _, t := range store.Templates {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Name, t.Spec.MaterialID, t.Spec.CrossSection, t.Description)
			}
			return tw.Flush()
		},
	})

	var description string
	save := &cobra.Command{
		Use:   "save NAME QUOTE_FILE",
		Short: "Save the settings of a quote as a template.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env()
			if err != nil {
				return err
			}
			store, err := env.Templates()
			if err != nil {
				return err
			}
			if store.FindByName(args[0]) != nil {
				return fmt.Errorf("template %q already exists", args[0])
			}
			spec, err := project.LoadQuote(args[1])
			if err != nil {
				return err
			}
			store.Add(model.NewQuoteTemplate(args[0], description, spec))
			if err := project.SaveTemplates(env.TemplatesPath, store); err != nil {
				return fmt.Errorf("saving templates: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved template %s\n", args[0])
			return nil
		},
	}
	save.Flags().StringVarP(&description, "description", "d", "", "Template description.")
	cmd.AddCommand(save)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a template.",
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
			t := store.FindByName(args[0])
			if t == nil {
				return fmt.Errorf("template %q not found", args[0])
			}
			store.Remove(t.ID)
			if err := project.SaveTemplates(env.TemplatesPath, store); err != nil {
				return fmt.Errorf("saving templates: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed template %s\n", args[0])
			return nil
		},
	})
	return cmd
}
