package cli

import (
	"context"
	"fmt"

	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/piwi3910/SlabQuote/internal/project"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const maxRecentQuotes = 10

type NewOptions struct {
	*GlobalOptions

	Material string
	Profile  string
	Template string
	Quantity int
}

func NewCmdNew(g *GlobalOptions) *cobra.Command {
	o := &NewOptions{GlobalOptions: g, Quantity: 1}
	cmd := &cobra.Command{
		Use:   "new QUOTE_FILE",
		Short: "Create a quote file from the saved defaults or a template.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd, args)
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *NewOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Material, "material", "m", o.Material, "Material id from the catalog.")
	fs.StringVarP(&o.Profile, "profile", "p", o.Profile, "Cross section: RECTANGULAR, ROUND, HEX or SHEET.")
	fs.StringVarP(&o.Template, "template", "t", o.Template, "Start from the named template.")
	fs.IntVarP(&o.Quantity, "quantity", "q", o.Quantity, "Number of good parts.")
}

func (o *NewOptions) Validate(args []string) error {
	if o.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}
	if o.Profile != "" {
		if _, err := model.ParseCrossSection(o.Profile); err != nil {
			return err
		}
	}
	return nil
}

func (o *NewOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	env, err := o.Env()
	if err != nil {
		return err
	}

	var spec model.QuoteSpec
	if o.Template != "" {
		store, err := env.Templates()
		if err != nil {
			return err
		}
		tmpl := store.FindByName(o.Template)
		if tmpl == nil {
			return fmt.Errorf("template %q not found", o.Template)
		}
		spec = tmpl.ToSpec(o.Quantity)
	} else {
		spec = model.DefaultQuoteSpec()
		env.AppConfig.ApplyToSpec(&spec)
		spec.QuantityGood = o.Quantity
	}

	if o.Material != "" {
		m := env.Catalog().Find(o.Material)
		if m == nil {
			return fmt.Errorf("material %q not found in catalog", o.Material)
		}
		spec.ApplyMaterial(*m)
	}
	if o.Profile != "" {
		spec.CrossSection, _ = model.ParseCrossSection(o.Profile)
	}

	path := args[0]
	if err := project.SaveQuote(path, spec); err != nil {
		return err
	}
	env.AppConfig.AddRecentQuote(path, maxRecentQuotes)
	if err := env.SaveAppConfig(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
