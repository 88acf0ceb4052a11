package cli

import (
	"context"
	"io"

	"github.com/piwi3910/SlabQuote/internal/export"
	"github.com/spf13/cobra"
)

type EmailOptions struct {
	*GlobalOptions
}

func NewCmdEmail(g *GlobalOptions) *cobra.Command {
	o := &EmailOptions{GlobalOptions: g}
	return &cobra.Command{
		Use:   "email QUOTE_FILE",
		Short: "Print an e-mail offering the quote to the customer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
}

func (o *EmailOptions) Run(ctx context.Context, w io.Writer, args []string) error {
	env, err := o.Env()
	if err != nil {
		return err
	}
	q, err := env.loadQuote(args[0])
	if err != nil {
		return err
	}
	body, err := export.QuoteEmail(q.Spec, env.calculate(q), q.Material)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, body)
	return err
}
