package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/piwi3910/SlabQuote/internal/export"
	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/piwi3910/SlabQuote/internal/project"
	"github.com/piwi3910/SlabQuote/internal/rates"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"
)

const (
	textFormat = "text"
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var legalOutputTypes = []string{textFormat, jsonFormat, yamlFormat}

type CalcOptions struct {
	*GlobalOptions

	Output   string
	LiveRate bool
	Save     bool
}

func NewCmdCalc(g *GlobalOptions) *cobra.Command {
	o := &CalcOptions{GlobalOptions: g, Output: textFormat}
	cmd := &cobra.Command{
		Use:   "calc QUOTE_FILE",
		Short: "Calculate weights, stock and price of a quote.",
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

func (o *CalcOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.BoolVar(&o.LiveRate, "live-rate", o.LiveRate, "Fetch the current exchange rate before calculating.")
	fs.BoolVar(&o.Save, "save", o.Save, "Store the fetched exchange rate in the quote file.")
}

func (o *CalcOptions) Validate(args []string) error {
	if !slices.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	if o.Save && !o.LiveRate {
		return fmt.Errorf("--save requires --live-rate")
	}
	return nil
}

func (o *CalcOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	env, err := o.Env()
	if err != nil {
		return err
	}
	q, err := env.loadQuote(args[0])
	if err != nil {
		return err
	}

	if o.LiveRate {
		var notice rates.Notice
		q.Spec, notice = rates.Refresh(ctx, env.Rates, q.Spec)
		if notice != "" {
			env.Log.Warn(string(notice))
		} else {
			env.Log.Info("exchange rate updated",
				zap.String("currency", string(q.Spec.MaterialCurrency)),
				zap.Float64("rate", q.Spec.MaterialExchangeRate))
		}
		if o.Save && notice == "" {
			if err := project.SaveQuote(q.Path, q.Spec); err != nil {
				return err
			}
		}
	}

	result := env.calculate(q)
	return writeResult(cmd.OutOrStdout(), o.Output, q, result)
}

func writeResult(w io.Writer, format string, q quote, result model.CalculatedQuote) error {
	switch format {
	case jsonFormat:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling result: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case yamlFormat:
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshalling result: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := io.WriteString(w, export.Summary(q.Spec, result, q.Material))
		return err
	}
}
