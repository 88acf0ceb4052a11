package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/SlabQuote/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type ExportOptions struct {
	*GlobalOptions

	File    string
	Company string
}

func NewCmdExport(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a quote as PDF, material request, workbook or part labels.",
	}
	cmd.AddCommand(newExportSubcommand(g, "pdf", "Write the customer quote PDF.", ".pdf"))
	cmd.AddCommand(newExportSubcommand(g, "rfq", "Write a material request for quotation.", "_rfq.pdf"))
	cmd.AddCommand(newExportSubcommand(g, "xlsx", "Write the quote as an Excel workbook.", ".xlsx"))
	cmd.AddCommand(newExportSubcommand(g, "labels", "Write QR-coded labels, one per produced part.", "_labels.pdf"))
	return cmd
}

func newExportSubcommand(g *GlobalOptions, kind, short, suffix string) *cobra.Command {
	o := &ExportOptions{GlobalOptions: g}
	cmd := &cobra.Command{
		Use:   kind + " QUOTE_FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), cmd, kind, suffix, args)
		},
	}
	o.Bind(cmd.Flags())
	if kind != "rfq" {
		_ = cmd.Flags().MarkHidden("company")
	}
	return cmd
}

func (o *ExportOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.File, "file", "f", o.File, "Output path. Defaults to the quote path with a new extension.")
	fs.StringVar(&o.Company, "company", o.Company, "Buyer printed on the request. Defaults to the configured company name.")
}

// outputPath derives "part.pdf" from "part.slabquote" and suffix ".pdf".
func outputPath(quotePath, suffix string) string {
	base := strings.TrimSuffix(quotePath, filepath.Ext(quotePath))
	return base + suffix
}

func (o *ExportOptions) Run(ctx context.Context, cmd *cobra.Command, kind, suffix string, args []string) error {
	env, err := o.Env()
	if err != nil {
		return err
	}
	q, err := env.loadQuote(args[0])
	if err != nil {
		return err
	}
	result := env.calculate(q)

	path := o.File
	if path == "" {
		path = outputPath(q.Path, suffix)
		if kind == "rfq" {
			path = filepath.Join(filepath.Dir(q.Path), export.RFQFileName(q.Spec, q.Material, time.Now()))
		}
	}

	switch kind {
	case "pdf":
		err = export.ExportQuotePDF(path, q.Spec, result, q.Material)
	case "rfq":
		company := o.Company
		if company == "" {
			company = env.AppConfig.CompanyName
		}
		err = export.ExportRFQ(path, q.Spec, result, q.Material, company)
	case "xlsx":
		err = export.ExportQuoteXLSX(path, q.Spec, result, q.Material)
	case "labels":
		err = export.ExportPartLabels(path, q.Spec, result, q.Material)
	default:
		err = fmt.Errorf("unsupported export %q", kind)
	}
	if err != nil {
		return fmt.Errorf("exporting %s: %w", kind, err)
	}
	env.Log.Debug("quote exported", zap.String("kind", kind), zap.String("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
