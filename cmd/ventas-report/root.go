package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"ventas/internal/cli"
	"ventas/internal/config"
	"ventas/internal/core"
	"ventas/internal/export"
	applog "ventas/internal/log"
	"ventas/internal/report"
	"ventas/internal/services"
	"ventas/internal/sheets/local"
	"ventas/internal/table"
)

type reportFlags struct {
	base      report.Options
	encoding  string
	delimiter string
	order     string
	narrative bool
	json      bool
	xlsx      string
	verbose   bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := config.Load()
	f := reportFlags{
		base:      cli.ReportOptions(cfg),
		encoding:  cfg.InputEncoding,
		delimiter: cfg.InputDelimiter,
		order:     cfg.CategoryOrder,
		narrative: cfg.Narrative,
	}

	cmd := &cobra.Command{
		Use:   "ventas-report [file]",
		Short: "Summarize a retail sales table",
		Long: `Loads a sales table (semicolon separated Latin-1 CSV, or xlsx), and prints
totals by category and by day, summary statistics and commentary.

Without a file argument DEFAULT_INPUT_FILE is used.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.DefaultInputFile
			if len(args) == 1 {
				path = args[0]
			}
			return runReport(cmd, f, path, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.encoding, "encoding", f.encoding, "text encoding of CSV input (latin-1, windows-1252, utf-8)")
	flags.StringVar(&f.delimiter, "delimiter", f.delimiter, "field delimiter of CSV input")
	flags.StringVar(&f.order, "order", f.order, "category order: sorted or insertion")
	flags.BoolVar(&f.narrative, "narrative", f.narrative, "include commentary")
	flags.BoolVar(&f.json, "json", false, "print the report as JSON")
	flags.StringVar(&f.xlsx, "xlsx", "", "also write the summary workbook to `PATH`")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log load details to stderr")
	return cmd
}

func (f reportFlags) options() (table.Options, report.Options, error) {
	if utf8.RuneCountInString(f.delimiter) != 1 {
		return table.Options{}, report.Options{}, fmt.Errorf("invalid delimiter %q: must be a single character", f.delimiter)
	}
	if table.CanonicalEncoding(f.encoding) == "" {
		return table.Options{}, report.Options{}, fmt.Errorf("unsupported encoding %q", f.encoding)
	}
	order := core.CategoryOrder(f.order)
	if !order.Valid() {
		return table.Options{}, report.Options{}, fmt.Errorf("invalid order %q: must be sorted or insertion", f.order)
	}

	d, _ := utf8.DecodeRuneInString(f.delimiter)
	opts := f.base
	opts.CategoryOrder = order
	opts.Narrative = f.narrative
	return table.Options{Encoding: f.encoding, Delimiter: d}, opts, nil
}

func runReport(cmd *cobra.Command, f reportFlags, path string, stdout, stderr io.Writer) error {
	tableOpts, reportOpts, err := f.options()
	if err != nil {
		return err
	}

	// Failures reach the user through the returned error; logs are opt-in.
	logOut := io.Discard
	if f.verbose {
		logOut = stderr
	}
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Output: logOut, Component: applog.ComponentCLI})

	svc := services.NewReportService(reportOpts, tableOpts, nil, nil, logger)
	src := local.NewFile(path, tableOpts)
	rep, err := svc.FromSource(cmd.Context(), src)
	if err != nil {
		return err
	}

	if f.xlsx != "" {
		if err := writeWorkbook(f.xlsx, rep); err != nil {
			return err
		}
	}

	if f.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report.NewDocument(src.Name(), rep))
	}
	return printReport(stdout, src.Name(), rep)
}

func writeWorkbook(path string, rep report.Report) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return export.Write(out, rep)
}

func printReport(w io.Writer, source string, rep report.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	p := func(format string, args ...any) { fmt.Fprintf(tw, format, args...) }

	p("Fuente:\t%s\t\n", source)
	p("Registros:\t%d\t\n", rep.Stats.Count)
	p("Ventas totales:\t%s\t\n", report.FormatUSD(rep.Stats.Total))
	p("Media:\t%s\t\n", report.FormatUSD(rep.Stats.Mean))
	p("Mediana:\t%s\t\n", report.FormatUSD(rep.Stats.Median))

	p("\nVentas por categoría\t\t\n")
	for _, c := range rep.ByCategory {
		p("%s\t%s\t\n", c.Categoria, report.FormatUSD(c.TotalVentas))
	}

	p("\nVentas por fecha\t\t\n")
	for _, d := range rep.ByDate {
		p("%s\t%s\t\n", d.Fecha.Format(), report.FormatUSD(d.TotalVentas))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range rep.Narrative.Sections() {
		if _, err := fmt.Fprintf(w, "\n%s\n", s); err != nil {
			return err
		}
	}
	return nil
}
