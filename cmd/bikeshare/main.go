package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jtofah/pdsnd-github/internal/app"
	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
	"github.com/Jtofah/pdsnd-github/internal/exporter"
	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
	"github.com/Jtofah/pdsnd-github/internal/interactive"
	"github.com/Jtofah/pdsnd-github/internal/report"
	"github.com/Jtofah/pdsnd-github/pkg/contracts"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// options are the parsed command line flags
type options struct {
	configFile    string
	city          string
	month         string
	day           string
	raw           int
	color         string
	export        string
	exportSummary string
	version       bool
}

// oneShot reports whether a single analysis was requested on the command line
func (o options) oneShot() bool {
	return o.city != ""
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("bikeshare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configFile, "config", "", "path to a YAML config file (defaults to bikeshare.yaml or configs/bikeshare.yaml)")
	fs.StringVar(&o.city, "city", "", "city to analyze; runs a single analysis without prompting")
	fs.StringVar(&o.month, "month", "all", "month filter: all, january ... june")
	fs.StringVar(&o.day, "day", "all", "day filter: all, monday ... sunday")
	fs.IntVar(&o.raw, "raw", 0, "number of 5-row raw data windows to print after the reports")
	fs.StringVar(&o.color, "color", "", "color output: auto, always or never (overrides display.color)")
	fs.StringVar(&o.export, "export", "", "write the filtered trips to a .csv or .xlsx file")
	fs.StringVar(&o.exportSummary, "export-summary", "", "write the report summary to a .csv or .xlsx file")
	fs.BoolVar(&o.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.raw < 0 {
		return o, fmt.Errorf("-raw must not be negative")
	}
	if !o.oneShot() && (o.export != "" || o.exportSummary != "" || o.raw > 0) {
		return o, fmt.Errorf("-raw, -export and -export-summary need -city")
	}
	if o.color != "" {
		if _, err := report.ParseColorMode(o.color); err != nil {
			return o, err
		}
	}
	return o, nil
}

func main() {
	os.Exit(start(os.Args[1:]))
}

// start parses flags, builds the application and runs it
func start(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	if opts.version {
		fmt.Println(contracts.GetFullVersionString())
		return exitOK
	}

	cfg, logger, err := app.Setup(opts.configFile)
	if err != nil {
		slog.Error("Failed to start", "error", err)
		return exitError
	}
	defer infrastructure.CloseLogFile()

	// No /metrics endpoint in the terminal tool
	cfg.Telemetry.MetricExporter = "none"

	a, err := app.New(cfg, logger, app.CLIName)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	defer func() {
		if err := a.Stop(context.Background()); err != nil {
			logger.Error("Shutdown failed", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, a, opts, os.Stdin, os.Stdout)
}

// run executes the requested mode and returns the process exit code
func run(ctx context.Context, a *app.Application, opts options, in io.Reader, out io.Writer) int {
	colorSetting := opts.color
	if colorSetting == "" {
		colorSetting = a.Config.Display.Color
	}
	mode, err := report.ParseColorMode(colorSetting)
	if err != nil {
		fmt.Fprintln(out, err)
		return exitUsage
	}

	printer := report.NewPrinter(out, report.ResolveColors(mode))
	session := interactive.NewSession(a.Loader, report.NewPresenter(printer), a.Metrics, a.Logger)

	if !opts.oneShot() {
		if err := session.Run(ctx, interactive.NewPrompter(in, printer)); err != nil {
			if errors.Is(err, context.Canceled) {
				printer.Blank()
				return exitOK
			}
			printer.Error("%v", err)
			return exitError
		}
		return exitOK
	}

	return analyzeOnce(ctx, a, session, printer, opts)
}

// analyzeOnce runs the single analysis named by the flags
func analyzeOnce(ctx context.Context, a *app.Application, session *interactive.Session, printer *report.Printer, opts options) int {
	ctx = infrastructure.WithTraceID(ctx, infrastructure.GenerateTraceID())

	criteria, err := dataprocessing.ParseCriteria(opts.month, opts.day)
	if err != nil {
		printer.Error("%v", err)
		return exitUsage
	}

	a.Logger.InfoContext(ctx, "Analysis requested",
		slog.String("city", opts.city),
		slog.String("criteria", criteria.String()),
		slog.Int("raw_windows", opts.raw))

	result, err := session.Analyze(ctx, opts.city, criteria)
	if err != nil {
		return exitError
	}
	session.ShowRows(result, opts.raw)

	exp := exporter.NewTripExporter(a.Logger)
	if opts.export != "" {
		n, err := exp.ExportTrips(ctx, opts.export, result.Table)
		if err != nil {
			printer.Error("%v", err)
			return exitError
		}
		printer.Success("Exported %d trips to %s", n, opts.export)
	}
	if opts.exportSummary != "" {
		summary := dataprocessing.Summarize(ctx, result.Table, nil)
		if err := exp.ExportSummary(ctx, opts.exportSummary, summary); err != nil {
			printer.Error("%v", err)
			return exitError
		}
		printer.Success("Exported summary to %s", opts.exportSummary)
	}
	return exitOK
}
