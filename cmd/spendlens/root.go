package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/spendlens/config"
	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/helpers"
	"github.com/spektr-org/spendlens/logging"
)

// ============================================================================
// SPENDLENS CLI — cost & usage insights from the terminal
// ============================================================================

const version = "0.3.0"

type app struct {
	configPath string
	format     string
	outFile    string

	manager *config.Manager
	cfg     *config.Config
	log     *zap.Logger

	stdout io.Writer
	stderr io.Writer
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{stdout: out, stderr: errOut}

	cmd := &cobra.Command{
		Use:   "spendlens",
		Short: "Cost & usage insights: drivers, anomalies and narrative summaries",
		Long: `spendlens compares two time windows of daily spend, ranks what drove the
change, flags anomalous days and writes a short insight report.

Data comes from a CSV or JSON file (--file) or from the built-in synthetic
generator (--seed, --scenario, --days, --end).`,
		Example: `  spendlens dashboard --scenario spike --end 2026-01-19 --format pretty
  spendlens drivers --file usage.csv --group-by region --format csv --out drivers.csv
  spendlens anomalies --all-entities --z 2
  spendlens report --qtd --as-of 2026-02-15
  spendlens serve --config spendlens.yaml`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           version,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&a.format, "format", "json", "output format: json, pretty, yaml, text, csv")
	pf.StringVar(&a.outFile, "out", "", "write output to file instead of stdout")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("file", "", "CSV or JSON dataset (default: synthetic data)")
	pf.Uint32("seed", 42, "synthetic data seed")
	pf.String("scenario", "baseline", "synthetic scenario: baseline, spike, regional-expansion, optimization-win")
	pf.Int("days", 60, "synthetic data length in days")
	pf.String("end", "", "synthetic data end date YYYY-MM-DD (default: today)")

	cmd.AddCommand(
		newGenerateCmd(a),
		newDashboardCmd(a),
		newDriversCmd(a),
		newAnomaliesCmd(a),
		newReportCmd(a),
		newDescribeCmd(a),
		newServeCmd(a),
		newAskCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

// setup loads config with flags layered on top, then builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.manager = config.NewManager(a.configPath)
	v := a.manager.Viper()
	bindings := map[string]string{
		"logging.level": "log-level",
		"data.seed":     "seed",
		"data.scenario": "scenario",
		"data.days":     "days",
		"data.end_date": "end",
		"data.path":     "file",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	if f := cmd.Flags().Lookup("file"); f != nil && f.Changed {
		v.Set("data.source", config.SourceFile)
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		v.Set("server.addr", f.Value.String())
	}

	cfg, err := a.manager.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) dataset() (*helpers.Dataset, error) {
	ds, err := helpers.LoadDataset(a.cfg.Data)
	if err != nil {
		return nil, err
	}
	fields := []zap.Field{zap.String("dataset", ds.Name), zap.Int("records", len(ds.Rows))}
	if ds.Report != nil && ds.Report.Skipped > 0 {
		fields = append(fields, zap.Int("skipped", ds.Report.Skipped), zap.Any("reasons", ds.Report.Reasons))
	}
	a.log.Debug("loaded dataset", fields...)
	return ds, nil
}

func (a *app) engineOptions(extra ...engine.Option) []engine.Option {
	opts := []engine.Option{
		engine.WithLogger(a.log),
	}
	return append(opts, extra...)
}

// output opens --out or returns stdout. The close func is never nil.
func (a *app) output() (io.Writer, func() error, error) {
	if a.outFile == "" {
		return a.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(a.outFile)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

// emit renders v in the selected format. text and csv fall back to JSON
// when the command has no dedicated renderer for them.
func (a *app) emit(v interface{}, text func(io.Writer) error, csv func(io.Writer) error) error {
	w, closeFn, err := a.output()
	if err != nil {
		return err
	}
	switch a.format {
	case "text":
		if text != nil {
			err = text(w)
			break
		}
		err = writeJSON(w, v, true)
	case "csv":
		if csv != nil {
			err = csv(w)
			break
		}
		err = writeJSON(w, v, true)
	case "yaml":
		err = writeYAML(w, v)
	case "pretty":
		err = writeJSON(w, v, true)
	case "json", "":
		err = writeJSON(w, v, false)
	default:
		err = fmt.Errorf("unknown format %q (want json, pretty, yaml, text or csv)", a.format)
	}
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	if err == nil && a.outFile != "" {
		a.log.Info("output written", zap.String("path", a.outFile), zap.String("format", a.format))
	}
	return err
}
