package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/helpers"
	"github.com/spektr-org/spendlens/schema"
	"github.com/spektr-org/spendlens/server"
	"github.com/spektr-org/spendlens/translator"
)

// ============================================================================
// SHARED ANALYSIS FLAGS
// ============================================================================

func addQueryFlags(cmd *cobra.Command, q *helpers.Query) {
	f := cmd.Flags()
	f.IntVar(&q.Range, "range", 0, "rolling window length in days (default from config)")
	f.BoolVar(&q.QTD, "qtd", false, "quarter-to-date vs the same elapsed days of the prior quarter")
	f.StringVar(&q.End, "as-of", "", "rolling end or QTD as-of date (default: latest date in data)")
	f.StringVar(&q.Current, "current", "", "explicit current window start..end")
	f.StringVar(&q.Previous, "previous", "", "explicit previous window start..end")
	f.StringVar(&q.GroupBy, "group-by", "", "driver dimension: category, region, entity")
	f.StringVar(&q.Region, "region", "", "only this region")
	f.StringSliceVar(&q.Category, "category", nil, "only these categories (repeatable)")
	f.StringSliceVar(&q.Entity, "entity", nil, "only these entity IDs (repeatable)")
	f.Float64Var(&q.Z, "z", 0, "anomaly z-score threshold (default from config)")
}

func (a *app) buildModel(q helpers.Query, extra ...engine.Option) (*engine.DashboardModel, error) {
	params, err := q.WithDefaults(a.cfg.Analysis).Params()
	if err != nil {
		return nil, err
	}
	ds, err := a.dataset()
	if err != nil {
		return nil, err
	}
	return engine.BuildDashboardModel(ds.Rows, params, a.engineOptions(extra...)...)
}

// ============================================================================
// COMMANDS
// ============================================================================

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Emit the dataset (synthetic or loaded) as records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := a.dataset()
			if err != nil {
				return err
			}
			return a.emit(ds.Rows,
				func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "%s records from %s, total %s\n",
						engine.FormatInt(len(ds.Rows)), ds.Name,
						engine.FormatUSD(engine.SumCost(engine.NewSliceView(ds.Rows))))
					return err
				},
				func(w io.Writer) error { return helpers.WriteCSV(w, ds.Rows) })
		},
	}
}

func newDashboardCmd(a *app) *cobra.Command {
	var q helpers.Query
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Build the full dashboard model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.buildModel(q)
			if err != nil {
				return err
			}
			return a.emit(m,
				writeString(m.Summary),
				func(w io.Writer) error { return writeTableCSV(w, engine.BuildDriverTable(m)) })
		},
	}
	addQueryFlags(cmd, &q)
	return cmd
}

func newDriversCmd(a *app) *cobra.Command {
	var q helpers.Query
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "Rank groups by change between the two windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.buildModel(q)
			if err != nil {
				return err
			}
			table := engine.BuildDriverTable(m)
			return a.emit(m.Drivers,
				func(w io.Writer) error { return writeTableText(w, table) },
				func(w io.Writer) error { return writeTableCSV(w, table) })
		},
	}
	addQueryFlags(cmd, &q)
	return cmd
}

func newAnomaliesCmd(a *app) *cobra.Command {
	var (
		q        helpers.Query
		orderStr string
		all      bool
	)
	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "Detect anomalous days in the current window, per entity, or for every entity",
		Long: `Without --all-entities, anomalies are computed over the daily totals of the
current window after filtering. With a single --entity and --history, the
entity's whole history is scanned. --all-entities scans every entity's history
concurrently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order, err := engine.ParseAnomalyOrder(orderStr)
			if err != nil {
				return err
			}
			if all {
				return a.runAllEntityAnomalies(cmd.Context(), q)
			}
			if history, _ := cmd.Flags().GetBool("history"); history {
				return a.runEntityAnomalies(cmd.Context(), q, order)
			}
			m, err := a.buildModel(q, engine.WithAnomalyOrder(order))
			if err != nil {
				return err
			}
			return a.emit(m.Anomalies,
				func(w io.Writer) error { return writeAnomaliesText(w, m.Anomalies) },
				func(w io.Writer) error { return writeAnomaliesCSV(w, nil, m.Anomalies) })
		},
	}
	addQueryFlags(cmd, &q)
	cmd.Flags().StringVar(&orderStr, "order", "magnitude", "result order: magnitude or date")
	cmd.Flags().BoolVar(&all, "all-entities", false, "scan every entity's full history")
	cmd.Flags().Bool("history", false, "scan the full history of the single --entity")
	return cmd
}

func (a *app) runEntityAnomalies(ctx context.Context, q helpers.Query, order engine.AnomalyOrder) error {
	if len(q.Entity) != 1 {
		return fmt.Errorf("--history needs exactly one --entity")
	}
	q = q.WithDefaults(a.cfg.Analysis)
	ds, err := a.dataset()
	if err != nil {
		return err
	}
	points, err := engine.DetectEntityAnomalies(ctx, ds.Rows, q.Entity[0], q.Z, order)
	if err != nil {
		return err
	}
	return a.emit(points,
		func(w io.Writer) error { return writeAnomaliesText(w, points) },
		func(w io.Writer) error { return writeAnomaliesCSV(w, nil, points) })
}

func (a *app) runAllEntityAnomalies(ctx context.Context, q helpers.Query) error {
	q = q.WithDefaults(a.cfg.Analysis)
	ds, err := a.dataset()
	if err != nil {
		return err
	}
	byEntity, err := engine.DetectAllEntityAnomalies(ctx, ds.Rows, q.Z)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(byEntity))
	for id := range byEntity {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var (
		flat   []engine.AnomalyPoint
		owners []string
	)
	for _, id := range ids {
		for _, p := range byEntity[id] {
			flat = append(flat, p)
			owners = append(owners, id)
		}
	}
	a.log.Debug("entity anomalies", zap.Int("entities", len(ids)), zap.Int("points", len(flat)))

	return a.emit(byEntity,
		func(w io.Writer) error {
			if len(ids) == 0 {
				_, err := fmt.Fprintln(w, "No anomalies detected.")
				return err
			}
			for _, id := range ids {
				fmt.Fprintf(w, "%s\n", id)
				if err := writeAnomaliesText(w, byEntity[id]); err != nil {
					return err
				}
			}
			return nil
		},
		func(w io.Writer) error {
			return writeAnomaliesCSV(w, func(i int) string { return owners[i] }, flat)
		})
}

func newReportCmd(a *app) *cobra.Command {
	var q helpers.Query
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the markdown insight report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.buildModel(q)
			if err != nil {
				return err
			}
			w, closeFn, err := a.output()
			if err != nil {
				return err
			}
			if _, err := io.WriteString(w, m.Summary); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	addQueryFlags(cmd, &q)
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Describe the dataset's dimensions, date span and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := a.dataset()
			if err != nil {
				return err
			}
			cfg := ds.Describe()
			return a.emit(cfg, func(w io.Writer) error {
				fmt.Fprintf(w, "%s: %s\n", cfg.Name, cfg.Description)
				for _, d := range cfg.Dimensions {
					fmt.Fprintf(w, "  %-10s %d values (%s)\n", d.Key, d.Cardinality, d.CardinalityHint)
				}
				_, err := fmt.Fprintf(w, "  total      %s\n", engine.FormatUSD(cfg.TotalCost))
				return err
			}, nil)
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := a.dataset()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(a.cfg.Server, a.cfg.Analysis, ds, a.log).Run(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from config)")
	return cmd
}

// askOutput is the JSON shape of the ask command.
type askOutput struct {
	Question       string                    `json:"question" yaml:"question"`
	Interpretation translator.Interpretation `json:"interpretation" yaml:"interpretation"`
	QuerySpec      translator.QuerySpec      `json:"querySpec" yaml:"querySpec"`
	Result         interface{}               `json:"result" yaml:"result"`
}

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Answer a natural-language question (needs a Gemini API key)",
		Long: `ask sends the dataset description (never the rows) and the question to
Gemini, which picks the command, windows, grouping and filters. The analysis
itself runs locally.

The API key comes from translator.api_key, SPENDLENS_TRANSLATOR_API_KEY or
GEMINI_API_KEY.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tcfg := a.cfg.Translator
			if tcfg.APIKey == "" {
				tcfg.APIKey = os.Getenv("GEMINI_API_KEY")
			}
			if tcfg.APIKey == "" {
				return fmt.Errorf("a Gemini API key is required for ask")
			}
			ds, err := a.dataset()
			if err != nil {
				return err
			}

			t := translator.NewGemini(translator.Config{
				APIKey:   tcfg.APIKey,
				Model:    tcfg.Model,
				Endpoint: tcfg.Endpoint,
			}, a.log)
			res, err := t.Translate(cmd.Context(), args[0], schema.Describe(ds.Name, ds.Rows))
			if err != nil {
				return err
			}

			params, err := res.QuerySpec.Query().WithDefaults(a.cfg.Analysis).Params()
			if err != nil {
				return err
			}
			m, err := engine.BuildDashboardModel(ds.Rows, params, a.engineOptions()...)
			if err != nil {
				return err
			}

			out := askOutput{
				Question:       args[0],
				Interpretation: res.Interpretation,
				QuerySpec:      res.QuerySpec,
			}
			var text func(io.Writer) error
			switch res.QuerySpec.Command {
			case translator.CommandDrivers:
				out.Result = m.Drivers
				text = func(w io.Writer) error { return writeTableText(w, engine.BuildDriverTable(m)) }
			case translator.CommandAnomalies:
				out.Result = m.Anomalies
				text = func(w io.Writer) error { return writeAnomaliesText(w, m.Anomalies) }
			case translator.CommandReport:
				out.Result = m.Summary
				text = writeString(m.Summary)
			default:
				out.Result = m
				text = writeString(m.Summary)
			}
			return a.emit(out, func(w io.Writer) error {
				fmt.Fprintf(w, "%s (confidence %.0f%%)\n\n", res.Interpretation.Summary, res.Interpretation.Confidence*100)
				return text(w)
			}, nil)
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.stdout, "spendlens %s\n", version)
			return err
		},
	}
}
