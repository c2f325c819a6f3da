package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"goadf/adapters/stats/adf"
	"goadf/adapters/stats/mackinnon"
	"goadf/app"
	"goadf/domain/core"
	"goadf/domain/stationarity"
	"goadf/internal/config"
	"goadf/internal/errors"
	"goadf/internal/logging"
	"goadf/internal/profiling"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries state shared by subcommands, built in PersistentPreRunE
type cli struct {
	out      io.Writer
	logLevel string
	cfg      *config.Config
	logger   *zap.Logger
	service  *app.StationarityService
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	rootCmd := &cobra.Command{
		Use:           "adf",
		Short:         "Augmented Dickey-Fuller stationarity tests",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides ADF_LOG_LEVEL")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	})

	rootCmd.AddCommand(
		newTestCmd(c),
		newBatchCmd(c),
		newCriticalValuesCmd(c),
	)
	return rootCmd
}

func (c *cli) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return errors.InternalError(err.Error())
	}

	defaults, err := cfg.Test.Stationarity()
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	c.service = app.NewStationarityService(adf.NewTester(), profiling.NewSeriesProfiler(), defaults, cfg.Batch.MaxConcurrent, logger)
	return nil
}

func (c *cli) writeJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// testFlags are the per-call overrides of the configured test defaults
type testFlags struct {
	regression   string
	method       string
	maxLags      int
	significance float64
	missing      string
	summary      bool
}

func (f *testFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.regression, "regression", "", "Deterministic terms: n, c or ct")
	cmd.Flags().StringVar(&f.method, "method", "", "Lag selection: fixed, aic, bic or t-stat")
	cmd.Flags().IntVar(&f.maxLags, "max-lags", 0, "Maximum candidate lag (exact lag for fixed)")
	cmd.Flags().Float64Var(&f.significance, "significance", 0, "Significance level: 0.01, 0.05 or 0.10")
	cmd.Flags().StringVar(&f.missing, "missing", "", "NaN handling: drop or reject")
	cmd.Flags().BoolVar(&f.summary, "summary", false, "Include a descriptive summary of each series")
}

// resolve applies the flags the user set on top of base
func (f *testFlags) resolve(cmd *cobra.Command, base stationarity.Config) (stationarity.Config, error) {
	cfg := base
	var err error
	if cmd.Flags().Changed("regression") {
		if cfg.Regression, err = stationarity.ParseRegression(f.regression); err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("method") {
		if cfg.Lag.Method, err = stationarity.ParseLagMethod(f.method); err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("max-lags") {
		cfg.Lag.Lags = f.maxLags
	}
	if cmd.Flags().Changed("significance") {
		if cfg.Significance, err = stationarity.ParseSignificance(f.significance); err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("missing") {
		if cfg.Missing, err = stationarity.ParseMissingPolicy(f.missing); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

func newTestCmd(c *cli) *cobra.Command {
	var flags testFlags
	var values string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run an ADF test on one series",
		Long: `Run an Augmented Dickey-Fuller test on one series and print the result as JSON.

Values are given with --values as a comma-separated list.

Example: adf test --values -1.2,0.8,1.5,... --regression ct --method bic --max-lags 8`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return core.NewConfigError("values", fmt.Sprintf("unexpected argument %q; pass observations with --values", args[0]))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := parseValues(values)
			if err != nil {
				return err
			}

			cfg, err := flags.resolve(cmd, c.service.Defaults())
			if err != nil {
				return err
			}

			outcome, err := c.service.Test(cmd.Context(), app.TestRequest{
				Series:         series,
				Config:         &cfg,
				IncludeSummary: flags.summary,
			})
			if err != nil {
				return err
			}
			return c.writeJSON(outcome)
		},
	}

	cmd.Flags().StringVar(&values, "values", "", "Comma-separated observations (NaN marks a missing value)")
	flags.register(cmd)
	return cmd
}

func newBatchCmd(c *cli) *cobra.Command {
	var flags testFlags
	var entries []string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run ADF tests on several named series",
		Long: `Run one ADF test per named series concurrently and print all outcomes as JSON.
A failing series is reported in its outcome and does not stop the batch.

Example: adf batch --series prices=101,102,... --series returns=0.1,-0.3,... --regression c`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(entries) == 0 {
				return core.NewConfigError("series", "at least one --series name=v1,v2,... is required")
			}
			input := make(map[core.SeriesKey][]float64, len(entries))
			for _, entry := range entries {
				name, series, err := parseNamedSeries(entry)
				if err != nil {
					return err
				}
				if _, dup := input[name]; dup {
					return core.NewConfigError("series", fmt.Sprintf("duplicate series name %q", name))
				}
				input[name] = series
			}

			cfg, err := flags.resolve(cmd, c.service.Defaults())
			if err != nil {
				return err
			}

			result, err := c.service.BatchTest(cmd.Context(), app.BatchRequest{
				Series:         input,
				Config:         &cfg,
				IncludeSummary: flags.summary,
			})
			if err != nil {
				return err
			}
			return c.writeJSON(result)
		},
	}

	cmd.Flags().StringArrayVar(&entries, "series", nil, "Named series as name=v1,v2,... (repeatable)")
	flags.register(cmd)
	return cmd
}

func newCriticalValuesCmd(c *cli) *cobra.Command {
	var regression string

	cmd := &cobra.Command{
		Use:   "critical-values",
		Short: "Print asymptotic critical values for a regression variant",
		RunE: func(cmd *cobra.Command, args []string) error {
			regs := stationarity.Regressions
			if regression != "" {
				reg, err := stationarity.ParseRegression(regression)
				if err != nil {
					return err
				}
				regs = []stationarity.Regression{reg}
			}

			out := make(map[string]stationarity.CriticalValues, len(regs))
			for _, reg := range regs {
				cv, err := mackinnon.CriticalValues(reg)
				if err != nil {
					return err
				}
				out[reg.String()] = cv
			}
			return c.writeJSON(out)
		},
	}

	cmd.Flags().StringVar(&regression, "regression", "", "Regression variant (n, c, ct); all when empty")
	return cmd
}

// parseValues splits a comma- or whitespace-separated list of numbers
func parseValues(raw string) ([]float64, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, core.NewInsufficientDataError(0, stationarity.MinObservations)
	}

	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, core.NewConfigError("values", fmt.Sprintf("entry %d (%q) is not a number", i, f))
		}
		values[i] = v
	}
	return values, nil
}

// parseNamedSeries parses "name=v1,v2,..."
func parseNamedSeries(entry string) (core.SeriesKey, []float64, error) {
	name, raw, ok := strings.Cut(entry, "=")
	if !ok {
		return "", nil, core.NewConfigError("series", fmt.Sprintf("%q is not of the form name=v1,v2,...", entry))
	}
	key, err := core.ParseSeriesKey(name)
	if err != nil {
		return "", nil, core.NewConfigError("series", err.Error())
	}
	values, err := parseValues(raw)
	if err != nil {
		return "", nil, err
	}
	return key, values, nil
}
