package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rpgo/portfolio-projector/internal/calculation"
	"github.com/rpgo/portfolio-projector/internal/config"
	"github.com/rpgo/portfolio-projector/internal/domain"
	"github.com/rpgo/portfolio-projector/internal/logging"
	"github.com/rpgo/portfolio-projector/internal/output"
	"github.com/rpgo/portfolio-projector/internal/provider"
	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand after configuration is loaded.
type app struct {
	configPath  string
	format      string
	logLevel    string
	outputPath  string
	metricsFile string

	cfg       *config.Configuration
	logger    *logging.Logger
	projector *calculation.Projector
	registry  *prometheus.Registry
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "projector",
		Short:         "Monte Carlo portfolio projections and retirement goal planning",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to YAML configuration")
	flags.StringVarP(&a.format, "format", "f", "console", "output format (console, json, csv, finals-csv)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVarP(&a.outputPath, "output", "o", "", "write the report to this file instead of stdout")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format on exit")

	root.AddCommand(
		newProjectCmd(a),
		newScenariosCmd(a),
		newFireCmd(a),
		newSavingsCmd(a),
		newHistoryCmd(a),
		newExampleConfigCmd(a),
	)
	return root, a
}

// execute runs the command tree. Metrics are written and the logger closed
// whether or not the command fails.
func execute(ctx context.Context, root *cobra.Command, a *app) error {
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.teardown())
}

func (a *app) setup(cmd *cobra.Command) error {
	parser := config.NewInputParser()
	if a.configPath == "" {
		a.cfg = config.DefaultConfiguration()
	} else {
		cfg, err := parser.LoadFromFile(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}

	lc := a.cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	a.logger = logging.New(lc)

	a.projector = calculation.NewProjector(a.cfg.MarketProvider(a.logger))
	a.projector.SetLogger(a.logger)
	a.projector.SetCacheTTL(a.cfg.CacheTTL)

	a.registry = prometheus.NewRegistry()
	a.projector.SetMetrics(calculation.NewMetrics(a.registry))
	return nil
}

func (a *app) teardown() error {
	if a.metricsFile != "" && a.registry != nil {
		if err := prometheus.WriteToTextfile(a.metricsFile, a.registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	if a.logger != nil {
		return a.logger.Close()
	}
	return nil
}

// emit renders report in the selected format to stdout or --output.
func (a *app) emit(cmd *cobra.Command, report *output.Report) error {
	report.Currency = a.cfg.Currency
	report.GeneratedAt = time.Now().UTC()

	var w io.Writer = cmd.OutOrStdout()
	if a.outputPath != "" {
		file, err := os.Create(a.outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}
	return output.GenerateReport(w, report, a.format)
}

// history loads the return series from path, or the configured history file.
func (a *app) history(path string) (domain.ReturnSeries, error) {
	if path == "" {
		path = a.cfg.HistoryFile
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no history file given (use --history or history_file)", calculation.ErrInvalidInput)
	}
	return provider.LoadReturnSeriesCSV(path)
}

// seed returns the --seed flag when set, else the configured seed.
func (a *app) seed(cmd *cobra.Command, flagValue int64) *int64 {
	if cmd.Flags().Changed("seed") {
		return &flagValue
	}
	return a.cfg.Simulation.Seed
}

func optionalFloat(cmd *cobra.Command, name string, value float64) *float64 {
	if cmd.Flags().Changed(name) {
		return &value
	}
	return nil
}
