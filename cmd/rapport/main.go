package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tsawler/rapport/batch"
	"github.com/tsawler/rapport/calendar"
	"github.com/tsawler/rapport/config"
)

var version = "0.1.0"

// flags holds the command line values. Zero values mean "use the
// configuration".
type flags struct {
	configPath string
	verbose    bool
	month      int
	year       int
	name       string
	template   string
	output     string
	prefix     string
	workers    int
	headers    bool
	dryRun     bool
}

func main() {
	if err := newRootCmd(os.Stdin).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the rapport command. Missing month and year are read
// from in.
func newRootCmd(in io.Reader) *cobra.Command {
	var (
		f      flags
		cfg    *config.Config
		logger *zap.Logger
	)

	cmd := &cobra.Command{
		Use:   "rapport",
		Short: "Generate the daily activity reports of a month",
		Long: `rapport copies a Word template once per day of a month.

In every copy the date placeholder "Le 01/09/2025" becomes the day's date
and the profile line is rewritten with the configured name. The text keeps
the formatting of the template.

Reports are written to <output>/<Month>_<Year>/. When --month or --year is
not given, it is asked for on the terminal.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(f.configPath); err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if logger, err = newLogger(cfg.Logging, f.verbose); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, in, f, cfg, logger)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", config.DefaultPath, "configuration file")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log debug details")
	fl.IntVarP(&f.month, "month", "m", 0, "target month (1-12)")
	fl.IntVarP(&f.year, "year", "y", 0, fmt.Sprintf("target year (%d-%d)", calendar.MinYear, calendar.MaxYear))
	fl.StringVarP(&f.name, "name", "n", "", "profile name written after the label")
	fl.StringVarP(&f.template, "template", "t", "", "Word template")
	fl.StringVarP(&f.output, "out", "o", "", "base output directory")
	fl.StringVar(&f.prefix, "prefix", "", "report file name prefix")
	fl.IntVarP(&f.workers, "workers", "w", 0, "days generated concurrently")
	fl.BoolVar(&f.headers, "headers", false, "also substitute in headers and footers")
	fl.BoolVar(&f.dryRun, "dry-run", false, "list the reports without writing them")

	return cmd
}

// apply overrides configuration values with the flags that were set.
func (f flags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("name") {
		cfg.Name = f.name
	}
	if changed("template") {
		cfg.Template = f.template
	}
	if changed("out") {
		cfg.Output = f.output
	}
	if changed("prefix") {
		cfg.Prefix = f.prefix
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("headers") {
		cfg.Headers = f.headers
	}
}

func newLogger(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = lc.Encoding
	if lc.Encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func run(cmd *cobra.Command, in io.Reader, f flags, cfg *config.Config, logger *zap.Logger) error {
	out := cmd.OutOrStdout()

	month, year := f.month, f.year
	if !cmd.Flags().Changed("month") || !cmd.Flags().Changed("year") {
		p := newPrompter(in, out)
		var err error
		if !cmd.Flags().Changed("month") {
			if month, err = p.month(); err != nil {
				return err
			}
		}
		if !cmd.Flags().Changed("year") {
			if year, err = p.year(time.Now().Year()); err != nil {
				return err
			}
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	res, err := batch.NewRunner(logger).Run(ctx, batch.Options{
		Template: cfg.Template,
		Output:   cfg.Output,
		Year:     year,
		Month:    month,
		Name:     cfg.Name,
		Prefix:   cfg.Prefix,
		Workers:  cfg.Workers,
		Headers:  cfg.Headers,
		DryRun:   f.dryRun,
	})
	if res != nil {
		printResult(out, res, f.dryRun)
	}
	if err != nil && errors.Is(err, batch.ErrPartial) {
		return fmt.Errorf("%d report(s) could not be written", len(res.Failures))
	}
	return err
}

func printResult(w io.Writer, res *batch.Result, dryRun bool) {
	if dryRun {
		fmt.Fprintf(w, "Would generate %d reports in %s:\n", len(res.Reports), res.Folder)
		for _, rep := range res.Reports {
			fmt.Fprintf(w, "  %s\n", rep.Path)
		}
		return
	}
	fmt.Fprintf(w, "Generated %d reports in %s\n", len(res.Reports), res.Folder)
	for _, fe := range res.Failures {
		fmt.Fprintf(w, "  failed %s\n", fe.Error())
	}
}
