package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/cheatcheck/internal/config"
	"github.com/standardbeagle/cheatcheck/internal/core"
	"github.com/standardbeagle/cheatcheck/internal/debug"
	"github.com/standardbeagle/cheatcheck/internal/engine"
	ccerrors "github.com/standardbeagle/cheatcheck/internal/errors"
	"github.com/standardbeagle/cheatcheck/internal/report"
	"github.com/standardbeagle/cheatcheck/internal/types"
)

// loadConfigWithOverrides loads configuration files and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("sensitivity") {
		cfg.Compare.Sensitivity = c.Float64("sensitivity")
	}
	if c.IsSet("max-sensitivity") {
		cfg.Compare.MaxSensitivity = c.Float64("max-sensitivity")
	}
	if c.Bool("damerau") {
		cfg.Compare.Metric = types.MetricDamerauLevenshtein
	}
	if c.IsSet("jobs") {
		cfg.Performance.Jobs = c.Int("jobs")
	}
	if c.Bool("trim") {
		cfg.Preprocess.Trim = true
	}
	if c.IsSet("template") {
		cfg.Preprocess.Template = c.String("template")
	}
	if c.IsSet("formatter") {
		cfg.Preprocess.Formatter = c.String("formatter")
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.AddExclusions(excludes...)
	}
	if c.IsSet("log") {
		cfg.Output.LogFile = c.String("log")
	}
	if c.IsSet("precision") {
		cfg.Output.Precision = c.Int("precision")
	}
	if c.Bool("no-color") {
		cfg.Output.Color = false
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	cfg.Input.Patterns = c.Args().Slice()

	if err := config.NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkCommand runs a full comparison: resolve, load, score, report
func checkCommand(c *cli.Context, stdout, stderr io.Writer) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		return cli.ShowAppHelp(c)
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	debug.SetDebugOutput(stderr)
	debug.SetVerbose(cfg.Output.Verbose)
	defer debug.SetVerbose(false)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := loadSubmissions(ctx, cfg, stderr)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	scorer, err := engine.NewScorer(cfg.Compare.Metric)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	eng, csvLog, err := prepareRun(store, cfg, scorer, stdout)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	result, err := eng.Run(ctx)
	if result == nil || errors.Is(err, context.Canceled) {
		if csvLog != nil {
			if abortErr := csvLog.Abort(); abortErr != nil {
				debug.LogReport("removing unfinished log: %v\n", abortErr)
			}
		}
		if err == nil {
			err = errors.New("comparison did not run")
		}
		return cli.Exit(err.Error(), exitFailure)
	}

	fmt.Fprintf(stderr, "Compared %d pairs in %v, %d within [%s, %s].\n",
		result.Pairs, result.Duration.Round(time.Millisecond), result.Reported,
		formatBound(cfg.Compare.Sensitivity), formatBound(cfg.Compare.MaxSensitivity))

	if err != nil {
		var logErr *ccerrors.LogWriteError
		if errors.As(err, &logErr) {
			log.Printf("WARNING: %v", logErr)
		}
		for _, f := range result.Failures {
			log.Printf("WARNING: %v", f)
		}
		if len(result.Failures) > 0 {
			return cli.Exit(fmt.Sprintf("%d of %d comparisons failed", len(result.Failures), result.Pairs), exitPartial)
		}
	}
	return nil
}

// loadSubmissions resolves the input patterns and loads every usable file.
// Per-pattern and per-file problems are warnings; ending up with fewer than
// two files is an error.
func loadSubmissions(ctx context.Context, cfg *config.Config, stderr io.Writer) (*core.ContentStore, error) {
	resolution := core.NewFileResolver(cfg.Exclude).Resolve(cfg.Input.Patterns)
	for _, w := range resolution.Warnings {
		log.Printf("WARNING: %v", w)
	}
	for _, path := range resolution.Excluded {
		debug.LogLoad("excluded %s\n", path)
	}
	if len(resolution.Files) < types.MinFilesToCompare {
		return nil, ccerrors.NewInsufficientInputError(len(resolution.Files))
	}

	var preprocessors []core.Preprocessor
	if cfg.Preprocess.Formatter != "" {
		formatter, err := core.NewCommandFormatter(cfg.Preprocess.Formatter)
		if err != nil {
			return nil, err
		}
		preprocessors = append(preprocessors, formatter)
	}
	if cfg.Preprocess.Trim {
		preprocessors = append(preprocessors, core.WhitespaceTrimmer{})
	}

	loader := core.NewFileLoader(core.FileLoaderOptions{
		MaxFileSize:   cfg.Input.MaxFileSize,
		SkipBinary:    cfg.Input.SkipBinary,
		Preprocessors: preprocessors,
	})
	if cfg.Preprocess.Template != "" {
		if err := loader.SetTemplate(ctx, cfg.Preprocess.Template); err != nil {
			return nil, fmt.Errorf("template: %w", err)
		}
	}

	loaded, err := loader.LoadFiles(ctx, resolution.Files)
	if err != nil {
		return nil, err
	}
	for _, f := range loaded.Failed {
		log.Printf("WARNING: skipping file: %v", f)
	}
	if len(loaded.Templated) > 0 {
		fmt.Fprintf(stderr, "Skipped %d files identical to the template.\n", len(loaded.Templated))
	}

	n := loaded.Store.Len()
	fmt.Fprintf(stderr, "Got %d files to compare.\n", n)
	debug.LogLoad("loaded %d files, %d bytes\n", n, loaded.Store.TotalBytes())
	if n < types.MinFilesToCompare {
		return nil, ccerrors.NewInsufficientInputError(n)
	}
	return loaded.Store, nil
}

// prepareRun opens the score log, if any, and builds the engine around it.
// The log is removed again when the engine cannot be built.
func prepareRun(store *core.ContentStore, cfg *config.Config, scorer engine.Scorer, stdout io.Writer) (*engine.Engine, *report.CSVLog, error) {
	var csvLog *report.CSVLog
	opts := engine.Options{
		Workers:        cfg.Performance.Jobs,
		Sensitivity:    cfg.Compare.Sensitivity,
		MaxSensitivity: cfg.Compare.MaxSensitivity,
		Scorer:         scorer,
		Reporter:       report.NewLiveReporter(stdout, useColor(cfg, stdout)),
	}
	if cfg.Output.LogFile != "" {
		var err error
		csvLog, err = report.OpenCSVLog(cfg.Output.LogFile, cfg.Output.Precision)
		if err != nil {
			log.Printf("WARNING: continuing without a log file: %v", err)
			csvLog = nil
		} else {
			opts.Log = csvLog
		}
	}

	eng, err := engine.New(store, opts)
	if err != nil {
		if csvLog != nil {
			if abortErr := csvLog.Abort(); abortErr != nil {
				debug.LogReport("removing unused log: %v\n", abortErr)
			}
		}
		return nil, nil, err
	}
	return eng, csvLog, nil
}

func useColor(cfg *config.Config, stdout io.Writer) bool {
	return cfg.Output.Color && stdout == io.Writer(os.Stdout) && !color.NoColor
}

func formatBound(v float64) string {
	if v > 1.0 {
		return "∞"
	}
	return fmt.Sprintf("%.3f", v)
}
