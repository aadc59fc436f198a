package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/cheatcheck/internal/version"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1 // configuration error, too few files, interrupted run
	exitPartial = 2 // some pairs could not be scored
)

func init() {
	// -v is --verbose, so the version flag gets no short alias
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, version.FullInfo())
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:  "cheatcheck",
		Usage: "Find suspiciously similar files by pairwise edit distance",
		UsageText: "cheatcheck -s SENSITIVITY [options] FILE...\n\n" +
			"   FILE may be a path or a glob pattern (quote it to use ** recursion).",
		Version:                version.Info(),
		UseShortOptionHandling: true,
		HideHelpCommand:        true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		// main decides the process exit code
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:    "sensitivity",
				Aliases: []string{"s"},
				Usage:   "lowest score reported as suspicious, 0.0 to 1.0 (required here or in a config file)",
			},
			&cli.Float64Flag{
				Name:    "max-sensitivity",
				Aliases: []string{"m"},
				Usage:   "highest score reported; the log always has every pair",
				Value:   2.0,
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "number of comparison workers, 0 = one per CPU",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "show debug information",
			},
			&cli.StringFlag{
				Name:    "log",
				Aliases: []string{"l"},
				Usage:   "write every pair's score, highest first, to this CSV file",
			},
			&cli.BoolFlag{
				Name:    "damerau",
				Aliases: []string{"D"},
				Usage:   "count adjacent transpositions as one edit (10-20x slower)",
			},
			&cli.BoolFlag{
				Name:    "trim",
				Aliases: []string{"t"},
				Usage:   "remove all whitespace before comparing",
			},
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"T"},
				Usage:   "skip files identical to this starter file",
			},
			&cli.StringFlag{
				Name:    "formatter",
				Aliases: []string{"f"},
				Usage:   "pipe every file through this command before comparing (e.g. 'clang-format')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "skip files matching a glob pattern (repeatable, e.g. --exclude '**/*_test.go')",
			},
			&cli.IntFlag{
				Name:  "precision",
				Usage: "digits after the decimal point in the log file (0-17)",
				Value: 6,
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "do not highlight scores",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (.kdl or .toml); default looks for .cheatcheck.kdl in ~ and the current directory",
			},
		},
		Action: func(c *cli.Context) error {
			return checkCommand(c, stdout, stderr)
		},
	}
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	err := app.Run(os.Args)
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode prints err and maps it to the process exit status
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(stderr, "Error: %s\n", msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintf(stderr, "Fatal error: %v\n", err)
	return exitFailure
}
