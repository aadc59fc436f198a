package core

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode"
)

// DefaultFormatterTimeout bounds a single formatter invocation
const DefaultFormatterTimeout = 30 * time.Second

// Preprocessor rewrites loaded text before it is stored. Every file in a
// run goes through the same preprocessors, so scores stay comparable.
type Preprocessor interface {
	Name() string
	Process(ctx context.Context, path string, content string) (string, error)
}

// WhitespaceTrimmer removes every Unicode whitespace character, so that
// re-indenting or re-wrapping a copied file does not lower its score.
type WhitespaceTrimmer struct{}

func (WhitespaceTrimmer) Name() string { return "trim" }

// Process implements Preprocessor
func (WhitespaceTrimmer) Process(_ context.Context, _ string, content string) (string, error) {
	return StripWhitespace(content), nil
}

// StripWhitespace returns s without any whitespace runes
func StripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// CommandFormatter pipes each file through an external program (stdin to
// stdout), e.g. "clang-format" or "black -q -". Normalising formatting
// means layout changes alone cannot hide a copy.
type CommandFormatter struct {
	Program string
	Args    []string
	Timeout time.Duration
}

// NewCommandFormatter splits a command line such as "black -q -" into
// program and arguments
func NewCommandFormatter(commandLine string) (*CommandFormatter, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty formatter command")
	}
	if _, err := exec.LookPath(fields[0]); err != nil {
		return nil, fmt.Errorf("formatter %q not found: %w", fields[0], err)
	}
	return &CommandFormatter{
		Program: fields[0],
		Args:    fields[1:],
		Timeout: DefaultFormatterTimeout,
	}, nil
}

func (f *CommandFormatter) Name() string { return "formatter:" + f.Program }

// Process implements Preprocessor
func (f *CommandFormatter) Process(ctx context.Context, path string, content string) (string, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, f.Program, f.Args...)
	cmd.Stdin = strings.NewReader(content)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s on %s: %w: %s", f.Program, path, err, msg)
		}
		return "", fmt.Errorf("%s on %s: %w", f.Program, path, err)
	}
	return stdout.String(), nil
}
