// Package main is the entry point for the cpx application.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/cpx/internal/config"
	"github.com/joe/cpx/internal/copyengine"
	"github.com/joe/cpx/internal/progress"
	pkgerrors "github.com/joe/cpx/pkg/errors"
	"github.com/joe/cpx/pkg/filesystem"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args, stdout, stderr)

	switch {
	case errors.Is(err, config.ErrHelp), errors.Is(err, config.ErrVersion):
		return exitOK
	case err != nil:
		return exitFailure
	}

	_, noColor := os.LookupEnv("NO_COLOR")
	styles := progress.NewStyles(stdout, cfg.Color.Enabled(isTerminal(stdout), noColor))
	errStyles := progress.NewStyles(stderr, cfg.Color.Enabled(isTerminal(stderr), noColor))

	logger := newLogger(stderr, cfg.Color.Enabled(isTerminal(stderr), noColor), cfg.Verbose)
	ctx := logger.WithContext(context.Background())

	srcFS, dstFS, srcPath, dstPath, closer, err := filesystem.CreateFileSystemPair(cfg.Source, cfg.Dest)
	if err != nil {
		return fail(stderr, errStyles, err, "")
	}
	defer closer()

	out := bufio.NewWriter(stdout)
	defer func() {
		_ = out.Flush()
	}()

	engine := copyengine.NewEngine(srcFS, dstFS, cfg.EngineOptions())
	engine.SetReporter(progress.NewRenderer(out, styles))

	result, err := engine.Run(ctx, srcPath, dstPath)
	if err != nil {
		_ = out.Flush()

		affected := srcPath
		if errors.Is(err, copyengine.ErrDestinationRoot) {
			affected = dstPath
		}

		return fail(stderr, errStyles, err, affected)
	}

	if result.Failures > 0 {
		logger.Warn().
			Int("failures", result.Failures).
			Uint64("copied", result.Copied).
			Uint64("total", result.Total).
			Msg("some entries were not copied")
	}

	return exitOK
}

// fail prints a fatal error headline followed by suggestions.
func fail(stderr io.Writer, styles progress.Styles, err error, affectedPath string) int {
	enriched := pkgerrors.NewEnricher().Enrich(err, affectedPath)

	_, _ = fmt.Fprintln(stderr, styles.Error(config.ProgramName+": "+err.Error()))

	if suggestions := pkgerrors.FormatSuggestions(enriched); suggestions != "" {
		_, _ = fmt.Fprintln(stderr, suggestions)
	}

	return exitFailure
}

// newLogger returns the diagnostics logger. Per-entry errors are always shown;
// verbose mode adds scan and copy milestones.
func newLogger(w io.Writer, color, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      !color,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}

	return zerolog.New(console).Level(level)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
