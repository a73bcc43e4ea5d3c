// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/joe/cpx/internal/copyengine"
	"github.com/joe/cpx/pkg/filesystem"
)

// ProgramName is the name shown in usage and version output.
const ProgramName = "cpx"

// Exported variables.
var (
	ErrHelp         = errors.New("help requested")
	ErrVersion      = errors.New("version requested")
	ErrInvalidGlob  = errors.New("invalid include pattern")
	ErrEmptyPath    = errors.New("path must not be empty")
	ErrInvalidColor = errors.New("invalid color mode")
)

// ColorMode controls ANSI styling of stdout and stderr.
type ColorMode int

const (
	// ColorAuto styles output only when it goes to a terminal and NO_COLOR is unset
	ColorAuto ColorMode = iota
	// ColorAlways styles output unconditionally
	ColorAlways
	// ColorNever disables styling
	ColorNever
)

// String returns the string representation of ColorMode
func (m ColorMode) String() string {
	switch m {
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseColorMode parses a string into a ColorMode
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return ColorAuto, nil
	case "always", "yes", "force":
		return ColorAlways, nil
	case "never", "no", "none":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("%w: %s (valid: auto, always, never)", ErrInvalidColor, s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (m *ColorMode) UnmarshalText(text []byte) error {
	parsed, err := ParseColorMode(string(text))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// Enabled resolves the mode for one output stream.
func (m ColorMode) Enabled(isTerminal, noColorSet bool) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal && !noColorSet
	}
}

// Config holds the application configuration
type Config struct {
	Source        string    `arg:"positional,required" placeholder:"SOURCE" help:"file or directory to copy (local path or sftp://user@host[:port]/path)"`
	Dest          string    `arg:"positional,required" placeholder:"DEST" help:"destination path; a directory source is copied into DEST/<name>"`
	Include       string    `arg:"--include" placeholder:"GLOB" help:"only copy regular files whose path relative to SOURCE matches GLOB (case-insensitive)"`
	Dereference   bool      `arg:"-L,--dereference" help:"follow symbolic links below SOURCE"`
	RemovePartial bool      `arg:"--remove-partial" help:"delete a destination file whose copy failed part way"`
	Color         ColorMode `arg:"--color" default:"auto" help:"colorize output: auto|always|never"`
	Verbose       bool      `arg:"-v,--verbose" help:"log scan and copy details to stderr"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Recursively copy a file or directory tree, showing a single-line progress bar"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return ProgramName + " 1.0.0"
}

// EngineOptions converts the flags the copy engine cares about.
func (cfg *Config) EngineOptions() copyengine.Options {
	return copyengine.Options{
		Include:       cfg.Include,
		Dereference:   cfg.Dereference,
		RemovePartial: cfg.RemovePartial,
	}
}

// Parse parses args (without the program name). Help and version output go to
// stdout and are reported as ErrHelp and ErrVersion; usage errors are written
// to stderr together with the usage line.
func Parse(args []string, stdout, stderr io.Writer) (*Config, error) {
	cfg := &Config{Color: ColorAuto}

	parser, err := arg.NewParser(arg.Config{Program: ProgramName}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build argument parser: %w", err)
	}

	err = parser.Parse(args)

	switch {
	case errors.Is(err, arg.ErrHelp):
		parser.WriteHelp(stdout)
		return nil, ErrHelp
	case errors.Is(err, arg.ErrVersion):
		_, _ = fmt.Fprintln(stdout, cfg.Version())
		return nil, ErrVersion
	case err != nil:
		parser.WriteUsage(stderr)
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)

		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	cfg, err = PostProcessConfig(cfg)
	if err != nil {
		parser.WriteUsage(stderr)
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)

		return nil, err
	}

	return cfg, nil
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks flag values that go-arg cannot check on its own. It does not
// touch the filesystem; a missing source is reported by the engine.
func (cfg *Config) Validate() error {
	if cfg.Source == "" {
		return fmt.Errorf("source: %w", ErrEmptyPath)
	}

	if cfg.Dest == "" {
		return fmt.Errorf("destination: %w", ErrEmptyPath)
	}

	if !copyengine.ValidatePattern(cfg.Include) {
		return fmt.Errorf("%w: %q", ErrInvalidGlob, cfg.Include)
	}

	for _, p := range []string{cfg.Source, cfg.Dest} {
		if _, err := filesystem.ParsePath(p); err != nil {
			return fmt.Errorf("invalid path %q: %w", p, err)
		}
	}

	return nil
}
