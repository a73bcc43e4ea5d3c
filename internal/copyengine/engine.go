// Package copyengine implements the two-pass recursive copy: a scan that
// counts the regular files to copy, then a depth-first copy pass that mirrors
// the tree and reports progress after every file.
package copyengine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/joe/cpx/internal/progress"
	pkgerrors "github.com/joe/cpx/pkg/errors"
	"github.com/joe/cpx/pkg/filesystem"
)

// Exported constants.
const (
	// BufferSize is the chunk size used to stream file contents.
	BufferSize = 8 * 1024
	// DefaultDirPermissions is the mode for directories created in the destination.
	DefaultDirPermissions = 0o755
)

// Exported variables.
var (
	ErrDestinationRoot   = errors.New("cannot create destination directory")
	ErrSourceNotFound    = errors.New("source not found")
	ErrUnsupportedSource = errors.New("unsupported source: not a regular file or directory")
)

// Options tune a copy run. The zero value copies everything, skips symlinks,
// leaves partial files in place and uses the default path limit.
type Options struct {
	Include       string // Optional glob; only matching regular files are copied
	Dereference   bool   // Follow symbolic links below the source root
	RemovePartial bool   // Remove a destination file whose copy failed
	MaxPathLength int    // 0 means filesystem.MaxPathLength
}

// ProgressReporter receives progress updates from the copy pass.
type ProgressReporter interface {
	Render(total, copied uint64)
	NothingToCopy()
	Done()
}

// Result summarizes a finished run.
type Result struct {
	Plan          *Plan
	Total         uint64
	Copied        uint64
	Failures      int
	BytesCopied   int64
	NothingToCopy bool
}

// Engine copies one source entry to a destination.
type Engine struct {
	srcFS    filesystem.FileSystem
	dstFS    filesystem.FileSystem
	opts     Options
	paths    filesystem.PathBuilder
	filter   FileFilter
	counter  *progress.Counter
	enricher pkgerrors.Enricher
	reporter ProgressReporter
	emitter  EventEmitter

	sourceRoot  string
	failures    int
	bytesCopied int64
}

// NewEngine creates an engine reading from srcFS and writing to dstFS.
// Both may be the same FileSystem.
func NewEngine(srcFS, dstFS filesystem.FileSystem, opts Options) *Engine {
	return &Engine{
		srcFS:    srcFS,
		dstFS:    dstFS,
		opts:     opts,
		paths:    filesystem.NewPathBuilder(opts.MaxPathLength),
		filter:   NewGlobFilter(opts.Include),
		counter:  progress.NewCounter(),
		enricher: pkgerrors.NewEnricher(),
		reporter: nopReporter{},
	}
}

// Counter returns the progress counter shared by both passes.
func (e *Engine) Counter() *progress.Counter {
	return e.counter
}

// SetEventEmitter sets the event emitter.
// The emitter is optional - if nil, no events will be emitted.
func (e *Engine) SetEventEmitter(emitter EventEmitter) {
	e.emitter = emitter
}

// SetReporter sets where progress is drawn. A nil reporter disables drawing.
func (e *Engine) SetReporter(reporter ProgressReporter) {
	if reporter == nil {
		reporter = nopReporter{}
	}

	e.reporter = reporter
}

// Run copies source to dest. The returned error is fatal for the whole run;
// per-entry failures are logged, counted in Result.Failures and skipped.
func (e *Engine) Run(ctx context.Context, source, dest string) (*Result, error) {
	log := zerolog.Ctx(ctx)

	info, err := e.srcFS.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedSource, source, info.Mode().Type())
	}

	e.counter.Reset()
	e.failures = 0
	e.bytesCopied = 0
	e.sourceRoot = source

	total := e.Scan(ctx, source)
	if total == 0 {
		log.Debug().Str("path", source).Msg("nothing to copy")
		e.reporter.NothingToCopy()

		return &Result{NothingToCopy: true}, nil
	}

	plan, err := ResolvePlan(e.dstFS, e.paths, source, info, dest)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("source", plan.SourceRoot).
		Str("dest", plan.DestRoot).
		Stringer("kind", plan.Kind).
		Uint64("total", total).
		Msg("copy plan resolved")

	switch plan.Kind {
	case KindDirectory:
		err = e.dstFS.Mkdir(plan.DestRoot, DefaultDirPermissions)
		if err != nil && !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w %s: %w", ErrDestinationRoot, plan.DestRoot, err)
		}

		if err == nil {
			e.emit(DirectoryCreated{Path: plan.DestRoot})
		}

		_ = e.copyEntries(ctx, plan.SourceRoot, plan.DestRoot)
	case KindFile:
		_ = e.CopyFile(ctx, plan.SourceRoot, plan.DestRoot)
	}

	e.reporter.Done()

	_, copied := e.counter.Snapshot()
	result := &Result{
		Plan:        plan,
		Total:       total,
		Copied:      copied,
		Failures:    e.failures,
		BytesCopied: e.bytesCopied,
	}

	e.emit(CopyComplete{Result: result})
	log.Debug().
		Uint64("copied", copied).
		Uint64("total", total).
		Int("failures", e.failures).
		Int64("bytes", e.bytesCopied).
		Msg("copy finished")

	return result, nil
}

// emit sends an event if an emitter is configured.
func (e *Engine) emit(event Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}

// includes applies the include filter to a regular file below the source root.
func (e *Engine) includes(path string) bool {
	return e.filter.ShouldInclude(e.relativePath(path))
}

// relativePath returns path relative to the source root. The source root
// itself maps to its base name so a single-file source can be filtered.
func (e *Engine) relativePath(path string) string {
	if e.sourceRoot == "" {
		return path
	}

	root := filesystem.TrimTrailingSeparators(e.sourceRoot)
	if path == e.sourceRoot || path == root {
		return filesystem.BaseName(root)
	}

	rel := strings.TrimPrefix(path, root)

	return strings.TrimLeft(rel, filesystem.Separator)
}

// report enriches, logs and emits a per-entry failure, and returns the
// enriched error.
func (e *Engine) report(ctx context.Context, op, path string, err error) error {
	enriched := e.enricher.Enrich(err, path)
	e.failures++

	zerolog.Ctx(ctx).Error().
		Err(err).
		Str("op", op).
		Str("path", path).
		Str("category", string(pkgerrors.CategoryOf(enriched))).
		Msg(op + " failed")

	e.emit(EntryFailed{Op: op, Path: path, Err: enriched})

	return enriched
}

// stat resolves the kind of an entry below the source root.
func (e *Engine) stat(path string) (os.FileInfo, error) {
	if e.opts.Dereference {
		return e.srcFS.Stat(path) //nolint:wrapcheck // FileSystem implementations wrap their errors
	}

	return e.srcFS.Lstat(path) //nolint:wrapcheck // FileSystem implementations wrap their errors
}

type nopReporter struct{}

func (nopReporter) Render(uint64, uint64) {}
func (nopReporter) NothingToCopy()        {}
func (nopReporter) Done()                 {}
