package copyengine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/joe/cpx/pkg/filesystem"
)

// Scan counts the regular files below root that the copy pass will copy and
// adds them to the counter's total. Unreadable entries are skipped silently,
// as are children whose path would exceed the path limit.
func (e *Engine) Scan(ctx context.Context, root string) uint64 {
	log := zerolog.Ctx(ctx)

	var found uint64

	walker := filesystem.NewWalker(e.srcFS, root, e.opts.Dereference)
	for walker.Step() {
		path := walker.Path()

		if err := walker.Err(); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("scan skipped entry")
			continue
		}

		if path != root && !e.paths.Fits(path) {
			log.Debug().Str("path", path).Msg("scan skipped overlong path")
			walker.SkipDir()

			continue
		}

		info := walker.Stat()
		if !info.Mode().IsRegular() || !e.includes(path) {
			continue
		}

		e.counter.IncrementTotal()
		found++
	}

	e.emit(ScanComplete{Root: root, Total: found})
	log.Debug().Str("path", root).Uint64("total", found).Msg("scan complete")

	return found
}
