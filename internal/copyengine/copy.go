package copyengine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/rs/zerolog"
)

// CopyDir mirrors the directory src into dst. A failure on one child is
// reported and never stops its siblings; the returned error only covers dst
// itself (creation or listing of src).
func (e *Engine) CopyDir(ctx context.Context, src, dst string) error {
	err := e.dstFS.Mkdir(dst, DefaultDirPermissions)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return e.report(ctx, "mkdir", dst, err)
	}

	if err == nil {
		e.emit(DirectoryCreated{Path: dst})
	}

	return e.copyEntries(ctx, src, dst)
}

// copyEntries copies the children of src into the existing directory dst.
func (e *Engine) copyEntries(ctx context.Context, src, dst string) error {
	entries, err := e.srcFS.ReadDir(src)
	if err != nil {
		return e.report(ctx, "readdir", src, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}

		srcPath, err := e.paths.Join(src, name)
		if err != nil {
			_ = e.report(ctx, "join", src+"/"+name, err)
			continue
		}

		dstPath, err := e.paths.Join(dst, name)
		if err != nil {
			_ = e.report(ctx, "join", dst+"/"+name, err)
			continue
		}

		info, err := e.stat(srcPath)
		if err != nil {
			_ = e.report(ctx, "stat", srcPath, err)
			continue
		}

		switch {
		case info.IsDir():
			_ = e.CopyDir(ctx, srcPath, dstPath)
		case info.Mode().IsRegular():
			if e.includes(srcPath) {
				_ = e.CopyFile(ctx, srcPath, dstPath)
			}
		default:
			zerolog.Ctx(ctx).Debug().Str("path", srcPath).Stringer("mode", info.Mode()).Msg("skipped unsupported entry")
		}
	}

	return nil
}

// CopyFile copies the contents of src to dst, creating or truncating dst.
// On success the copied count is incremented and progress is rendered.
func (e *Engine) CopyFile(ctx context.Context, src, dst string) error {
	sourceFile, err := e.srcFS.Open(src)
	if err != nil {
		return e.report(ctx, "open", src, err)
	}

	defer func() {
		_ = sourceFile.Close()
	}()

	destFile, err := e.dstFS.Create(dst)
	if err != nil {
		return e.report(ctx, "create", dst, err)
	}

	written, err := copyContents(sourceFile, destFile)

	closeErr := destFile.Close()
	if err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", dst, closeErr)
	}

	if err != nil {
		e.discardPartial(ctx, dst)

		return e.report(ctx, "copy", dst, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err))
	}

	e.counter.IncrementCopied()
	e.bytesCopied += written

	total, copied := e.counter.Snapshot()
	e.emit(FileCopied{Source: src, Dest: dst, Bytes: written, Copied: copied, Total: total})
	e.reporter.Render(total, copied)

	zerolog.Ctx(ctx).Debug().Str("path", dst).Int64("bytes", written).Msg("copied")

	return nil
}

// discardPartial removes a destination file left behind by a failed copy
// when RemovePartial is set.
func (e *Engine) discardPartial(ctx context.Context, dst string) {
	if !e.opts.RemovePartial {
		return
	}

	err := e.dstFS.Remove(dst)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", dst).Msg("could not remove partial file")
	}
}

// copyContents streams src into dst in BufferSize chunks.
func copyContents(src io.Reader, dst io.Writer) (int64, error) {
	var written int64

	buf := make([]byte, BufferSize)

	for {
		nr, err := src.Read(buf) //nolint:varnamelen // nr is idiomatic for bytes read
		if nr > 0 {
			nw, err := dst.Write(buf[0:nr]) //nolint:varnamelen // nw is idiomatic for bytes written
			if err != nil {
				return written, fmt.Errorf("failed to write to destination: %w", err)
			}

			if nr != nw {
				return written, fmt.Errorf("short write: %w", io.ErrShortWrite)
			}

			written += int64(nw)
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return written, fmt.Errorf("failed to read from source: %w", err)
		}
	}

	return written, nil
}
