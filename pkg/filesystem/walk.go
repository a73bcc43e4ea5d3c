package filesystem

import (
	"os"

	"github.com/kr/fs"
)

// walkFS exposes a FileSystem to the kr/fs walker.
type walkFS struct {
	fsys        FileSystem
	root        string
	dereference bool
}

// NewWalker returns a kr/fs walker rooted at root.
// The root itself is always resolved through symlinks; entries below it are
// resolved only when dereference is set, otherwise symlinks are reported as such.
func NewWalker(fsys FileSystem, root string, dereference bool) *fs.Walker {
	return fs.WalkFS(root, &walkFS{fsys: fsys, root: root, dereference: dereference})
}

func (w *walkFS) Join(elem ...string) string {
	joined := ""
	for _, e := range elem {
		joined = joinUnchecked(joined, e)
	}

	return joined
}

func (w *walkFS) Lstat(name string) (os.FileInfo, error) {
	if w.dereference || name == w.root {
		return w.fsys.Stat(name)
	}

	return w.fsys.Lstat(name)
}

func (w *walkFS) ReadDir(dirname string) ([]os.FileInfo, error) {
	entries, err := w.fsys.ReadDir(dirname)
	if err != nil {
		return nil, err
	}

	if !w.dereference {
		return entries, nil
	}

	for i, entry := range entries {
		if entry.Mode()&os.ModeSymlink == 0 {
			continue
		}

		// A dangling link keeps its symlink info and is skipped by the caller.
		if target, err := w.fsys.Stat(joinUnchecked(dirname, entry.Name())); err == nil {
			entries[i] = target
		}
	}

	return entries, nil
}
