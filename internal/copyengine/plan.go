package copyengine

import (
	"fmt"
	"os"

	"github.com/joe/cpx/pkg/filesystem"
)

// Kind is the kind of the top-level source.
type Kind int

// Source kinds.
const (
	KindFile Kind = iota
	KindDirectory
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Plan is the resolved source and destination roots of a run. Every path the
// copy pass touches is below one of them.
type Plan struct {
	SourceRoot string
	DestRoot   string
	Kind       Kind
}

// ResolvePlan applies the nesting and rename rules:
//   - a directory source is copied to dest/<basename of source>;
//   - a file source goes to dest/<basename> when dest is an existing
//     directory, otherwise to dest itself.
func ResolvePlan(
	dstFS filesystem.FileSystem,
	paths filesystem.PathBuilder,
	source string,
	sourceInfo os.FileInfo,
	dest string,
) (*Plan, error) {
	switch {
	case sourceInfo.IsDir():
		trimmed := filesystem.TrimTrailingSeparators(source)

		root, err := paths.Join(dest, filesystem.BaseName(trimmed))
		if err != nil {
			return nil, fmt.Errorf("destination %w", err)
		}

		return &Plan{SourceRoot: trimmed, DestRoot: root, Kind: KindDirectory}, nil

	case sourceInfo.Mode().IsRegular():
		target := dest

		if info, err := dstFS.Stat(dest); err == nil && info.IsDir() {
			target, err = paths.Join(dest, filesystem.BaseName(source))
			if err != nil {
				return nil, fmt.Errorf("destination %w", err)
			}
		} else if !paths.Fits(dest) {
			return nil, fmt.Errorf("destination %s: %w", dest, filesystem.ErrPathTooLong)
		}

		return &Plan{SourceRoot: source, DestRoot: target, Kind: KindFile}, nil

	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedSource, source, sourceInfo.Mode().Type())
	}
}
