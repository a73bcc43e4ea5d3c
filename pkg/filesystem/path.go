package filesystem

import (
	"errors"
	"fmt"
	"strings"
)

// Exported constants.
const (
	// Separator joins path segments. SFTP paths always use it, so local paths do too.
	Separator = "/"
	// MaxPathLength is PATH_MAX minus the terminating NUL.
	MaxPathLength = 4095
)

// Exported variables.
var (
	ErrPathTooLong = errors.New("path too long")
)

// PathBuilder joins path segments and rejects results longer than Max bytes.
type PathBuilder struct {
	Max int
}

// NewPathBuilder returns a PathBuilder limited to max bytes.
// A non-positive max selects MaxPathLength.
func NewPathBuilder(max int) PathBuilder {
	if max <= 0 {
		max = MaxPathLength
	}

	return PathBuilder{Max: max}
}

// Join returns base/child. It never returns a truncated path: if the result
// would exceed the limit it returns ErrPathTooLong and an empty string.
func (b PathBuilder) Join(base, child string) (string, error) {
	joined := joinUnchecked(base, child)

	limit := b.Max
	if limit <= 0 {
		limit = MaxPathLength
	}

	if len(joined) > limit {
		return "", fmt.Errorf("%s%s%s: %w (%d > %d bytes)", base, Separator, child, ErrPathTooLong, len(joined), limit)
	}

	return joined, nil
}

// Fits reports whether path is within the builder's limit.
func (b PathBuilder) Fits(path string) bool {
	limit := b.Max
	if limit <= 0 {
		limit = MaxPathLength
	}

	return len(path) <= limit
}

// JoinPath joins base and child using the default MaxPathLength limit.
func JoinPath(base, child string) (string, error) {
	return NewPathBuilder(MaxPathLength).Join(base, child)
}

// TrimTrailingSeparators removes trailing separators, keeping at least one character
// so that "/" stays "/".
func TrimTrailingSeparators(path string) string {
	end := len(path)
	for end > 1 && path[end-1] == Separator[0] {
		end--
	}

	return path[:end]
}

// BaseName returns everything after the last separator, or the whole path if there is none.
func BaseName(path string) string {
	idx := strings.LastIndex(path, Separator)
	if idx < 0 {
		return path
	}

	return path[idx+1:]
}

func joinUnchecked(base, child string) string {
	if base == "" {
		return child
	}

	if strings.HasSuffix(base, Separator) {
		return base + child
	}

	return base + Separator + child
}
