package copyengine

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileFilter decides which regular files take part in a copy.
type FileFilter interface {
	// ShouldInclude reports whether the file at relativePath (relative to the
	// source root, slash-separated) should be counted and copied.
	ShouldInclude(relativePath string) bool
}

// GlobFilter implements FileFilter using doublestar glob patterns.
type GlobFilter struct {
	normalizedPattern string
	isEmpty           bool
}

// NewGlobFilter creates a new GlobFilter with the given pattern.
// An empty pattern matches all files.
func NewGlobFilter(pattern string) *GlobFilter {
	return &GlobFilter{
		normalizedPattern: strings.ToLower(pattern),
		isEmpty:           pattern == "",
	}
}

// ValidatePattern reports whether pattern is a well-formed glob.
func ValidatePattern(pattern string) bool {
	return pattern == "" || doublestar.ValidatePattern(pattern)
}

// ShouldInclude matches case-insensitively. An invalid pattern matches nothing.
func (f *GlobFilter) ShouldInclude(relativePath string) bool {
	if f.isEmpty {
		return true
	}

	matched, err := doublestar.Match(f.normalizedPattern, strings.ToLower(relativePath))
	if err != nil {
		return false
	}

	return matched
}
