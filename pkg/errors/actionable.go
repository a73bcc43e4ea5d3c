// Package errors classifies copy failures and attaches suggestions a user can act on.
//
// The enricher inspects the error message, assigns a category (permission, disk
// space, path, path too long, copy, delete, unsupported), and produces suggestions
// tailored to the affected path:
//
//	enricher := errors.NewEnricher()
//	_, err := os.Open("/restricted/file.txt")
//	if err != nil {
//	    enriched := enricher.Enrich(err, "/restricted/file.txt")
//	    fmt.Println(enriched.Error())
//	    fmt.Println(errors.FormatSuggestions(enriched))
//	}
//
// When no path is given, one is extracted from messages of the form
// "open /path/to/file: permission denied".
package errors

import (
	stderrors "errors"
	"strings"
)

// Exported constants.
const (
	CategoryCopy        ErrorCategory = "copy"
	CategoryDelete      ErrorCategory = "delete"
	CategoryDiskSpace   ErrorCategory = "disk_space"
	CategoryPath        ErrorCategory = "path"
	CategoryPathLength  ErrorCategory = "path_too_long"
	CategoryPermission  ErrorCategory = "permission"
	CategoryUnknown     ErrorCategory = "unknown"
	CategoryUnsupported ErrorCategory = "unsupported"
)

// ActionableError represents an error with actionable suggestions for the user.
type ActionableError interface {
	error
	OriginalError() string
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// NewActionableError creates a new ActionableError with the given details.
func NewActionableError(
	originalError string,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
) ActionableError {
	return &actionableError{
		originalError: originalError,
		category:      category,
		suggestions:   suggestions,
		affectedPath:  affectedPath,
	}
}

// ErrorCategory represents the type of error that occurred.
type ErrorCategory string

// CategoryOf returns the category of an enriched error, or CategoryUnknown for
// errors that were never enriched.
func CategoryOf(err error) ErrorCategory {
	var actionable ActionableError
	if stderrors.As(err, &actionable) {
		return actionable.Category()
	}

	return CategoryUnknown
}

// FormatSuggestions formats the suggestions from an ActionableError as a bulleted list
// for display in the TUI. Returns empty string if the error is nil or has no suggestions.
func FormatSuggestions(err error) string {
	if err == nil {
		return ""
	}

	var actionable ActionableError
	if !stderrors.As(err, &actionable) {
		return ""
	}

	suggestions := actionable.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, suggestion := range suggestions {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

// actionableError is the concrete implementation of ActionableError.
type actionableError struct {
	cause         error
	originalError string
	category      ErrorCategory
	suggestions   []string
	affectedPath  string
}

// AffectedPath returns the file path affected by this error.
func (e *actionableError) AffectedPath() string {
	return e.affectedPath
}

// Category returns the error category.
func (e *actionableError) Category() ErrorCategory {
	return e.category
}

// Error implements the error interface.
func (e *actionableError) Error() string {
	return e.originalError
}

// OriginalError returns the original error message.
func (e *actionableError) OriginalError() string {
	return e.originalError
}

// Unwrap returns the error that was enriched, if any, so errors.Is still sees
// sentinels such as fs.ErrNotExist through the enrichment.
func (e *actionableError) Unwrap() error {
	return e.cause
}

// Suggestions returns the list of actionable suggestions.
func (e *actionableError) Suggestions() []string {
	return e.suggestions
}
