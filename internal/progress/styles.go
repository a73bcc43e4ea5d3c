package progress

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colour codes shared by the status line summaries.
const (
	dimColorCode     = "240" // Dark gray
	errorColorCode   = "196" // Red
	successColorCode = "42"  // Green
)

// Styles decorates the summary lines printed around the progress bar.
// The zero value prints everything unstyled.
type Styles struct {
	enabled bool
	done    lipgloss.Style
	empty   lipgloss.Style
	err     lipgloss.Style
}

// NewStyles returns styles for text written to out. When enabled is true the
// colours are emitted even if out is not a terminal; the caller decides.
func NewStyles(out io.Writer, enabled bool) Styles {
	renderer := lipgloss.NewRenderer(out)
	if enabled {
		renderer.SetColorProfile(termenv.ANSI256)
	}

	return Styles{
		enabled: enabled,
		done:    renderer.NewStyle().Foreground(lipgloss.Color(successColorCode)).Bold(true),
		empty:   renderer.NewStyle().Foreground(lipgloss.Color(dimColorCode)),
		err:     renderer.NewStyle().Foreground(lipgloss.Color(errorColorCode)).Bold(true),
	}
}

// Done styles the completion marker.
func (s Styles) Done(text string) string {
	return s.paint(s.done, text)
}

// Empty styles the nothing-to-copy message.
func (s Styles) Empty(text string) string {
	return s.paint(s.empty, text)
}

// Error styles a fatal error headline.
func (s Styles) Error(text string) string {
	return s.paint(s.err, text)
}

func (s Styles) paint(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}

	return style.Render(text)
}
