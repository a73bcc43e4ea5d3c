package progress

import (
	"fmt"
	"io"
	"strings"
)

// Exported constants.
const (
	// BarWidth is the number of cells between the brackets.
	BarWidth = 40
	// PercentageScale converts a 0-1 fraction to a percentage.
	PercentageScale = 100.0

	DoneMessage          = "Done."
	NothingToCopyMessage = "No files to copy."
)

// Renderer writes the progress line to out. Each call overwrites the previous
// line with a carriage return and flushes so the line is visible immediately.
type Renderer struct {
	out    io.Writer
	styles Styles
}

// NewRenderer returns a Renderer writing to out.
func NewRenderer(out io.Writer, styles Styles) *Renderer {
	return &Renderer{out: out, styles: styles}
}

// Render draws copied/total. It does nothing when total is zero.
func (r *Renderer) Render(total, copied uint64) {
	if total == 0 {
		return
	}

	_, _ = io.WriteString(r.out, "\r"+FormatLine(total, copied))
	r.flush()
}

// Done ends the progress line and prints the completion marker.
func (r *Renderer) Done() {
	_, _ = fmt.Fprintf(r.out, "\n%s\n", r.styles.Done(DoneMessage))
	r.flush()
}

// NothingToCopy reports an empty scan.
func (r *Renderer) NothingToCopy() {
	_, _ = fmt.Fprintf(r.out, "%s\n", r.styles.Empty(NothingToCopyMessage))
	r.flush()
}

// FormatLine returns the status line without the leading carriage return:
// "[<bar>] <percent>% (<copied>/<total> files)".
func FormatLine(total, copied uint64) string {
	percent := Percent(total, copied)

	return fmt.Sprintf("[%s] %6.2f%% (%d/%d files)", RenderBar(percent, BarWidth), percent, copied, total)
}

// Percent returns 100*copied/total, or 0 when total is zero.
func Percent(total, copied uint64) float64 {
	if total == 0 {
		return 0
	}

	return float64(copied) / float64(total) * PercentageScale
}

// RenderBar draws width cells for percent (0-100). Cells before the progress
// position are '=', the cell at it is '>', the rest are spaces. At 100% the
// position is past the last cell, so the bar is all '=' with no marker.
func RenderBar(percent float64, width int) string {
	pos := int(percent / PercentageScale * float64(width))
	pos = max(0, min(pos, width))

	var bar strings.Builder

	bar.Grow(width)
	bar.WriteString(strings.Repeat("=", pos))

	if pos < width {
		bar.WriteByte('>')
		bar.WriteString(strings.Repeat(" ", width-pos-1))
	}

	return bar.String()
}

// flush pushes buffered output (a bufio.Writer, say) through to the terminal.
// Unbuffered writers such as *os.File need nothing.
func (r *Renderer) flush() {
	if w, ok := r.out.(interface{ Flush() error }); ok {
		_ = w.Flush()
	}
}
