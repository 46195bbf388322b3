package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Table is a plain column layout. Widths are measured in terminal cells, so
// names with wide characters still line up.
type Table struct {
	Headers []string
	Rows    [][]string
	// Align holds one entry per column; missing entries align left.
	Align []lipgloss.Position
	// MaxWidth truncates cells wider than this. Zero means no limit.
	MaxWidth int
	// Styled renders the header with HeaderStyle.
	Styled bool
}

const columnGap = "  "

// Widths returns the display width of every column.
func (t *Table) Widths() []int {
	widths := make([]int, len(t.Headers))
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := runewidth.StringWidth(t.clip(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}
	return widths
}

func (t *Table) clip(s string) string {
	if t.MaxWidth > 0 && runewidth.StringWidth(s) > t.MaxWidth {
		return runewidth.Truncate(s, t.MaxWidth, "…")
	}
	return s
}

func (t *Table) line(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = t.clip(row[i])
		}
		if i < len(t.Align) && t.Align[i] == lipgloss.Right {
			cells[i] = runewidth.FillLeft(cell, w)
		} else if i == len(widths)-1 {
			cells[i] = cell
		} else {
			cells[i] = runewidth.FillRight(cell, w)
		}
	}
	return strings.TrimRight(strings.Join(cells, columnGap), " ")
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	widths := t.Widths()
	header := t.line(t.Headers, widths)
	if t.Styled {
		header = HeaderStyle.Render(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if _, err := fmt.Fprintln(w, t.line(row, widths)); err != nil {
			return err
		}
	}
	return nil
}

// String renders the table to a string.
func (t *Table) String() string {
	var b strings.Builder
	_ = t.Render(&b)
	return b.String()
}
