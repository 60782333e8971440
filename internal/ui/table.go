package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align controls horizontal cell alignment within a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight // numeric columns: block numbers, lag, expiry years
)

// Column defines one table column. Width is the content width in terminal
// cells.
type Column struct {
	Title string
	Width int
	Align Align
}

// Row holds one cell value per column. Cells may carry lipgloss styling;
// widths are measured ANSI-aware so colored status cells line up.
type Row []string

// Table renders subname listings, wallet inventories and RPC probe sweeps
// as a fixed-width grid.
type Table struct {
	Columns []Column
	Rows    []Row
	SelIdx  int // highlighted row, -1 for none
}

// NewTable creates an empty table with the given columns.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols, SelIdx: -1}
}

// AddRow appends a row. Missing trailing cells render empty.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// fit sizes a cell value to exactly width terminal cells. Plain values that
// overflow are cut with an ellipsis; styled values (anything carrying an
// escape sequence) are never cut, only padded, since slicing them would
// corrupt the escape codes.
func fit(s string, width int, align Align) string {
	w := lipgloss.Width(s)

	if w > width && !strings.ContainsRune(s, '\x1b') {
		runes := []rune(s)
		if width <= 1 {
			return string(runes[:width])
		}
		s = string(runes[:width-1]) + "…"
		w = width
	}

	if w >= width {
		return s
	}
	gap := strings.Repeat(" ", width-w)
	if align == AlignRight {
		return gap + s
	}
	return s + gap
}

// Render returns the table as a string, one line per row.
func (t *Table) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)
	ruleStyle := lipgloss.NewStyle().Foreground(ColorMeta)

	var sb strings.Builder

	cells := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cells[i] = headerStyle.Render(fit(col.Title, col.Width, col.Align))
	}
	sb.WriteString(strings.Join(cells, " "))
	sb.WriteByte('\n')

	for i, col := range t.Columns {
		cells[i] = ruleStyle.Render(strings.Repeat("─", col.Width))
	}
	sb.WriteString(strings.Join(cells, " "))
	sb.WriteByte('\n')

	for rowIdx, row := range t.Rows {
		for i, col := range t.Columns {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			padded := fit(val, col.Width, col.Align)
			if rowIdx == t.SelIdx {
				cells[i] = StyleSelected.Render(padded)
			} else {
				cells[i] = cellStyle.Render(padded)
			}
		}
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteByte('\n')
	}

	return sb.String()
}

// KeyValueBlock renders labeled values in a bordered box, used for the
// single-subname record view and wallet details.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteByte('\n')
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-20s", p[0]+":"))
		sb.WriteString("  " + key + " " + StyleValue.Render(p[1]) + "\n")
	}
	return StyleBorder.Render(sb.String())
}
