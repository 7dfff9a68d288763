package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table is a grid of text cells with an optional header row.
type Table struct {
	Header []string
	Rows   [][]string
}

// Layout holds the computed geometry of a table.
type Layout struct {
	table *Table

	cols       int
	colWidths  []int        // content width for each column
	rowHeights []int        // display lines per row, header first when present
	cellLines  [][][]string // cellLines[row][col] = cell text split by newlines
}

// Render renders the table to an ASCII string.
func (t *Table) Render() string {
	layout := t.buildLayout()
	return layout.render()
}

func (t *Table) allRows() [][]string {
	if len(t.Header) == 0 {
		return t.Rows
	}
	return append([][]string{t.Header}, t.Rows...)
}

func (t *Table) buildLayout() *Layout {
	rows := t.allRows()

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	layout := &Layout{
		table:      t,
		cols:       cols,
		colWidths:  make([]int, cols),
		rowHeights: make([]int, len(rows)),
		cellLines:  make([][][]string, len(rows)),
	}

	for r, row := range rows {
		layout.cellLines[r] = make([][]string, cols)
		for c := 0; c < cols; c++ {
			text := ""
			if c < len(row) {
				text = row[c]
			}
			layout.cellLines[r][c] = strings.Split(text, "\n")
		}
	}

	layout.computeColWidths()
	layout.computeRowHeights()

	return layout
}

func (l *Layout) computeColWidths() {
	for c := range l.colWidths {
		l.colWidths[c] = 1
	}

	for _, row := range l.cellLines {
		for c, lines := range row {
			for _, line := range lines {
				if width := displayWidth(line); width > l.colWidths[c] {
					l.colWidths[c] = width
				}
			}
		}
	}
}

func (l *Layout) computeRowHeights() {
	for r, row := range l.cellLines {
		maxLines := 1
		for _, lines := range row {
			if len(lines) > maxLines {
				maxLines = len(lines)
			}
		}
		l.rowHeights[r] = maxLines
	}
}

func (l *Layout) render() string {
	if l.cols == 0 {
		return ""
	}

	var sb strings.Builder
	border := l.renderBorderLine()

	sb.WriteString(border)
	sb.WriteString("\n")

	for r := range l.cellLines {
		for line := 0; line < l.rowHeights[r]; line++ {
			sb.WriteString(l.renderContentLine(r, line))
			sb.WriteString("\n")
		}

		// Only the header and the last row are closed by a border.
		if r == len(l.cellLines)-1 || (r == 0 && len(l.table.Header) > 0) {
			sb.WriteString(border)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (l *Layout) renderBorderLine() string {
	var sb strings.Builder

	sb.WriteString("+")
	for c := 0; c < l.cols; c++ {
		sb.WriteString(strings.Repeat("-", l.colWidths[c]+2))
		sb.WriteString("+")
	}

	return sb.String()
}

// renderContentLine renders display line lineIdx of table row rowIdx.
func (l *Layout) renderContentLine(rowIdx int, lineIdx int) string {
	var sb strings.Builder

	sb.WriteString("|")
	for c := 0; c < l.cols; c++ {
		lines := l.cellLines[rowIdx][c]
		text := ""
		if lineIdx < len(lines) {
			text = lines[lineIdx]
		}

		padding := l.colWidths[c] - displayWidth(text)
		if padding < 0 {
			padding = 0
		}

		sb.WriteString(" ")
		sb.WriteString(text)
		sb.WriteString(strings.Repeat(" ", padding))
		sb.WriteString(" |")
	}

	return sb.String()
}

// displayWidth calculates the display width of a string using go-runewidth,
// so CJK characters count as two columns and combining marks as zero.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}
