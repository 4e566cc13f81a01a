package ingest

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

var cellFlattener = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// RenderTable lays out rows as right-aligned plain-text columns. The first
// row is treated like any other, so callers pass the header in rows[0].
func RenderTable(rows [][]string) string {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return ""
	}

	cells := make([][]string, len(rows))
	widths := make([]int, cols)
	for i, row := range rows {
		cells[i] = make([]string, cols)
		for c := 0; c < cols; c++ {
			var v string
			if c < len(row) {
				v = strings.TrimSpace(cellFlattener.Replace(row[c]))
			}
			cells[i][c] = v
			if w := runewidth.StringWidth(v); w > widths[c] {
				widths[c] = w
			}
		}
	}

	lines := make([]string, len(cells))
	var b strings.Builder
	for i, row := range cells {
		b.Reset()
		for c, v := range row {
			if c > 0 {
				b.WriteString(columnGap)
			}
			b.WriteString(strings.Repeat(" ", widths[c]-runewidth.StringWidth(v)))
			b.WriteString(v)
		}
		lines[i] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}
