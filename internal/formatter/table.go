// Package formatter renders statistics views as aligned terminal text.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align selects cell padding for a column.
type Align int

// Column alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

// Table renders header and rows as a pipe table. Columns are sized by
// display width, so wide runes line up. Alignment applies to body rows only.
func Table(header []string, rows [][]string, align ...Align) string {
	all := append([][]string{header}, rows...)

	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	// Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	for _, row := range all {
		for i := 0; i < len(row); i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	// Ensure min width for separator
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var sb strings.Builder

	writeRow := func(row []string, aligned bool) {
		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			padding := strings.Repeat(" ", colWidths[j]-runewidth.StringWidth(content))

			sb.WriteString(" ")

			if aligned && j < len(align) && align[j] == AlignRight {
				sb.WriteString(padding + content)
			} else {
				sb.WriteString(content + padding)
			}

			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(header, false)

	sb.WriteString("|")

	for j := 0; j < colCount; j++ {
		sb.WriteString(" " + strings.Repeat("-", colWidths[j]) + " |")
	}

	sb.WriteString("\n")

	for _, row := range rows {
		writeRow(row, true)
	}

	return sb.String()
}

// Bar returns a horizontal bar of width cells scaled to value/max.
func Bar(value, maxValue float64, width int) string {
	if maxValue <= 0 || value <= 0 || width <= 0 {
		return ""
	}

	n := int(value / maxValue * float64(width))
	if n < 1 {
		n = 1
	}

	if n > width {
		n = width
	}

	return strings.Repeat("█", n)
}

// PadRight pads s with spaces to the given display width.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
