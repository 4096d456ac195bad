// grid.go — Distribute wrapped lines across text columns.
package layout

// Distribute splits lines into contiguous chunks of ceil(len/columns) lines,
// one chunk per column. The last column may be shorter and trailing columns
// that would be empty are not returned. columns <= 1 yields the input as a
// single column.
func Distribute(lines []string, columns int) [][]string {
	if columns <= 1 || len(lines) == 0 {
		return [][]string{lines}
	}

	per := (len(lines) + columns - 1) / columns
	out := make([][]string, 0, columns)
	for start := 0; start < len(lines); start += per {
		end := min(start+per, len(lines))
		out = append(out, lines[start:end:end])
	}
	return out
}

// ColumnWidth returns the width of one column when total is split into
// columns separated by gutter. The result is at least one pixel.
func ColumnWidth(total float64, columns int, gutter float64) float64 {
	if columns <= 1 {
		return max(total, 1)
	}
	w := (total - gutter*float64(columns-1)) / float64(columns)
	return max(w, 1)
}
