package generation

// GridColumns is the width of the result grid.
const GridColumns = 2

// GridRows is the height of the result grid.
const GridRows = ResultCount / GridColumns

// GridPosition converts a result index into a row and column.
func GridPosition(index int) (row, col int) {
	return index / GridColumns, index % GridColumns
}

// GridMove returns the index reached from current by moving dx columns and dy
// rows, clamped to the grid. An empty cursor lands on the first item.
func GridMove(current, dx, dy int) int {
	if current < 0 || current >= ResultCount {
		return 0
	}
	row, col := GridPosition(current)
	row = clamp(row+dy, 0, GridRows-1)
	col = clamp(col+dx, 0, GridColumns-1)
	return row*GridColumns + col
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
