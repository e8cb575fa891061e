package tui

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	contentWidth   int
	inputExpanded  int
	inputCondensed int
	squareWidth    int
	squareHeight   int
	loaderWidth    int
	loaderHeight   int
}

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(80, 24)
	return l
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	l.contentWidth = width - horizontalPadding
	if l.contentWidth < minWindowWidth {
		l.contentWidth = minWindowWidth
	}
	// gallery icon, send arrow, borders and padding take 14 cells
	l.inputExpanded = min(expandedInputWidth, l.contentWidth-14)
	l.inputCondensed = min(condensedInputWidth, l.inputExpanded)

	l.squareWidth = clampInt((l.contentWidth-6)/2, 10, 24)
	l.squareHeight = clampInt((height-14)/2, 3, l.squareWidth/2)

	l.loaderWidth = min(l.contentWidth, 48)
	l.loaderHeight = clampInt(height-12, 7, 15)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
