package tui

import "time"

type screen int

const (
	screenHome screen = iota
	screenGenerate
)

const (
	homeTitle        = "Welcome to Imoji"
	heroTagline      = "Imagine your emoji!"
	inputPlaceholder = "Describe your emoji..."
	loadingCaption   = "generating your emoji"
	dotsCaption      = "generating"
	placeholderFace  = "(◕‿◕)"
)

const (
	minWindowWidth      = 40
	horizontalPadding   = 4
	condensedInputWidth = 18
	expandedInputWidth  = 44
	particleCount       = 20
	particleRows        = 3
	swirlPoints         = 20
	defaultFrameRate    = 50 * time.Millisecond
)
