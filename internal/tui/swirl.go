package tui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/imoji/internal/generation"
)

type swirlPoint struct {
	row, col int
	scale    float64
	color    string
}

// swirlLayout places points evenly on a ring inside a width×height cell area.
// Each point pulses with phase t*4 + i/n*2π, scaled into [0.4, 1.2].
func swirlLayout(width, height, points int, elapsed time.Duration, palette generation.Palette) []swirlPoint {
	if width <= 0 || height <= 0 || points <= 0 {
		return nil
	}
	t := elapsed.Seconds()
	cx := float64(width-1) / 2
	cy := float64(height-1) / 2
	// Terminal cells are roughly twice as tall as wide.
	ry := math.Min(cy, cx/2) * 0.9
	rx := ry * 2
	out := make([]swirlPoint, 0, points)
	for i := 0; i < points; i++ {
		frac := float64(i) / float64(points)
		angle := 2 * math.Pi * frac
		phase := t*4 + frac*2*math.Pi
		out = append(out, swirlPoint{
			row:   int(math.Round(cy + math.Sin(angle)*ry)),
			col:   int(math.Round(cx + math.Cos(angle)*rx)),
			scale: (math.Sin(phase) + 2) / 2.5,
			color: palette[i%len(palette)].Hex,
		})
	}
	return out
}

func swirlGlyph(scale float64) rune {
	switch {
	case scale < 0.6:
		return '·'
	case scale < 0.9:
		return '•'
	default:
		return '●'
	}
}

func renderSwirl(width, height int, elapsed time.Duration, palette generation.Palette) string {
	points := swirlLayout(width, height, swirlPoints, elapsed, palette)
	if len(points) == 0 {
		return ""
	}
	grid := make([][]string, height)
	for row := range grid {
		grid[row] = make([]string, width)
		for col := range grid[row] {
			grid[row][col] = " "
		}
	}
	for _, p := range points {
		if p.row < 0 || p.row >= height || p.col < 0 || p.col >= width {
			continue
		}
		hex := dimmed(p.color, 1.2-p.scale)
		grid[p.row][p.col] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(string(swirlGlyph(p.scale)))
	}
	lines := make([]string, height)
	for row := range grid {
		lines[row] = strings.Join(grid[row], "")
	}
	return strings.Join(lines, "\n")
}
