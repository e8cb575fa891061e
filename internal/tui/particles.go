package tui

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// particle drifts between two points, easing in and out and reversing at each
// end, like a repeat-forever autoreversing animation.
type particle struct {
	fromX, fromY float64
	toX, toY     float64
	period       time.Duration
	offset       time.Duration
	size         float64
}

type particleField struct {
	rng       *rand.Rand
	particles []particle
	width     int
	height    int
}

func newParticleField(seed int64, count int) *particleField {
	f := &particleField{rng: rand.New(rand.NewSource(seed))}
	f.particles = make([]particle, count)
	for i := range f.particles {
		f.particles[i] = f.spawn()
	}
	return f
}

func (f *particleField) spawn() particle {
	return particle{
		fromX:  f.rng.Float64(),
		fromY:  f.rng.Float64(),
		toX:    f.rng.Float64(),
		toY:    f.rng.Float64(),
		period: time.Duration(5000+f.rng.Intn(3001)) * time.Millisecond,
		offset: time.Duration(f.rng.Intn(8000)) * time.Millisecond,
		size:   6 + f.rng.Float64()*8,
	}
}

// Resize sets the cell area particles are drawn into.
func (f *particleField) Resize(width, height int) {
	f.width = width
	f.height = height
}

func easeInOut(t float64) float64 {
	return 0.5 - math.Cos(t*math.Pi)/2
}

// position returns the particle's normalised position at elapsed.
func (p particle) position(elapsed time.Duration) (float64, float64) {
	if p.period <= 0 {
		return p.fromX, p.fromY
	}
	cycle := (elapsed + p.offset) % (2 * p.period)
	t := float64(cycle) / float64(p.period)
	if t > 1 {
		t = 2 - t
	}
	e := easeInOut(t)
	return p.fromX + (p.toX-p.fromX)*e, p.fromY + (p.toY-p.fromY)*e
}

func particleGlyph(size float64) rune {
	switch {
	case size < 9:
		return '·'
	case size < 12:
		return '∙'
	default:
		return '•'
	}
}

// Cells places every particle at elapsed and returns the occupied glyphs keyed
// by row then column.
func (f *particleField) Cells(elapsed time.Duration) map[int]map[int]rune {
	cells := map[int]map[int]rune{}
	if f.width <= 0 || f.height <= 0 {
		return cells
	}
	for _, p := range f.particles {
		x, y := p.position(elapsed)
		col := int(math.Round(x * float64(f.width-1)))
		row := int(math.Round(y * float64(f.height-1)))
		if cells[row] == nil {
			cells[row] = map[int]rune{}
		}
		cells[row][col] = particleGlyph(p.size)
	}
	return cells
}

// Render draws the field as height lines of width cells.
func (f *particleField) Render(elapsed time.Duration) string {
	if f.width <= 0 || f.height <= 0 {
		return ""
	}
	cells := f.Cells(elapsed)
	lines := make([]string, f.height)
	for row := 0; row < f.height; row++ {
		var b strings.Builder
		for col := 0; col < f.width; col++ {
			r, ok := cells[row][col]
			if !ok {
				b.WriteRune(' ')
				continue
			}
			hex := dimmed(gradientAt(particleStops, float64(col)/float64(max(f.width-1, 1))).Hex(), 0.2)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(string(r)))
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}
