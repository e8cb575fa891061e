package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// gradientAt blends across stops; t is clamped to [0, 1].
func gradientAt(stops []string, t float64) colorful.Color {
	if len(stops) == 0 {
		return colorful.Color{}
	}
	colors := make([]colorful.Color, 0, len(stops))
	for _, hex := range stops {
		c, err := colorful.Hex(hex)
		if err != nil {
			continue
		}
		colors = append(colors, c)
	}
	if len(colors) == 0 {
		return colorful.Color{}
	}
	if len(colors) == 1 || t <= 0 {
		return colors[0]
	}
	if t >= 1 {
		return colors[len(colors)-1]
	}
	scaled := t * float64(len(colors)-1)
	idx := int(scaled)
	return colors[idx].BlendLuv(colors[idx+1], scaled-float64(idx)).Clamped()
}

// gradientText colours each rune along the stops, left to right.
func gradientText(text string, stops []string, bold bool) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range runes {
		if r == ' ' {
			b.WriteRune(r)
			continue
		}
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientAt(stops, t).Hex())).Bold(bold)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// dimmed blends hex toward black by amount in [0, 1].
func dimmed(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return c.BlendRgb(colorful.Color{}, amount).Clamped().Hex()
}
