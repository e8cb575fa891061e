package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/imoji/internal/generation"
)

func (m *model) View() string {
	switch m.screen {
	case screenHome:
		return m.viewHome()
	case screenGenerate:
		return m.viewGenerate()
	default:
		return ""
	}
}

func (m *model) viewHome() string {
	items := make([]string, 0, len(m.config.Variants))
	for idx, v := range m.config.Variants {
		label := fmt.Sprintf("%d  %s", idx+1, v.Title)
		desc := menuDescStyle.Render(wordwrap.String(v.Description, max(m.layout.contentWidth-8, 20)))
		style := menuItemStyle
		if idx == m.homeCursor {
			style = menuActiveStyle
			label = gradientText(label, gradientStops, true)
		}
		items = append(items, style.Render(label+"\n"+desc))
	}
	header := lipgloss.JoinVertical(
		lipgloss.Left,
		renderLogo(),
		gradientText(homeTitle, gradientStops, true),
	)
	return joinNonEmpty([]string{
		header,
		sectionHeaderStyle.Render("Choose a screen"),
		strings.Join(items, "\n"),
		m.help.ShortHelpView([]key.Binding{m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Quit}),
	})
}

func (m *model) viewGenerate() string {
	view := m.projection()
	parts := []string{m.generateHeader(view)}

	switch {
	case view.ShowLoading:
		parts = append(parts, m.loaderView(view))
	case view.ShowGrid:
		parts = append(parts, m.gridView(view))
	case view.ShowPlaceholder:
		parts = append(parts, m.placeholderView())
	}

	parts = append(parts, m.inputBarView(view))
	if m.config.Particles {
		parts = append(parts, m.particles.Render(m.elapsed()))
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(wordwrap.String(m.errorMessage, m.layout.contentWidth)))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(wordwrap.String(m.infoMessage, m.layout.contentWidth)))
	}
	parts = append(parts, m.sessionMeterView(), m.help.ShortHelpView(m.phaseBindings()))
	return joinNonEmpty(parts)
}

func (m *model) generateHeader(view generation.View) string {
	title := gradientText(m.variant.Title, gradientStops, true)
	if !view.ShowReset {
		return title
	}
	hint := resetStyle.Render("↺ r start over")
	gap := m.layout.contentWidth - lipgloss.Width(title) - lipgloss.Width(hint)
	if gap < 2 {
		gap = 2
	}
	return title + strings.Repeat(" ", gap) + hint
}

func (m *model) placeholderView() string {
	face := placeholderStyle.Render(placeholderFace)
	tagline := gradientText(heroTagline, gradientStops, true)
	block := lipgloss.JoinVertical(lipgloss.Center, face, "", tagline)
	return lipgloss.PlaceHorizontal(m.layout.contentWidth, lipgloss.Center, block)
}

func (m *model) loaderView(view generation.View) string {
	echo := ""
	if m.prompt != "" {
		echo = helperStyle.Render("“" + truncate.StringWithTail(m.prompt, uint(max(m.layout.loaderWidth-4, 8)), "…") + "”")
	}
	bar := m.progress.ViewAs(view.Progress)

	var block string
	switch m.variant.Loader {
	case generation.LoaderSwirl:
		swirl := renderSwirl(m.layout.loaderWidth, m.layout.loaderHeight-2, m.elapsed(), m.variant.Palette)
		block = lipgloss.JoinVertical(lipgloss.Center,
			swirl,
			gradientText(loadingCaption, gradientStops, false),
			bar,
			echo,
		)
	default:
		line := fmt.Sprintf("%s %s", helperStyle.Render(dotsCaption), m.spinner.View())
		block = lipgloss.JoinVertical(lipgloss.Center, line, bar, echo)
	}
	return lipgloss.PlaceHorizontal(m.layout.contentWidth, lipgloss.Center, block)
}

func (m *model) gridView(view generation.View) string {
	results := m.controller.Snapshot().Results
	rows := make([]string, 0, generation.GridRows)
	for row := 0; row < generation.GridRows; row++ {
		var cells []string
		for col := 0; col < generation.GridColumns; col++ {
			idx := row*generation.GridColumns + col
			if idx >= len(results) {
				break
			}
			if col > 0 {
				cells = append(cells, "  ")
			}
			cells = append(cells, m.squareView(results[idx], idx == view.Selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if m.prompt != "" {
		caption := helperStyle.Render("for “" + truncate.StringWithTail(m.prompt, uint(max(m.layout.contentWidth-8, 8)), "…") + "”")
		grid = lipgloss.JoinVertical(lipgloss.Center, grid, caption)
	}
	return lipgloss.PlaceHorizontal(m.layout.contentWidth, lipgloss.Center, grid)
}

func (m *model) squareView(item generation.ResultItem, active bool) string {
	fill := lipgloss.Color(item.Color.Hex)
	label := squareLabelStyle.Background(fill).Render(fmt.Sprintf("%d", item.Index+1))
	body := lipgloss.NewStyle().
		Width(m.layout.squareWidth).
		Height(m.layout.squareHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Background(fill).
		Render(label)
	if active {
		return squareActiveStyle.Render(body)
	}
	return squareStyle.BorderForeground(lipgloss.Color(dimmed(item.Color.Hex, 0.3))).Render(body)
}

func (m *model) inputBarView(view generation.View) string {
	width := int(m.inputSpring.Value() + 0.5)
	if width < 1 {
		width = 1
	}
	m.input.Width = width

	send := sendOffStyle.Render("➤")
	if view.SubmitEnabled {
		send = sendStyle.Render("➤")
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center,
		galleryStyle.Render("▣"),
		"  ",
		lipgloss.NewStyle().Width(width).Render(m.input.View()),
		"  ",
		send,
	)
	return lipgloss.PlaceHorizontal(m.layout.contentWidth, lipgloss.Center, inputBarStyle.Render(row))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func (m *model) sessionMeterView() string {
	snap := m.controller.Snapshot()
	stats := []string{
		m.variant.Title,
		fmt.Sprintf("Phase %s", snap.Phase),
		fmt.Sprintf("Delay %s", snap.Delay),
	}
	if snap.HasSelection() {
		stats = append(stats, fmt.Sprintf("Selected #%d", snap.Selected+1))
	}
	if badges := m.jobStatusBadges(); len(badges) > 0 {
		stats = append(stats, badges...)
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	var badges []string
	if n := len(m.activeJobs); n > 0 {
		badges = append(badges, fmt.Sprintf("Jobs %d running", n))
	}
	if m.lastJob.ID != "" {
		badges = append(badges, fmt.Sprintf("Last %s %s", m.lastJob.Kind, m.lastJob.Status))
	}
	return badges
}

func (m *model) phaseBindings() []key.Binding {
	switch m.phase() {
	case generation.PhaseGenerating:
		return []key.Binding{m.keys.Reset, m.keys.Back, m.keys.Quit}
	case generation.PhaseComplete:
		return []key.Binding{m.keys.Left, m.keys.Right, m.keys.Pick, m.keys.Reset, m.keys.Back}
	default:
		return []key.Binding{m.keys.Submit, m.keys.Focus, m.keys.Back, m.keys.Quit}
	}
}

func renderLogo() string {
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	// shadow first, offset one cell down and right, then the face on top
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
