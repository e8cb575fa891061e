package tui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/imoji/internal/generation"
)

// Config wires runtime options into the TUI program.
type Config struct {
	// Variants listed on the home screen. Defaults to the built-in set.
	Variants []generation.Variant
	// Start opens the named variant directly instead of the home screen.
	Start         string
	Clock         generation.Clock
	Observer      generation.Observer
	FrameInterval time.Duration
	Particles     bool
	// Seed drives particle placement; zero picks one from the clock.
	Seed int64
}

var dotsSpinner = spinner.Spinner{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    time.Second / 6,
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if len(config.Variants) == 0 {
		config.Variants = generation.Variants()
	}
	if config.FrameInterval <= 0 {
		config.FrameInterval = defaultFrameRate
	}
	if config.Clock == nil {
		config.Clock = generation.SystemClock()
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}

	input := textinput.New()
	input.Placeholder = inputPlaceholder
	input.Prompt = ""
	input.CharLimit = 120
	input.Width = expandedInputWidth

	spin := spinner.New()
	spin.Spinner = dotsSpinner

	bar := progress.New(
		progress.WithGradient(gradientStops[0], gradientStops[len(gradientStops)-1]),
		progress.WithoutPercentage(),
		progress.WithWidth(32),
	)

	now := config.Clock.Now()
	m := &model{
		config:      config,
		screen:      screenHome,
		input:       input,
		spinner:     spin,
		progress:    bar,
		help:        help.New(),
		keys:        newKeyMap(),
		layout:      newPageLayout(),
		jobs:        newJobBus(),
		activeJobs:  map[string]jobSnapshot{},
		particles:   newParticleField(config.Seed, particleCount),
		startedAt:   now,
		now:         now,
		infoMessage: "Pick a screen to begin.",
	}
	m.inputSpring = newSpringValue(config.FrameInterval, 0.4, 0.7, float64(m.layout.inputExpanded))
	m.particles.Resize(m.layout.contentWidth, particleRows)

	if name := strings.ToLower(strings.TrimSpace(config.Start)); name != "" {
		for i, v := range config.Variants {
			if v.Name == name {
				m.homeCursor = i
				m.openVariant(v)
				// Init starts the frame loop; the command from openVariant is dropped here.
				m.frameScheduled = false
				break
			}
		}
	}
	return m
}

type model struct {
	config Config
	screen screen

	homeCursor int
	variant    generation.Variant
	controller *generation.Controller
	ticket     generation.Ticket
	prompt     string

	input       textinput.Model
	spinner     spinner.Model
	progress    progress.Model
	help        help.Model
	keys        keyMap
	layout      pageLayout
	particles   *particleField
	inputSpring springValue

	jobs       *jobBus
	activeJobs map[string]jobSnapshot
	lastJob    jobSnapshot

	startedAt      time.Time
	now            time.Time
	frameScheduled bool

	infoMessage  string
	errorMessage string
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.ensureFrameLoop())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.screen == screenHome {
			return m, m.handleHomeKey(msg)
		}
		return m, m.handleGenerateKey(msg)
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.help.Width = m.layout.contentWidth
		m.progress.Width = min(m.layout.loaderWidth, 48)
		m.particles.Resize(m.layout.contentWidth, particleRows)
		m.refreshInputTarget()
		m.inputSpring.Jump(m.inputSpring.target)
		return m, nil
	case frameMsg:
		m.frameScheduled = false
		m.now = time.Time(msg)
		m.inputSpring.Step()
		return m, m.ensureFrameLoop()
	case spinner.TickMsg:
		if m.phase() == generation.PhaseGenerating && m.variant.Loader == generation.LoaderDots {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.activeJobs[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.activeJobs, msg.Snapshot.ID)
		m.lastJob = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case generationDoneMsg:
		return m, m.handleGenerationDone(msg)
	}
	if m.screen == screenGenerate {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) phase() generation.Phase {
	if m.controller == nil {
		return generation.PhaseIdle
	}
	return m.controller.Snapshot().Phase
}

func (m *model) handleHomeKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.homeCursor > 0 {
			m.homeCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.homeCursor < len(m.config.Variants)-1 {
			m.homeCursor++
		}
	case key.Matches(msg, m.keys.Open):
		return m.openVariant(m.config.Variants[m.homeCursor])
	case key.Matches(msg, m.keys.Pick):
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(m.config.Variants) {
			m.homeCursor = idx
			return m.openVariant(m.config.Variants[idx])
		}
	case key.Matches(msg, m.keys.Back), msg.String() == "q":
		return tea.Quit
	}
	return nil
}

func (m *model) openVariant(v generation.Variant) tea.Cmd {
	m.variant = v
	m.controller = generation.NewControllerForVariant(v,
		generation.WithClock(m.config.Clock),
		generation.WithObserver(m.config.Observer),
	)
	m.ticket = generation.Ticket{}
	m.prompt = ""
	m.screen = screenGenerate
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("%s: describe an emoji and press Enter.", v.Title)
	m.input.SetValue("")
	var cmd tea.Cmd
	if v.ExpandOnFocus {
		m.input.Blur()
	} else {
		cmd = m.input.Focus()
	}
	m.refreshInputTarget()
	m.inputSpring.Jump(m.inputSpring.target)
	log.Printf("[tui] opened %s (delay=%s)", v.Name, v.Delay)
	return tea.Batch(cmd, m.ensureFrameLoop())
}

func (m *model) goHome() tea.Cmd {
	if m.controller != nil {
		m.controller.Reset()
	}
	m.controller = nil
	m.ticket = generation.Ticket{}
	m.prompt = ""
	m.screen = screenHome
	m.input.SetValue("")
	m.input.Blur()
	m.errorMessage = ""
	m.infoMessage = "Pick a screen to begin."
	return nil
}

func (m *model) handleGenerateKey(msg tea.KeyMsg) tea.Cmd {
	switch m.phase() {
	case generation.PhaseGenerating:
		switch {
		case key.Matches(msg, m.keys.Reset):
			return m.reset("Generation cancelled.")
		case key.Matches(msg, m.keys.Back):
			return m.goHome()
		}
		return nil
	case generation.PhaseComplete:
		return m.handleResultKey(msg)
	default:
		return m.handleComposeKey(msg)
	}
}

func (m *model) handleComposeKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case msg.String() == "ctrl+r":
		return m.reset("Cleared.")
	case key.Matches(msg, m.keys.Focus):
		var cmd tea.Cmd
		if m.input.Focused() {
			m.input.Blur()
		} else {
			cmd = m.input.Focus()
		}
		m.refreshInputTarget()
		return tea.Batch(cmd, m.ensureFrameLoop())
	case key.Matches(msg, m.keys.Back):
		if m.input.Focused() && m.variant.ExpandOnFocus {
			m.input.Blur()
			m.refreshInputTarget()
			return m.ensureFrameLoop()
		}
		return m.goHome()
	}

	var cmds []tea.Cmd
	if !m.input.Focused() {
		if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
			return nil
		}
		cmds = append(cmds, m.input.Focus())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.controller.SetText(m.input.Value())
	m.errorMessage = ""
	m.refreshInputTarget()
	cmds = append(cmds, cmd, m.ensureFrameLoop())
	return tea.Batch(cmds...)
}

func (m *model) submit() tea.Cmd {
	text := m.input.Value()
	if !m.controller.CanSubmit(text) {
		m.errorMessage = "Describe your emoji first."
		return nil
	}
	ticket, ok := m.controller.Submit(text)
	if !ok {
		return nil
	}
	m.ticket = ticket
	m.prompt = ticket.Prompt
	m.input.SetValue("")
	m.input.Blur()
	m.errorMessage = ""
	m.infoMessage = ""
	m.refreshInputTarget()
	return tea.Batch(
		m.jobs.Start(ticket.Context(), jobKindGenerate, generateJob(m.controller, ticket)),
		m.spinner.Tick,
		m.ensureFrameLoop(),
	)
}

func (m *model) handleGenerationDone(msg generationDoneMsg) tea.Cmd {
	if m.controller == nil {
		return nil
	}
	if msg.err != nil {
		log.Printf("[tui] generation %s dropped: %v", msg.ticket.ID, msg.err)
		return nil
	}
	if msg.ticket.ID != m.ticket.ID || !m.controller.Complete(msg.ticket, msg.at) {
		return nil
	}
	m.ticket = generation.Ticket{}
	m.infoMessage = "Pick a result with the arrow keys or 1-4. Press r to start over."
	return nil
}

func (m *model) handleResultKey(msg tea.KeyMsg) tea.Cmd {
	snap := m.controller.Snapshot()
	switch {
	case key.Matches(msg, m.keys.Reset):
		return m.reset("Ready for another emoji.")
	case key.Matches(msg, m.keys.Back):
		return m.goHome()
	case key.Matches(msg, m.keys.Left):
		m.selectResult(generation.GridMove(snap.Selected, -1, 0))
	case key.Matches(msg, m.keys.Right):
		m.selectResult(generation.GridMove(snap.Selected, 1, 0))
	case key.Matches(msg, m.keys.Up):
		m.selectResult(generation.GridMove(snap.Selected, 0, -1))
	case key.Matches(msg, m.keys.Down):
		m.selectResult(generation.GridMove(snap.Selected, 0, 1))
	case key.Matches(msg, m.keys.Pick):
		m.selectResult(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Submit):
		if snap.HasSelection() {
			m.infoMessage = fmt.Sprintf("You picked the %s emoji.", snap.Results[snap.Selected].Color.Name)
		}
	}
	return nil
}

func (m *model) selectResult(index int) {
	if !m.controller.Select(index) {
		return
	}
	snap := m.controller.Snapshot()
	m.infoMessage = fmt.Sprintf("Selected #%d (%s).", index+1, snap.Results[index].Color.Name)
}

func (m *model) reset(message string) tea.Cmd {
	m.controller.Reset()
	m.ticket = generation.Ticket{}
	m.prompt = ""
	m.input.SetValue("")
	m.errorMessage = ""
	m.infoMessage = message
	var cmd tea.Cmd
	if !m.variant.ExpandOnFocus {
		cmd = m.input.Focus()
	}
	m.refreshInputTarget()
	return tea.Batch(cmd, m.ensureFrameLoop())
}

func (m *model) projection() generation.View {
	if m.controller == nil {
		return generation.View{Selected: generation.NoSelection}
	}
	return generation.Project(m.controller.Snapshot(), m.variant, m.input.Focused(), m.controller.Now())
}

func (m *model) refreshInputTarget() {
	target := m.layout.inputCondensed
	if m.screen == screenGenerate && m.projection().InputExpanded {
		target = m.layout.inputExpanded
	}
	m.inputSpring.SetTarget(float64(target))
}

func (m *model) animating() bool {
	if m.screen != screenGenerate {
		return false
	}
	return m.config.Particles || m.phase() == generation.PhaseGenerating || !m.inputSpring.Settled()
}

// ensureFrameLoop keeps exactly one frame tick in flight while something is
// animating.
func (m *model) ensureFrameLoop() tea.Cmd {
	if m.frameScheduled || !m.animating() {
		return nil
	}
	m.frameScheduled = true
	return frameCmd(m.config.FrameInterval)
}

func (m *model) elapsed() time.Duration {
	return m.now.Sub(m.startedAt)
}
