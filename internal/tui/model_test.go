package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/imoji/internal/generation"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func openClassic(t *testing.T) (*model, *stepClock) {
	t.Helper()
	m, clock := newTestModel(t)
	press(m, keyRunes("1"))
	if m.screen != screenGenerate || m.variant.Name != generation.VariantClassic {
		t.Fatalf("expected classic screen, got screen=%v variant=%q", m.screen, m.variant.Name)
	}
	return m, clock
}

func submitPrompt(t *testing.T, m *model, prompt string) generation.Ticket {
	t.Helper()
	press(m, keyRunes(prompt))
	if cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Fatal("submit should start the generation job")
	}
	if phase := m.phase(); phase != generation.PhaseGenerating {
		t.Fatalf("phase = %s, want generating", phase)
	}
	return m.ticket
}

func completeGeneration(t *testing.T, m *model, clock *stepClock) {
	t.Helper()
	clock.Advance(m.variant.Delay)
	press(m, jobResultEnvelope{
		Snapshot: jobSnapshot{ID: "generate-1", Kind: jobKindGenerate, Status: jobStatusSucceeded},
		Payload:  generationDoneMsg{ticket: m.ticket, at: clock.Now()},
	})
	if phase := m.phase(); phase != generation.PhaseComplete {
		t.Fatalf("phase = %s, want complete", phase)
	}
}

func TestHomeOpensVariantByNumber(t *testing.T) {
	m, _ := newTestModel(t)
	if m.screen != screenHome {
		t.Fatalf("expected home screen, got %v", m.screen)
	}
	press(m, keyRunes("2"))
	if m.variant.Name != generation.VariantExperience {
		t.Fatalf("expected experience variant, got %q", m.variant.Name)
	}
	if m.input.Focused() {
		t.Fatal("experience input should start blurred")
	}
}

func TestHomeCursorOpensWithEnter(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.homeCursor != 1 {
		t.Fatalf("cursor should clamp at the last item, got %d", m.homeCursor)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenGenerate || m.variant.Name != generation.VariantExperience {
		t.Fatalf("enter should open the highlighted variant, got %q", m.variant.Name)
	}
}

func TestStartVariantOpensDirectly(t *testing.T) {
	teaModel := New(Config{Start: "Experience", Clock: newStepClock()})
	m := teaModel.(*model)
	if m.screen != screenGenerate || m.variant.Name != generation.VariantExperience {
		t.Fatalf("start variant not opened: screen=%v variant=%q", m.screen, m.variant.Name)
	}
	if m.homeCursor != 1 {
		t.Fatalf("home cursor should follow the start variant, got %d", m.homeCursor)
	}
}

func TestTypingMirrorsIntoController(t *testing.T) {
	m, _ := openClassic(t)
	press(m, keyRunes("cat"))
	snap := m.controller.Snapshot()
	if snap.Phase != generation.PhaseComposing || snap.Text != "cat" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !m.projection().SubmitEnabled {
		t.Fatal("submit should be enabled with text")
	}
}

func TestSubmitStartsGeneration(t *testing.T) {
	m, _ := openClassic(t)
	ticket := submitPrompt(t, m, "smile")

	if ticket.Prompt != "smile" || m.prompt != "smile" {
		t.Fatalf("prompt not recorded: ticket=%q model=%q", ticket.Prompt, m.prompt)
	}
	if m.input.Value() != "" || m.input.Focused() {
		t.Fatalf("input should be cleared and blurred, got %q focused=%v", m.input.Value(), m.input.Focused())
	}
	if !m.frameScheduled {
		t.Fatal("frame loop should run while generating")
	}
	if !m.projection().ShowLoading {
		t.Fatal("loader should be visible while generating")
	}
}

func TestEmptySubmitIsRejected(t *testing.T) {
	m, _ := openClassic(t)
	if cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("empty submit should not start a job, got %T", cmd)
	}
	if m.phase() != generation.PhaseIdle {
		t.Fatalf("empty input should not start a generation, phase=%s", m.phase())
	}
	if m.errorMessage == "" {
		t.Fatal("expected an error hint")
	}
	if m.projection().SubmitEnabled {
		t.Fatal("send should stay disabled without text")
	}
}

func TestWhitespaceSubmitStartsGeneration(t *testing.T) {
	m, _ := openClassic(t)
	ticket := submitPrompt(t, m, "  ")
	if ticket.Prompt != "  " {
		t.Fatalf("prompt should be recorded as typed, got %q", ticket.Prompt)
	}
	if m.errorMessage != "" {
		t.Fatalf("unexpected error %q", m.errorMessage)
	}
}

func TestGenerationDoneCompletes(t *testing.T) {
	m, clock := openClassic(t)
	submitPrompt(t, m, "smile")
	completeGeneration(t, m, clock)

	snap := m.controller.Snapshot()
	if len(snap.Results) != generation.ResultCount {
		t.Fatalf("expected %d results, got %d", generation.ResultCount, len(snap.Results))
	}
	if snap.HasSelection() {
		t.Fatal("selection should start empty")
	}
	if m.lastJob.Status != jobStatusSucceeded {
		t.Fatalf("last job not recorded: %+v", m.lastJob)
	}
	if !m.projection().ShowGrid || !m.projection().ShowReset {
		t.Fatal("grid and reset should be visible")
	}
}

func TestCancelledDoneIsIgnored(t *testing.T) {
	m, clock := openClassic(t)
	ticket := submitPrompt(t, m, "smile")
	clock.Advance(time.Minute)
	press(m, generationDoneMsg{ticket: ticket, at: clock.Now(), err: context.Canceled})
	if m.phase() != generation.PhaseGenerating {
		t.Fatalf("failed wait must not complete, phase=%s", m.phase())
	}
}

func TestStaleDoneIgnoredAfterReset(t *testing.T) {
	m, clock := openClassic(t)
	stale := submitPrompt(t, m, "first")

	press(m, keyRunes("r"))
	if m.phase() != generation.PhaseIdle {
		t.Fatalf("reset should return to idle, got %s", m.phase())
	}
	if !errors.Is(stale.Context().Err(), context.Canceled) {
		t.Fatal("reset should cancel the pending ticket")
	}

	clock.Advance(2 * time.Second)
	current := submitPrompt(t, m, "second")

	clock.Advance(3 * time.Second)
	press(m, generationDoneMsg{ticket: stale, at: clock.Now()})
	if m.phase() != generation.PhaseGenerating {
		t.Fatalf("stale completion leaked into the new generation, phase=%s", m.phase())
	}

	clock.Advance(2 * time.Second)
	press(m, generationDoneMsg{ticket: current, at: clock.Now()})
	if m.phase() != generation.PhaseComplete {
		t.Fatalf("current ticket should complete, phase=%s", m.phase())
	}
}

func TestResultSelectionKeys(t *testing.T) {
	m, clock := openClassic(t)
	submitPrompt(t, m, "smile")
	completeGeneration(t, m, clock)

	steps := []struct {
		msg  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyRight}, 0},
		{tea.KeyMsg{Type: tea.KeyRight}, 1},
		{tea.KeyMsg{Type: tea.KeyDown}, 3},
		{keyRunes("l"), 3},
		{keyRunes("3"), 2},
		{tea.KeyMsg{Type: tea.KeyUp}, 0},
	}
	for i, step := range steps {
		press(m, step.msg)
		if got := m.controller.Snapshot().Selected; got != step.want {
			t.Fatalf("step %d (%s): selected=%d want %d", i, step.msg, got, step.want)
		}
	}
	if !strings.Contains(m.infoMessage, "#1") {
		t.Fatalf("info should name the selection, got %q", m.infoMessage)
	}
}

func TestResetFromCompleteRestoresComposer(t *testing.T) {
	m, clock := openClassic(t)
	submitPrompt(t, m, "smile")
	completeGeneration(t, m, clock)
	press(m, keyRunes("2"))

	press(m, keyRunes("r"))
	snap := m.controller.Snapshot()
	if snap.Phase != generation.PhaseIdle || snap.Selected != generation.NoSelection || len(snap.Results) != 0 {
		t.Fatalf("reset left state behind: %+v", snap)
	}
	if !m.input.Focused() {
		t.Fatal("classic input should refocus after reset")
	}
	if m.prompt != "" {
		t.Fatalf("prompt echo should clear, got %q", m.prompt)
	}
	if !m.projection().ShowPlaceholder {
		t.Fatal("placeholder should return after reset")
	}
}

func TestEscWhileGeneratingGoesHome(t *testing.T) {
	m, _ := openClassic(t)
	ticket := submitPrompt(t, m, "smile")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenHome || m.controller != nil {
		t.Fatalf("esc should return home, screen=%v", m.screen)
	}
	if ticket.Context().Err() == nil {
		t.Fatal("leaving the screen should cancel the generation")
	}
	press(m, generationDoneMsg{ticket: ticket, at: time.Now(), err: context.Canceled})
	if m.screen != screenHome {
		t.Fatal("late done message should be ignored on the home screen")
	}
}

func TestExperienceInputCondensesUntilFocused(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, keyRunes("2"))

	if m.inputSpring.target != float64(m.layout.inputCondensed) {
		t.Fatalf("blurred idle input should condense, target=%v", m.inputSpring.target)
	}
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.input.Focused() {
		t.Fatal("tab should focus the input")
	}
	if m.inputSpring.target != float64(m.layout.inputExpanded) {
		t.Fatalf("focused input should expand, target=%v", m.inputSpring.target)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.input.Focused() || m.screen != screenGenerate {
		t.Fatal("esc should blur the input before leaving the screen")
	}
	press(m, keyRunes("x"))
	if !m.input.Focused() || m.input.Value() != "x" {
		t.Fatalf("typing should refocus the input, value=%q", m.input.Value())
	}
}

func TestSpringAnimatesTowardTarget(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, keyRunes("2"))
	press(m, tea.KeyMsg{Type: tea.KeyTab})

	start := m.inputSpring.Value()
	for i := 0; i < 200 && !m.inputSpring.Settled(); i++ {
		press(m, frameMsg(time.Now()))
	}
	if m.inputSpring.Value() <= start {
		t.Fatalf("spring did not move: %v -> %v", start, m.inputSpring.Value())
	}
	if !m.inputSpring.Settled() || m.inputSpring.Value() != float64(m.layout.inputExpanded) {
		t.Fatalf("spring should settle on the expanded width, got %v", m.inputSpring.Value())
	}
}

func TestFrameLoopStopsWhenNothingAnimates(t *testing.T) {
	m, _ := openClassic(t)
	m.frameScheduled = false
	if cmd := press(m, frameMsg(time.Now())); cmd != nil {
		t.Fatalf("idle screen without particles should not schedule frames, got %T", cmd)
	}
	submitPrompt(t, m, "smile")
	m.frameScheduled = false
	if cmd := press(m, frameMsg(time.Now())); cmd == nil {
		t.Fatal("generating screen should keep the frame loop alive")
	}
}

func TestWindowResizeUpdatesLayout(t *testing.T) {
	m, _ := openClassic(t)
	press(m, tea.WindowSizeMsg{Width: 200, Height: 50})
	if m.layout.contentWidth != 196 {
		t.Fatalf("content width = %d", m.layout.contentWidth)
	}
	if m.inputSpring.Value() != float64(m.layout.inputExpanded) {
		t.Fatalf("resize should jump the input width, got %v", m.inputSpring.Value())
	}
	if m.help.Width != 196 {
		t.Fatalf("help width = %d", m.help.Width)
	}
}

func TestViewFollowsPhase(t *testing.T) {
	m, clock := newTestModel(t)
	if view := plain(m.View()); !strings.Contains(view, homeTitle) {
		t.Fatalf("home view missing title:\n%s", view)
	}

	press(m, keyRunes("1"))
	view := plain(m.View())
	for _, want := range []string{heroTagline, placeholderFace, "Phase idle"} {
		if !strings.Contains(view, want) {
			t.Fatalf("idle view missing %q:\n%s", want, view)
		}
	}

	submitPrompt(t, m, "smile")
	view = plain(m.View())
	if !strings.Contains(view, dotsCaption) || strings.Contains(view, heroTagline) {
		t.Fatalf("generating view should show the loader only:\n%s", view)
	}

	completeGeneration(t, m, clock)
	view = plain(m.View())
	for _, want := range []string{"start over", "Phase complete", "Last generate succeeded"} {
		if !strings.Contains(view, want) {
			t.Fatalf("complete view missing %q:\n%s", want, view)
		}
	}
}
