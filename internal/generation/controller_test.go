package generation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []manualWaiter
}

type manualWaiter struct {
	at time.Time
	ch chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	c.waiters = append(c.waiters, manualWaiter{at: c.now.Add(d), ch: ch})
	return ch
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	pending := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.at.After(c.now) {
			w.ch <- c.now
			continue
		}
		pending = append(pending, w)
	}
	c.waiters = pending
}

func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

type recordingObserver struct {
	mu       sync.Mutex
	started  []Ticket
	outcomes []Outcome
}

func (o *recordingObserver) GenerationStarted(t Ticket) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, t)
}

func (o *recordingObserver) GenerationFinished(_ Ticket, outcome Outcome, _ time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func newTestController(t *testing.T) (*Controller, *manualClock) {
	t.Helper()
	clock := newManualClock()
	return NewController(5*time.Second, ClassicPalette, WithClock(clock)), clock
}

func TestSubmitEmptyIsNoop(t *testing.T) {
	c, _ := newTestController(t)

	_, ok := c.Submit("")
	assert.False(t, ok)
	assert.Equal(t, PhaseIdle, c.Snapshot().Phase)

	c.SetText("draft")
	assert.False(t, c.CanSubmit(""))
	_, ok = c.Submit("")
	assert.False(t, ok)
	snap := c.Snapshot()
	assert.Equal(t, PhaseComposing, snap.Phase)
	assert.Equal(t, "draft", snap.Text)
}

func TestWhitespaceIsSubmittedAsTyped(t *testing.T) {
	c, _ := newTestController(t)

	c.SetText(" ")
	snap := c.Snapshot()
	assert.Equal(t, PhaseComposing, snap.Phase)
	assert.Equal(t, " ", snap.Text)
	assert.True(t, c.CanSubmit(" "))

	ticket, ok := c.Submit("   ")
	require.True(t, ok)
	assert.Equal(t, "   ", ticket.Prompt)
	assert.Equal(t, PhaseGenerating, c.Snapshot().Phase)

	c.Reset()
	ticket, ok = c.Submit("  smile  ")
	require.True(t, ok)
	assert.Equal(t, "  smile  ", ticket.Prompt)
}

func TestSetTextTogglesComposing(t *testing.T) {
	c, _ := newTestController(t)

	c.SetText("cat")
	assert.Equal(t, PhaseComposing, c.Snapshot().Phase)
	c.SetText("")
	snap := c.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Empty(t, snap.Text)
}

func TestSubmitStartsGeneratingAndClearsText(t *testing.T) {
	c, clock := newTestController(t)
	c.SetText("smile")

	ticket, ok := c.Submit("smile")
	require.True(t, ok)

	snap := c.Snapshot()
	assert.Equal(t, PhaseGenerating, snap.Phase)
	assert.Empty(t, snap.Text)
	assert.Equal(t, clock.Now(), snap.StartedAt)
	assert.Equal(t, "smile", ticket.Prompt)
	assert.Equal(t, clock.Now().Add(5*time.Second), ticket.Deadline)
	assert.NotEmpty(t, ticket.ID)
	assert.NoError(t, ticket.Context().Err())
}

func TestSubmitIgnoredWhileGenerating(t *testing.T) {
	c, _ := newTestController(t)
	first, ok := c.Submit("one")
	require.True(t, ok)

	_, ok = c.Submit("two")
	assert.False(t, ok)
	assert.Equal(t, first.ID, c.Snapshot().TicketID)
}

func TestTickBeforeDelayKeepsGenerating(t *testing.T) {
	c, clock := newTestController(t)
	_, ok := c.Submit("smile")
	require.True(t, ok)

	assert.False(t, c.Tick(clock.Now().Add(4999*time.Millisecond)))
	assert.Equal(t, PhaseGenerating, c.Snapshot().Phase)
}

func TestTickAtDelayCompletesWithFourItems(t *testing.T) {
	c, clock := newTestController(t)
	ticket, ok := c.Submit("smile")
	require.True(t, ok)

	require.True(t, c.Tick(clock.Now().Add(5*time.Second)))
	snap := c.Snapshot()
	assert.Equal(t, PhaseComplete, snap.Phase)
	require.Len(t, snap.Results, ResultCount)
	for i, item := range snap.Results {
		assert.Equal(t, i, item.Index)
		assert.Equal(t, ClassicPalette[i], item.Color)
	}
	assert.False(t, snap.HasSelection())
	assert.ErrorIs(t, ticket.Context().Err(), context.Canceled)
}

func TestTickOutsideGeneratingIsNoop(t *testing.T) {
	c, clock := newTestController(t)
	assert.False(t, c.Tick(clock.Now().Add(time.Hour)))
	assert.Equal(t, PhaseIdle, c.Snapshot().Phase)
}

func TestSelectOnlyInComplete(t *testing.T) {
	c, clock := newTestController(t)

	assert.False(t, c.Select(1))
	_, ok := c.Submit("smile")
	require.True(t, ok)
	assert.False(t, c.Select(1))
	assert.Equal(t, NoSelection, c.Snapshot().Selected)

	require.True(t, c.Tick(clock.Now().Add(5*time.Second)))
	assert.True(t, c.Select(1))
	assert.Equal(t, 1, c.Snapshot().Selected)

	assert.False(t, c.Select(ResultCount))
	assert.False(t, c.Select(-1))
	assert.Equal(t, 1, c.Snapshot().Selected)
}

func TestResetFromEveryPhase(t *testing.T) {
	setups := map[string]func(c *Controller, clock *manualClock){
		"idle":      func(*Controller, *manualClock) {},
		"composing": func(c *Controller, _ *manualClock) { c.SetText("draft") },
		"generating": func(c *Controller, _ *manualClock) {
			c.Submit("smile")
		},
		"complete": func(c *Controller, clock *manualClock) {
			c.Submit("smile")
			c.Tick(clock.Now().Add(5 * time.Second))
			c.Select(3)
		},
	}
	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			c, clock := newTestController(t)
			setup(c, clock)

			c.Reset()
			snap := c.Snapshot()
			assert.Equal(t, PhaseIdle, snap.Phase)
			assert.Empty(t, snap.Text)
			assert.Equal(t, NoSelection, snap.Selected)
			assert.Empty(t, snap.Results)
			assert.Empty(t, snap.TicketID)
		})
	}
}

func TestStaleTicketCannotCompleteLaterGeneration(t *testing.T) {
	c, clock := newTestController(t)
	stale, ok := c.Submit("first")
	require.True(t, ok)

	c.Reset()
	assert.ErrorIs(t, stale.Context().Err(), context.Canceled)

	clock.Advance(2 * time.Second)
	current, ok := c.Submit("second")
	require.True(t, ok)

	clock.Advance(3 * time.Second)
	assert.False(t, c.Complete(stale, clock.Now()), "stale ticket must be ignored")
	assert.Equal(t, PhaseGenerating, c.Snapshot().Phase)

	clock.Advance(2 * time.Second)
	assert.True(t, c.Complete(current, clock.Now()))
	assert.Equal(t, PhaseComplete, c.Snapshot().Phase)
}

func TestCompleteRejectsZeroTicket(t *testing.T) {
	c, clock := newTestController(t)
	_, ok := c.Submit("smile")
	require.True(t, ok)
	assert.False(t, c.Complete(Ticket{}, clock.Now().Add(time.Minute)))
}

func TestWaitReturnsAtDeadline(t *testing.T) {
	c, clock := newTestController(t)
	ticket, ok := c.Submit("smile")
	require.True(t, ok)

	errc := make(chan error, 1)
	go func() { errc <- c.Wait(context.Background(), ticket) }()

	require.Eventually(t, func() bool { return clock.Pending() == 1 }, time.Second, time.Millisecond)
	clock.Advance(5 * time.Second)

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("wait did not return after the deadline")
	}
	assert.True(t, c.Complete(ticket, clock.Now()))
}

func TestWaitCancelledByReset(t *testing.T) {
	c, clock := newTestController(t)
	ticket, ok := c.Submit("smile")
	require.True(t, ok)

	errc := make(chan error, 1)
	go func() { errc <- c.Wait(context.Background(), ticket) }()
	require.Eventually(t, func() bool { return clock.Pending() == 1 }, time.Second, time.Millisecond)

	c.Reset()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("wait did not observe reset")
	}
}

func TestWaitHonoursCallerContext(t *testing.T) {
	c, _ := newTestController(t)
	ticket, ok := c.Submit("smile")
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Wait(ctx, ticket), context.DeadlineExceeded)
}

func TestWaitOnZeroTicket(t *testing.T) {
	c, _ := newTestController(t)
	assert.ErrorIs(t, c.Wait(context.Background(), Ticket{}), context.Canceled)
}

func TestObserverSeesLifecycle(t *testing.T) {
	clock := newManualClock()
	obs := &recordingObserver{}
	c := NewController(3*time.Second, ExperiencePalette, WithClock(clock), WithObserver(obs))

	c.Submit("one")
	c.Reset()
	c.Submit("two")
	c.Tick(clock.Now().Add(3 * time.Second))
	c.Reset()

	require.Len(t, obs.started, 2)
	assert.Equal(t, []Outcome{OutcomeCancelled, OutcomeCompleted}, obs.outcomes)
}

func TestScenarioSmile(t *testing.T) {
	c, clock := newTestController(t)
	t0 := clock.Now()

	_, ok := c.Submit("smile")
	require.True(t, ok)
	assert.Equal(t, t0, c.Snapshot().StartedAt)

	require.True(t, c.Tick(t0.Add(5*time.Second)))
	require.Len(t, c.Snapshot().Results, 4)

	require.True(t, c.Select(2))
	assert.Equal(t, 2, c.Snapshot().Selected)

	c.Reset()
	snap := c.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, NoSelection, snap.Selected)
}

func TestSnapshotProgress(t *testing.T) {
	c, clock := newTestController(t)
	assert.Zero(t, c.Snapshot().Progress(clock.Now()))

	c.Submit("smile")
	snap := c.Snapshot()
	assert.InDelta(t, 0.5, snap.Progress(clock.Now().Add(2500*time.Millisecond)), 1e-9)
	assert.Equal(t, 1.0, snap.Progress(clock.Now().Add(time.Minute)))
}

func TestLookupVariant(t *testing.T) {
	v, err := LookupVariant(" Experience ")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, v.Delay)
	assert.Equal(t, LoaderSwirl, v.Loader)

	_, err = LookupVariant("home")
	assert.Error(t, err)

	all := Variants()
	require.Len(t, all, 2)
	all[0].Delay = 0
	classic, err := LookupVariant(VariantClassic)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, classic.Delay, "Variants must return a copy")
}
