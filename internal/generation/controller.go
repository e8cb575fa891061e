package generation

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is the active generation state. Exactly one phase is active at a time.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseComposing
	PhaseGenerating
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseComposing:
		return "composing"
	case PhaseGenerating:
		return "generating"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ResultItem is one placeholder result. Items are created on completion and
// discarded on reset.
type ResultItem struct {
	Index int
	Color Color
}

// NoSelection marks an empty selection cursor.
const NoSelection = -1

// Clock supplies time to the controller.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Ticket identifies one generation. Its context is cancelled when the
// generation is reset or finishes.
type Ticket struct {
	ID        string
	Epoch     uint64
	Prompt    string
	StartedAt time.Time
	Deadline  time.Time

	ctx context.Context
}

// Context returns the ticket's cancellation context. A zero Ticket reports an
// already-cancelled context.
func (t Ticket) Context() context.Context {
	if t.ctx == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return t.ctx
}

// Outcome describes how a generation ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
)

// Observer is notified about generation lifecycle events. Calls happen outside
// the controller lock.
type Observer interface {
	GenerationStarted(t Ticket)
	GenerationFinished(t Ticket, outcome Outcome, at time.Time)
}

// Option customises a Controller.
type Option func(*Controller)

// WithClock overrides the wall clock.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithObserver registers a lifecycle observer.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		c.observer = observer
	}
}

// Controller owns the generation state and its timed transition.
type Controller struct {
	mu       sync.Mutex
	clock    Clock
	observer Observer
	delay    time.Duration
	palette  Palette

	phase     Phase
	text      string
	startedAt time.Time
	results   []ResultItem
	selected  int

	epoch  uint64
	ticket Ticket
	cancel context.CancelFunc
}

// NewController builds an idle controller that completes generations after delay.
func NewController(delay time.Duration, palette Palette, opts ...Option) *Controller {
	c := &Controller{
		clock:    SystemClock(),
		delay:    delay,
		palette:  palette,
		phase:    PhaseIdle,
		selected: NoSelection,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewControllerForVariant builds a controller using the variant's delay and palette.
func NewControllerForVariant(v Variant, opts ...Option) *Controller {
	return NewController(v.Delay, v.Palette, opts...)
}

// Delay reports the fixed generation delay.
func (c *Controller) Delay() time.Duration {
	return c.delay
}

// Now reads the controller clock.
func (c *Controller) Now() time.Time {
	return c.clock.Now()
}

// SetText mirrors the input bar. It only applies while Idle or Composing.
func (c *Controller) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseIdle && c.phase != PhaseComposing {
		return
	}
	c.text = text
	if text == "" {
		c.phase = PhaseIdle
		return
	}
	c.phase = PhaseComposing
}

// CanSubmit reports whether Submit would accept text right now.
func (c *Controller) CanSubmit(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked(text)
}

func (c *Controller) canSubmitLocked(text string) bool {
	if c.phase != PhaseIdle && c.phase != PhaseComposing {
		return false
	}
	return text != ""
}

// Submit starts a generation for text exactly as typed. Empty text, or a controller that is not
// Idle or Composing, leaves state untouched and returns false.
func (c *Controller) Submit(text string) (Ticket, bool) {
	c.mu.Lock()
	if !c.canSubmitLocked(text) {
		c.mu.Unlock()
		return Ticket{}, false
	}
	now := c.clock.Now()
	ctx, cancel := context.WithCancel(context.Background())
	c.epoch++
	c.phase = PhaseGenerating
	c.text = ""
	c.startedAt = now
	c.results = nil
	c.selected = NoSelection
	c.cancel = cancel
	c.ticket = Ticket{
		ID:        uuid.NewString(),
		Epoch:     c.epoch,
		Prompt:    text,
		StartedAt: now,
		Deadline:  now.Add(c.delay),
		ctx:       ctx,
	}
	ticket := c.ticket
	observer := c.observer
	c.mu.Unlock()

	log.Printf("[generation] started %s (epoch=%d, delay=%s)", ticket.ID, ticket.Epoch, c.delay)
	if observer != nil {
		observer.GenerationStarted(ticket)
	}
	return ticket, true
}

// Tick completes the pending generation once the delay has elapsed. It reports
// whether a transition happened.
func (c *Controller) Tick(now time.Time) bool {
	c.mu.Lock()
	ticket, ok := c.completeLocked(now)
	observer := c.observer
	c.mu.Unlock()
	if ok {
		c.finished(observer, ticket, OutcomeCompleted, now)
	}
	return ok
}

// Complete is Tick restricted to ticket. Tickets from a generation that has
// since been reset are ignored.
func (c *Controller) Complete(ticket Ticket, now time.Time) bool {
	c.mu.Lock()
	if ticket.Epoch == 0 || ticket.Epoch != c.epoch {
		c.mu.Unlock()
		return false
	}
	done, ok := c.completeLocked(now)
	observer := c.observer
	c.mu.Unlock()
	if ok {
		c.finished(observer, done, OutcomeCompleted, now)
	}
	return ok
}

func (c *Controller) completeLocked(now time.Time) (Ticket, bool) {
	if c.phase != PhaseGenerating {
		return Ticket{}, false
	}
	if now.Sub(c.startedAt) < c.delay {
		return Ticket{}, false
	}
	c.phase = PhaseComplete
	c.results = buildResults(c.palette)
	c.selected = NoSelection
	ticket := c.ticket
	c.releaseLocked()
	return ticket, true
}

// Reset returns to Idle from any phase, clearing text and selection and
// cancelling a pending generation.
func (c *Controller) Reset() {
	c.mu.Lock()
	wasGenerating := c.phase == PhaseGenerating
	ticket := c.ticket
	observer := c.observer
	c.phase = PhaseIdle
	c.text = ""
	c.startedAt = time.Time{}
	c.results = nil
	c.selected = NoSelection
	// Bump the epoch so any ticket issued before the reset is stale.
	c.epoch++
	c.releaseLocked()
	c.mu.Unlock()

	if wasGenerating {
		c.finished(observer, ticket, OutcomeCancelled, c.clock.Now())
	}
}

func (c *Controller) releaseLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.ticket = Ticket{}
}

func (c *Controller) finished(observer Observer, ticket Ticket, outcome Outcome, at time.Time) {
	log.Printf("[generation] %s %s after %s", ticket.ID, outcome, at.Sub(ticket.StartedAt))
	if observer != nil {
		observer.GenerationFinished(ticket, outcome, at)
	}
}

// Select moves the selection cursor. It only applies in Complete with an index
// inside the result grid.
func (c *Controller) Select(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseComplete || index < 0 || index >= len(c.results) {
		return false
	}
	c.selected = index
	return true
}

// Wait blocks until the ticket's deadline. It returns context.Canceled when the
// ticket is reset first, or ctx's error when ctx ends first.
func (c *Controller) Wait(ctx context.Context, ticket Ticket) error {
	tctx := ticket.Context()
	if err := tctx.Err(); err != nil {
		return err
	}
	remaining := ticket.Deadline.Sub(c.clock.Now())
	if remaining <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tctx.Done():
		return tctx.Err()
	case <-c.clock.After(remaining):
		return nil
	}
}

// Snapshot is a read-only copy of controller state.
type Snapshot struct {
	Phase     Phase
	Text      string
	StartedAt time.Time
	Delay     time.Duration
	Results   []ResultItem
	Selected  int
	Epoch     uint64
	TicketID  string
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Phase:     c.phase,
		Text:      c.text,
		StartedAt: c.startedAt,
		Delay:     c.delay,
		Results:   append([]ResultItem(nil), c.results...),
		Selected:  c.selected,
		Epoch:     c.epoch,
		TicketID:  c.ticket.ID,
	}
}

// HasSelection reports whether the selection cursor is set.
func (s Snapshot) HasSelection() bool {
	return s.Phase == PhaseComplete && s.Selected >= 0 && s.Selected < len(s.Results)
}

// Progress reports the elapsed fraction of the delay, clamped to [0, 1].
func (s Snapshot) Progress(now time.Time) float64 {
	switch s.Phase {
	case PhaseComplete:
		return 1
	case PhaseGenerating:
	default:
		return 0
	}
	if s.Delay <= 0 {
		return 1
	}
	p := float64(now.Sub(s.StartedAt)) / float64(s.Delay)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func buildResults(palette Palette) []ResultItem {
	items := make([]ResultItem, ResultCount)
	for i := range items {
		items[i] = ResultItem{Index: i, Color: palette[i]}
	}
	return items
}
