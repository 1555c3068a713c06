package sim

import "sync"

// TickEvent is the generic event that drives a component by one cycle.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a TickEvent for the given handler and time.
func MakeTickEvent(handler Handler, time VTimeInSec) TickEvent {
	evt := TickEvent{}
	evt.ID = GetIDGenerator().Generate()
	evt.handler = handler
	evt.time = time

	return evt
}

// A Ticker updates its state cycle by cycle. Tick returns true when the
// cycle made progress; a ticker that reports no progress stops being ticked
// until something notifies it.
type Ticker interface {
	Tick() bool
}

// TickScheduler schedules tick events, at most one per cycle.
type TickScheduler struct {
	mu        sync.Mutex
	handler   Handler
	Freq      Freq
	Engine    Engine
	secondary bool

	nextTickTime VTimeInSec
}

// NewTickScheduler creates a TickScheduler that schedules primary tick
// events.
func NewTickScheduler(handler Handler, engine Engine, freq Freq) *TickScheduler {
	t := new(TickScheduler)

	t.handler = handler
	t.Engine = engine
	t.Freq = freq
	t.nextTickTime = -1

	return t
}

// NewSecondaryTickScheduler creates a TickScheduler whose tick events run
// after all same-time primary events.
func NewSecondaryTickScheduler(
	handler Handler,
	engine Engine,
	freq Freq,
) *TickScheduler {
	t := NewTickScheduler(handler, engine, freq)
	t.secondary = true

	return t
}

// TickNow schedules a tick at the current cycle, unless one is already
// scheduled at or after it.
func (t *TickScheduler) TickNow() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.CurrentTime()
	if t.nextTickTime >= now {
		return
	}

	t.nextTickTime = t.Freq.ThisTick(now)
	t.scheduleTickAt(t.nextTickTime)
}

// TickLater schedules a tick at the next cycle, unless one is already
// scheduled at or after it.
func (t *TickScheduler) TickLater() {
	t.mu.Lock()
	defer t.mu.Unlock()

	time := t.Freq.NextTick(t.CurrentTime())
	if t.nextTickTime >= time {
		return
	}

	t.nextTickTime = time
	t.scheduleTickAt(t.nextTickTime)
}

func (t *TickScheduler) scheduleTickAt(time VTimeInSec) {
	tick := MakeTickEvent(t.handler, time)
	tick.secondary = t.secondary

	t.Engine.Schedule(tick)
}

// CurrentTime returns the current time of the engine.
func (t *TickScheduler) CurrentTime() VTimeInSec {
	return t.Engine.CurrentTime()
}

// A TickingComponent is a component whose whole behavior is a per-cycle
// Tick function. It sleeps when a tick makes no progress and wakes when a
// message arrives or a congested port drains.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// NewTickingComponent creates a TickingComponent that runs the given
// ticker's Tick once per cycle.
func NewTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)

	tc.TickScheduler = NewTickScheduler(tc, engine, freq)
	tc.ComponentBase = NewComponentBase(name)
	tc.ticker = ticker

	return tc
}

// NewSecondaryTickingComponent creates a TickingComponent whose ticks run
// after all same-time primary events. Connections tick this way so they
// move messages only after the components of the cycle are done.
func NewSecondaryTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)

	tc.TickScheduler = NewSecondaryTickScheduler(tc, engine, freq)
	tc.ComponentBase = NewComponentBase(name)
	tc.ticker = ticker

	return tc
}

// Handle runs one tick and schedules the next one if progress was made.
func (c *TickingComponent) Handle(_ Event) error {
	madeProgress := c.ticker.Tick()
	if madeProgress {
		c.TickLater()
	}

	return nil
}

// NotifyRecv resumes ticking on message arrival.
func (c *TickingComponent) NotifyRecv(_ Port) {
	c.TickLater()
}

// NotifyPortFree resumes ticking when a congested port drains.
func (c *TickingComponent) NotifyPortFree(_ Port) {
	c.TickLater()
}
