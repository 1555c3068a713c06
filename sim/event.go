// Package sim provides the discrete-event kernel that drives cycle-accurate
// hardware models such as the code-lock controller.
package sim

// VTimeInSec is a point in simulated time, in seconds.
type VTimeInSec float64

// An Event is something that will happen at a determined time in the future.
type Event interface {
	// Time returns the time at which the event happens.
	Time() VTimeInSec

	// Handler returns the handler that processes the event.
	Handler() Handler

	// IsSecondary marks events that must run after all same-time primary
	// events. Connections use secondary events so that messages sent in a
	// cycle are delivered in the same cycle, after every component ticked.
	IsSecondary() bool
}

// EventBase carries the fields common to all events.
type EventBase struct {
	ID        string
	time      VTimeInSec
	handler   Handler
	secondary bool
}

// NewEventBase creates an EventBase that happens at time t and is processed
// by the given handler.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = GetIDGenerator().Generate()
	e.time = t
	e.handler = handler

	return e
}

// Time returns the time at which the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler that processes the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns true if the event runs after same-time primary events.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler processes events. An event is always scheduled by its own
// handler; a handler must only mutate its own state when handling.
type Handler interface {
	Handle(e Event) error
}
