package sim

import (
	"log"
	"reflect"
)

// LogHookBase is embedded by hooks that write to a standard logger.
type LogHookBase struct {
	*log.Logger
}

// EventLogger is a hook that logs every event an engine triggers. Attach it
// to an engine to follow a simulation tick by tick.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger creates an EventLogger that writes to the given logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger

	return h
}

// Func logs the event time, type, and handling component.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	if comp, ok := evt.Handler().(Component); ok {
		h.Printf("%.10f, %s -> %s",
			evt.Time(), reflect.TypeOf(evt), comp.Name())
		return
	}

	h.Printf("%.10f, %s", evt.Time(), reflect.TypeOf(evt))
}
