package sim

// TimeTeller reports the current simulated time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// EventScheduler registers events to happen in the future.
type EventScheduler interface {
	Schedule(e Event)
}

// A SimulationEndHandler runs after the simulation completes, before the
// process exits. Recorders and tracers register one to flush their output.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// An Engine drives a discrete-event simulation forward.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run processes scheduled events until no event is left.
	Run() error

	// Pause stops the engine from triggering more events until Continue is
	// called.
	Pause()

	// Continue resumes a paused engine.
	Continue()

	// RegisterSimulationEndHandler registers a handler to run after the
	// simulation finishes.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished invokes all the registered SimulationEndHandlers.
	Finished()
}
