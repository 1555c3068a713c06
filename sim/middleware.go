package sim

// Middleware implements one slice of a component's per-cycle behavior.
type Middleware interface {
	// Tick runs one cycle. It returns true if progress was made.
	Tick() bool
}

// MiddlewareHolder chains middlewares into a component tick.
type MiddlewareHolder struct {
	middlewares []Middleware
}

// AddMiddleware appends a middleware to the chain.
func (h *MiddlewareHolder) AddMiddleware(m Middleware) {
	h.middlewares = append(h.middlewares, m)
}

// Middlewares returns the chain.
func (h *MiddlewareHolder) Middlewares() []Middleware {
	return h.middlewares
}

// Tick runs all middlewares for one cycle. It returns true if any of them
// made progress.
func (h *MiddlewareHolder) Tick() bool {
	progress := false

	for _, m := range h.middlewares {
		if m.Tick() {
			progress = true
		}
	}

	return progress
}
