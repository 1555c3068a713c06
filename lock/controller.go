package lock

// A Controller is the stateful form of the tick function: the registers plus
// the combinational Next, stepped one tick at a time.
type Controller struct {
	cfg Config

	regs         Regs
	out          Output
	resetPending bool
}

// NewController creates a Controller in the power-on state. It panics if the
// config is invalid.
func NewController(cfg Config) *Controller {
	cfg.MustBeValid()

	return &Controller{cfg: cfg}
}

// Tick advances the controller by one clock tick and returns the outputs
// driven during the new cycle. A pending reset takes effect here and
// overrides all sampled inputs.
func (c *Controller) Tick(in Input) Output {
	if c.resetPending {
		c.resetPending = false
		c.regs = Regs{}
		c.out = Output{}

		return c.out
	}

	c.regs, c.out = c.cfg.Next(c.regs, in)

	return c.out
}

// Reset requests a synchronous reset. It takes effect at the next tick
// boundary, not immediately.
func (c *Controller) Reset() {
	c.resetPending = true
}

// State returns the current FSM state.
func (c *Controller) State() State {
	return c.regs.State
}

// Attempts returns the wrong tries counted since the last full success or
// lockout expiry.
func (c *Controller) Attempts() int {
	return c.regs.Attempts
}

// LockoutTicks returns the ticks spent in the current lockout.
func (c *Controller) LockoutTicks() int {
	return c.regs.LockoutTicks
}

// Output returns the outputs driven during the current cycle.
func (c *Controller) Output() Output {
	return c.out
}

// Config returns the build-time parameters of the controller.
func (c *Controller) Config() Config {
	return c.cfg
}
