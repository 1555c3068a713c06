package lockunit

import (
	"github.com/cyclesim/codelock/lock"
	"github.com/cyclesim/codelock/sim"
)

// Builder can build lock units.
type Builder struct {
	engine          sim.Engine
	freq            sim.Freq
	passcode        [lock.PasscodeLen]int
	maxAttempts     int
	lockoutDuration int
	statusDst       sim.RemotePort
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithEngine sets the engine that drives the lock unit.
func (b Builder) WithEngine(e sim.Engine) Builder {
	b.engine = e
	return b
}

// WithFreq sets the frequency at which edges are evaluated.
func (b Builder) WithFreq(f sim.Freq) Builder {
	b.freq = f
	return b
}

// WithPasscode sets the passcode the lock accepts.
func (b Builder) WithPasscode(p [lock.PasscodeLen]int) Builder {
	b.passcode = p
	return b
}

// WithMaxAttempts sets the number of failed attempts that trigger a
// lockout.
func (b Builder) WithMaxAttempts(n int) Builder {
	b.maxAttempts = n
	return b
}

// WithLockoutDuration sets the number of cycles a lockout lasts.
func (b Builder) WithLockoutDuration(n int) Builder {
	b.lockoutDuration = n
	return b
}

// WithStatusDst sets the port that receives status updates. Without a
// destination the lock unit stays silent.
func (b Builder) WithStatusDst(p sim.RemotePort) Builder {
	b.statusDst = p
	return b
}

// Build creates a lock unit. It panics when the lock configuration is
// invalid.
func (b Builder) Build(name string) *Comp {
	cfg := lock.Config{
		Passcode:        b.passcode,
		MaxAttempts:     b.maxAttempts,
		LockoutDuration: b.lockoutDuration,
	}

	c := &Comp{
		ctrl:      lock.NewController(cfg),
		statusDst: b.statusDst,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.KeypadPort = sim.NewPort(c, 4, 4, name+".KeypadPort")
	c.CtrlPort = sim.NewPort(c, 4, 4, name+".CtrlPort")
	c.StatusPort = sim.NewPort(c, 4, 4, name+".StatusPort")
	c.AddPort("Keypad", c.KeypadPort)
	c.AddPort("Ctrl", c.CtrlPort)
	c.AddPort("Status", c.StatusPort)

	c.AddMiddleware(&middleware{Comp: c})

	return c
}
