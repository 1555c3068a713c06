package keypad

import "github.com/cyclesim/codelock/sim"

// Builder can build keypad drivers.
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	script     Script
	keyGap     int
	lockKeypad sim.RemotePort
	lockCtrl   sim.RemotePort
	progress   ProgressTracker
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithEngine sets the engine that drives the driver.
func (b Builder) WithEngine(e sim.Engine) Builder {
	b.engine = e
	return b
}

// WithFreq sets the frequency at which keys are played.
func (b Builder) WithFreq(f sim.Freq) Builder {
	b.freq = f
	return b
}

// WithScript sets the script to play.
func (b Builder) WithScript(s Script) Builder {
	b.script = s
	return b
}

// WithKeyGap sets the number of idle cycles inserted after each key.
func (b Builder) WithKeyGap(gap int) Builder {
	b.keyGap = gap
	return b
}

// WithLockKeypadPort sets the port that receives the digit and relock
// strobes.
func (b Builder) WithLockKeypadPort(p sim.RemotePort) Builder {
	b.lockKeypad = p
	return b
}

// WithLockCtrlPort sets the port that receives the reset commands.
func (b Builder) WithLockCtrlPort(p sim.RemotePort) Builder {
	b.lockCtrl = p
	return b
}

// WithProgressTracker sets the tracker that is told about finished script
// steps.
func (b Builder) WithProgressTracker(t ProgressTracker) Builder {
	b.progress = t
	return b
}

// Build creates a keypad driver.
func (b Builder) Build(name string) *Driver {
	d := &Driver{
		script:     b.script,
		keyGap:     b.keyGap,
		lockKeypad: b.lockKeypad,
		lockCtrl:   b.lockCtrl,
		progress:   b.progress,
	}

	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	d.KeypadPort = sim.NewPort(d, 4, 4, name+".KeypadPort")
	d.CtrlPort = sim.NewPort(d, 4, 4, name+".CtrlPort")
	d.AddPort("Keypad", d.KeypadPort)
	d.AddPort("Ctrl", d.CtrlPort)

	d.AddMiddleware(&middleware{Driver: d})

	return d
}
