package bench

import (
	"github.com/cyclesim/codelock/datarecording"
	"github.com/cyclesim/codelock/keypad"
	"github.com/cyclesim/codelock/lock"
	"github.com/cyclesim/codelock/lockunit"
	"github.com/cyclesim/codelock/panel"
	"github.com/cyclesim/codelock/sim"
	"github.com/cyclesim/codelock/sim/directconnection"
)

// Builder can build test benches.
type Builder struct {
	engine          sim.Engine
	freq            sim.Freq
	passcode        [lock.PasscodeLen]int
	maxAttempts     int
	lockoutDuration int
	script          keypad.Script
	keyGap          int
	recorder        datarecording.DataRecorder
	progress        keypad.ProgressTracker
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine the bench runs on. Without an engine the bench
// creates a serial engine of its own.
func (b Builder) WithEngine(e sim.Engine) Builder {
	b.engine = e
	return b
}

// WithFreq sets the frequency of all the bench components.
func (b Builder) WithFreq(f sim.Freq) Builder {
	b.freq = f
	return b
}

// WithPasscode sets the passcode the lock accepts.
func (b Builder) WithPasscode(p [lock.PasscodeLen]int) Builder {
	b.passcode = p
	return b
}

// WithMaxAttempts sets the number of wrong tries that trigger a lockout.
func (b Builder) WithMaxAttempts(n int) Builder {
	b.maxAttempts = n
	return b
}

// WithLockoutDuration sets the number of cycles a lockout lasts.
func (b Builder) WithLockoutDuration(n int) Builder {
	b.lockoutDuration = n
	return b
}

// WithScript sets the keypad script the driver plays.
func (b Builder) WithScript(s keypad.Script) Builder {
	b.script = s
	return b
}

// WithKeyGap sets the number of idle cycles the driver inserts after each
// key.
func (b Builder) WithKeyGap(gap int) Builder {
	b.keyGap = gap
	return b
}

// WithRecorder sets the recorder the panel journals status updates into.
func (b Builder) WithRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// WithProgressTracker sets the tracker the driver reports finished script
// steps to.
func (b Builder) WithProgressTracker(t keypad.ProgressTracker) Builder {
	b.progress = t
	return b
}

// Build creates a bench with all the ports plugged.
func (b Builder) Build(name string) *Bench {
	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	bench := &Bench{
		Engine: engine,
		freq:   b.freq,
	}

	bench.Panel = panel.MakeBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		WithRecorder(b.recorder).
		Build(sim.BuildName(name, "Panel"))

	bench.Lock = lockunit.MakeBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		WithPasscode(b.passcode).
		WithMaxAttempts(b.maxAttempts).
		WithLockoutDuration(b.lockoutDuration).
		WithStatusDst(bench.Panel.StatusPort.AsRemote()).
		Build(sim.BuildName(name, "Lock"))

	bench.Driver = keypad.MakeBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		WithScript(b.script).
		WithKeyGap(b.keyGap).
		WithLockKeypadPort(bench.Lock.KeypadPort.AsRemote()).
		WithLockCtrlPort(bench.Lock.CtrlPort.AsRemote()).
		WithProgressTracker(b.progress).
		Build(sim.BuildName(name, "Driver"))

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		Build(sim.BuildName(name, "Conn"))
	conn.PlugIn(bench.Driver.KeypadPort)
	conn.PlugIn(bench.Driver.CtrlPort)
	conn.PlugIn(bench.Lock.KeypadPort)
	conn.PlugIn(bench.Lock.CtrlPort)
	conn.PlugIn(bench.Lock.StatusPort)
	conn.PlugIn(bench.Panel.StatusPort)

	return bench
}
