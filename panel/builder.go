package panel

import (
	"github.com/cyclesim/codelock/datarecording"
	"github.com/cyclesim/codelock/sim"
)

// Builder can build panels.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	recorder datarecording.DataRecorder
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithEngine sets the engine that drives the panel.
func (b Builder) WithEngine(e sim.Engine) Builder {
	b.engine = e
	return b
}

// WithFreq sets the frequency at which the panel samples updates.
func (b Builder) WithFreq(f sim.Freq) Builder {
	b.freq = f
	return b
}

// WithRecorder sets the recorder that journals every status update. Without
// a recorder the panel only keeps its counters.
func (b Builder) WithRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// Build creates a panel.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		recorder: b.recorder,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.StatusPort = sim.NewPort(c, 4, 4, name+".StatusPort")
	c.AddPort("Status", c.StatusPort)

	if c.recorder != nil {
		c.recorder.CreateTable(statusTableName, statusEntry{})
	}

	c.AddMiddleware(&middleware{Comp: c})

	return c
}
