// Package lockunit provides the digital lock controller as a ticking
// component that consumes keypad strobes and reset commands and broadcasts
// its status.
package lockunit

import (
	"github.com/cyclesim/codelock/lock"
	"github.com/cyclesim/codelock/sim"
)

var statusMsgByteOverhead = 8

// A StatusMsg reports the lock's registered outputs after an edge.
type StatusMsg struct {
	sim.MsgMeta

	Unlocked bool
	WrongTry bool
	Lockout  bool
	Attempts int
	State    lock.State
}

// Meta returns the message meta.
func (m *StatusMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a copy of the message with a fresh ID.
func (m *StatusMsg) Clone() sim.Msg {
	cloned := *m
	cloned.ID = sim.GetIDGenerator().Generate()

	return &cloned
}

// StatusMsgBuilder can build status messages.
type StatusMsgBuilder struct {
	src, dst sim.RemotePort
	output   lock.Output
	attempts int
	state    lock.State
}

// WithSrc sets the source of the message to build.
func (b StatusMsgBuilder) WithSrc(src sim.RemotePort) StatusMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the message to build.
func (b StatusMsgBuilder) WithDst(dst sim.RemotePort) StatusMsgBuilder {
	b.dst = dst
	return b
}

// WithOutput sets the output signals the message reports.
func (b StatusMsgBuilder) WithOutput(out lock.Output) StatusMsgBuilder {
	b.output = out
	return b
}

// WithAttempts sets the failed-attempt count the message reports.
func (b StatusMsgBuilder) WithAttempts(attempts int) StatusMsgBuilder {
	b.attempts = attempts
	return b
}

// WithState sets the controller state the message reports.
func (b StatusMsgBuilder) WithState(state lock.State) StatusMsgBuilder {
	b.state = state
	return b
}

// Build creates a new StatusMsg.
func (b StatusMsgBuilder) Build() *StatusMsg {
	m := &StatusMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.TrafficBytes = statusMsgByteOverhead
	m.Unlocked = b.output.Unlocked
	m.WrongTry = b.output.WrongTry
	m.Lockout = b.output.Lockout
	m.Attempts = b.attempts
	m.State = b.state

	return m
}
