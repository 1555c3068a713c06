// Package keypad defines the messages a keypad sends to a lock unit and a
// driver component that replays scripted key sequences.
package keypad

import (
	"fmt"

	"github.com/cyclesim/codelock/sim"
)

var strobeMsgByteOverhead = 4
var ctrlMsgByteOverhead = 4

// A PressMsg carries one digit strobe to the lock unit.
type PressMsg struct {
	sim.MsgMeta

	Digit int
}

// Meta returns the message meta.
func (m *PressMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a copy of the message with a fresh ID.
func (m *PressMsg) Clone() sim.Msg {
	cloned := *m
	cloned.ID = sim.GetIDGenerator().Generate()

	return &cloned
}

// PressMsgBuilder can build press messages.
type PressMsgBuilder struct {
	src, dst sim.RemotePort
	digit    int
}

// WithSrc sets the source of the message to build.
func (b PressMsgBuilder) WithSrc(src sim.RemotePort) PressMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the message to build.
func (b PressMsgBuilder) WithDst(dst sim.RemotePort) PressMsgBuilder {
	b.dst = dst
	return b
}

// WithDigit sets the digit the key press carries.
func (b PressMsgBuilder) WithDigit(digit int) PressMsgBuilder {
	b.digit = digit
	return b
}

// Build creates a new PressMsg.
func (b PressMsgBuilder) Build() *PressMsg {
	digitMustBeInRange(b.digit)

	m := &PressMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.TrafficBytes = strobeMsgByteOverhead
	m.Digit = b.digit

	return m
}

func digitMustBeInRange(digit int) {
	if digit < 0 || digit > 9 {
		panic(fmt.Sprintf("digit %d is out of the keypad range [0, 9]", digit))
	}
}

// A RelockMsg asks an unlocked lock to close again.
type RelockMsg struct {
	sim.MsgMeta
}

// Meta returns the message meta.
func (m *RelockMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a copy of the message with a fresh ID.
func (m *RelockMsg) Clone() sim.Msg {
	cloned := *m
	cloned.ID = sim.GetIDGenerator().Generate()

	return &cloned
}

// RelockMsgBuilder can build relock messages.
type RelockMsgBuilder struct {
	src, dst sim.RemotePort
}

// WithSrc sets the source of the message to build.
func (b RelockMsgBuilder) WithSrc(src sim.RemotePort) RelockMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the message to build.
func (b RelockMsgBuilder) WithDst(dst sim.RemotePort) RelockMsgBuilder {
	b.dst = dst
	return b
}

// Build creates a new RelockMsg.
func (b RelockMsgBuilder) Build() *RelockMsg {
	m := &RelockMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.TrafficBytes = strobeMsgByteOverhead

	return m
}

// A ResetMsg forces the controller back to idle on its next edge. The lock
// unit acknowledges it with a GeneralRsp once the reset is applied.
type ResetMsg struct {
	sim.MsgMeta
}

// Meta returns the message meta.
func (m *ResetMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a copy of the message with a fresh ID.
func (m *ResetMsg) Clone() sim.Msg {
	cloned := *m
	cloned.ID = sim.GetIDGenerator().Generate()

	return &cloned
}

// ResetMsgBuilder can build reset messages.
type ResetMsgBuilder struct {
	src, dst sim.RemotePort
}

// WithSrc sets the source of the message to build.
func (b ResetMsgBuilder) WithSrc(src sim.RemotePort) ResetMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the message to build.
func (b ResetMsgBuilder) WithDst(dst sim.RemotePort) ResetMsgBuilder {
	b.dst = dst
	return b
}

// Build creates a new ResetMsg.
func (b ResetMsgBuilder) Build() *ResetMsg {
	m := &ResetMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.TrafficBytes = ctrlMsgByteOverhead

	return m
}
