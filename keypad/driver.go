package keypad

import (
	"log"
	"reflect"

	"github.com/cyclesim/codelock/sim"
	"github.com/cyclesim/codelock/tracing"
)

// A ProgressTracker is told whenever the driver finishes a script step.
type ProgressTracker interface {
	IncrementFinished(amount uint64)
}

// A Driver replays a keypad script against a lock unit. It sends at most one
// message per cycle, keeps the configured gap between keys, and holds the
// script when a reset command has not been acknowledged yet.
type Driver struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	KeypadPort sim.Port
	CtrlPort   sim.Port

	lockKeypad sim.RemotePort
	lockCtrl   sim.RemotePort

	script   Script
	keyGap   int
	progress ProgressTracker

	pos             int
	gapLeft         int
	waitLeft        int
	pendingResetReq sim.Msg
}

// Tick runs the middlewares for one cycle.
func (d *Driver) Tick() bool {
	return d.MiddlewareHolder.Tick()
}

// Done returns true when the whole script has been played and all the
// acknowledgements have arrived.
func (d *Driver) Done() bool {
	return d.pos >= len(d.script) &&
		d.pendingResetReq == nil &&
		d.waitLeft == 0 &&
		d.gapLeft == 0
}

type middleware struct {
	*Driver
}

func (m *middleware) Tick() bool {
	madeProgress := m.collectRsps()
	madeProgress = m.playStep() || madeProgress

	return madeProgress
}

func (m *middleware) collectRsps() bool {
	msg := m.CtrlPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	rsp, ok := msg.(sim.Rsp)
	if !ok {
		log.Panicf("cannot handle message of %s", reflect.TypeOf(msg))
	}

	if m.pendingResetReq != nil &&
		rsp.GetRspTo() == m.pendingResetReq.Meta().ID {
		tracing.TraceReqFinalize(m.pendingResetReq, m.Driver)
		m.pendingResetReq = nil
	}

	return true
}

func (m *middleware) playStep() bool {
	if m.waitLeft > 0 {
		m.waitLeft--
		return true
	}

	if m.gapLeft > 0 {
		m.gapLeft--
		return true
	}

	if m.pendingResetReq != nil {
		return false
	}

	if m.pos >= len(m.script) {
		return false
	}

	step := m.script[m.pos]

	switch step.Kind {
	case StepPress:
		return m.sendPress(step.Digit)
	case StepRelock:
		return m.sendRelock()
	case StepReset:
		return m.sendReset()
	case StepWait:
		m.waitLeft = step.Ticks - 1
		m.pos++
		m.trackStepFinished()

		return true
	}

	return false
}

func (m *middleware) sendPress(digit int) bool {
	msg := PressMsgBuilder{}.
		WithSrc(m.KeypadPort.AsRemote()).
		WithDst(m.lockKeypad).
		WithDigit(digit).
		Build()

	err := m.KeypadPort.Send(msg)
	if err != nil {
		return false
	}

	m.stepDone()

	return true
}

func (m *middleware) sendRelock() bool {
	msg := RelockMsgBuilder{}.
		WithSrc(m.KeypadPort.AsRemote()).
		WithDst(m.lockKeypad).
		Build()

	err := m.KeypadPort.Send(msg)
	if err != nil {
		return false
	}

	m.stepDone()

	return true
}

func (m *middleware) sendReset() bool {
	msg := ResetMsgBuilder{}.
		WithSrc(m.CtrlPort.AsRemote()).
		WithDst(m.lockCtrl).
		Build()

	err := m.CtrlPort.Send(msg)
	if err != nil {
		return false
	}

	tracing.TraceReqInitiate(msg, m.Driver, "")
	m.pendingResetReq = msg
	m.stepDone()

	return true
}

func (m *middleware) stepDone() {
	m.pos++
	m.gapLeft = m.keyGap
	m.trackStepFinished()
}

func (m *middleware) trackStepFinished() {
	if m.progress == nil {
		return
	}

	m.progress.IncrementFinished(1)
}
