package lockunit

import (
	"fmt"
	"log"
	"reflect"

	"github.com/cyclesim/codelock/keypad"
	"github.com/cyclesim/codelock/lock"
	"github.com/cyclesim/codelock/sim"
	"github.com/cyclesim/codelock/tracing"
)

// A Comp evaluates one edge of the lock controller per cycle. Keypad strobes
// arrive on KeypadPort, reset commands on CtrlPort, and status updates leave
// through StatusPort.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	KeypadPort sim.Port
	CtrlPort   sim.Port
	StatusPort sim.Port

	ctrl      *lock.Controller
	statusDst sim.RemotePort

	pendingResetReq sim.Msg
	resetEdge       bool
	pendingStatus   []*StatusMsg

	attemptTaskID string
	lockoutTaskID string
	taskSeq       int
	milestoneSeq  int
}

// Tick evaluates one cycle.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// State returns the registered controller state.
func (c *Comp) State() lock.State {
	return c.ctrl.State()
}

// Attempts returns the registered failed-attempt count.
func (c *Comp) Attempts() int {
	return c.ctrl.Attempts()
}

// LockoutTicks returns the registered lockout timer value.
func (c *Comp) LockoutTicks() int {
	return c.ctrl.LockoutTicks()
}

// Output returns the outputs registered by the most recent edge.
func (c *Comp) Output() lock.Output {
	return c.ctrl.Output()
}

type middleware struct {
	*Comp
}

func (m *middleware) Tick() bool {
	m.resetEdge = false

	ctrlProgress := m.processCtrl()
	in, inputProgress := m.collectInput()
	edgeProgress := m.applyEdge(in)
	ackProgress := m.sendResetAck()
	statusProgress := m.flushStatus()

	return ctrlProgress || inputProgress ||
		edgeProgress || ackProgress || statusProgress
}

// processCtrl consumes at most one reset command per cycle. The command is
// held until the edge that applies it has run and the acknowledgment has
// been sent.
func (m *middleware) processCtrl() bool {
	if m.pendingResetReq != nil {
		return false
	}

	msg := m.CtrlPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	req, ok := msg.(*keypad.ResetMsg)
	if !ok {
		log.Panicf("cannot handle message of %s", reflect.TypeOf(msg))
	}

	tracing.TraceReqReceive(req, m.Comp)

	m.ctrl.Reset()
	m.pendingResetReq = req
	m.resetEdge = true

	return true
}

// collectInput consumes at most one keypad strobe per cycle.
func (m *middleware) collectInput() (lock.Input, bool) {
	msg := m.KeypadPort.RetrieveIncoming()
	if msg == nil {
		return lock.Input{}, false
	}

	tracing.TraceReqReceive(msg, m.Comp)

	var in lock.Input
	switch msg := msg.(type) {
	case *keypad.PressMsg:
		in.Digit = msg.Digit
		in.DigitValid = true
	case *keypad.RelockMsg:
		in.Relock = true
	default:
		log.Panicf("cannot handle message of %s", reflect.TypeOf(msg))
	}

	tracing.TraceReqComplete(msg, m.Comp)

	return in, true
}

// applyEdge runs one edge of the controller and reports whether any
// registered value changed.
func (m *middleware) applyEdge(in lock.Input) bool {
	preState := m.ctrl.State()
	preAttempts := m.ctrl.Attempts()
	preTicks := m.ctrl.LockoutTicks()
	preOut := m.ctrl.Output()

	out := m.ctrl.Tick(in)

	m.traceEdge(preState, in, out)
	m.emitStatus(preOut, out)

	return preState != m.ctrl.State() ||
		preAttempts != m.ctrl.Attempts() ||
		preTicks != m.ctrl.LockoutTicks() ||
		preOut != out
}

// traceEdge maintains attempt and lockout tasks across the edge that just
// ran.
func (m *middleware) traceEdge(
	preState lock.State,
	in lock.Input,
	out lock.Output,
) {
	postState := m.ctrl.State()

	if m.resetEdge && m.attemptTaskID != "" {
		tracing.EndTask(m.attemptTaskID, m.Comp)
		m.attemptTaskID = ""
	}

	if in.DigitValid && !m.resetEdge && m.attemptTaskID == "" &&
		preState != lock.StateUnlocked && preState != lock.StateLockout {
		m.taskSeq++
		m.attemptTaskID = fmt.Sprintf("%s.attempt.%d", m.Name(), m.taskSeq)
		tracing.StartTask(m.attemptTaskID, "",
			m.Comp, "attempt", "passcode entry", nil)
	}

	if out.WrongTry && m.attemptTaskID != "" {
		tracing.AddTaskStep(m.attemptTaskID, m.Comp, "rejected")
		tracing.EndTask(m.attemptTaskID, m.Comp)
		m.attemptTaskID = ""
	}

	if postState == lock.StateUnlocked && preState != lock.StateUnlocked &&
		m.attemptTaskID != "" {
		tracing.EndTask(m.attemptTaskID, m.Comp)
		m.attemptTaskID = ""
	}

	if postState == lock.StateLockout && preState != lock.StateLockout {
		m.taskSeq++
		m.lockoutTaskID = fmt.Sprintf("%s.lockout.%d", m.Name(), m.taskSeq)
		tracing.StartTask(m.lockoutTaskID, "",
			m.Comp, "lockout", "lockout hold", nil)

		m.milestoneSeq++
		tracing.AddMilestone(
			fmt.Sprintf("%s.milestone.%d", m.Name(), m.milestoneSeq),
			m.lockoutTaskID, m.Comp,
			tracing.MilestoneKindHardwareResource, "lockout timer")
	}

	if postState != lock.StateLockout && preState == lock.StateLockout &&
		m.lockoutTaskID != "" {
		tracing.EndTask(m.lockoutTaskID, m.Comp)
		m.lockoutTaskID = ""
	}
}

// emitStatus queues a status update when the registered outputs change or a
// WrongTry pulse fires. Back-to-back pulses produce identical outputs, so the
// pulse is reported unconditionally.
func (m *middleware) emitStatus(preOut, out lock.Output) {
	if m.statusDst == "" {
		return
	}

	if out == preOut && !out.WrongTry {
		return
	}

	msg := StatusMsgBuilder{}.
		WithSrc(m.StatusPort.AsRemote()).
		WithDst(m.statusDst).
		WithOutput(out).
		WithAttempts(m.ctrl.Attempts()).
		WithState(m.ctrl.State()).
		Build()
	m.pendingStatus = append(m.pendingStatus, msg)
}

// sendResetAck acknowledges a reset command once the edge that applied it
// has run.
func (m *middleware) sendResetAck() bool {
	if m.pendingResetReq == nil {
		return false
	}

	req := m.pendingResetReq
	rsp := sim.GeneralRspBuilder{}.
		WithSrc(m.CtrlPort.AsRemote()).
		WithDst(req.Meta().Src).
		WithOriginalReq(req).
		Build()

	if err := m.CtrlPort.Send(rsp); err != nil {
		return false
	}

	tracing.TraceReqComplete(req, m.Comp)
	m.pendingResetReq = nil

	return true
}

func (m *middleware) flushStatus() bool {
	madeProgress := false

	for len(m.pendingStatus) > 0 {
		msg := m.pendingStatus[0]
		if err := m.StatusPort.Send(msg); err != nil {
			break
		}

		m.pendingStatus = m.pendingStatus[1:]
		madeProgress = true
	}

	return madeProgress
}
