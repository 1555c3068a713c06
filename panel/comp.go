// Package panel provides the indicator panel of the lock bench. It mirrors
// the status a lock unit broadcasts and counts the events worth reporting.
package panel

import (
	"log"
	"reflect"

	"github.com/cyclesim/codelock/datarecording"
	"github.com/cyclesim/codelock/lock"
	"github.com/cyclesim/codelock/lockunit"
	"github.com/cyclesim/codelock/sim"
)

// statusTableName is the table the panel writes its journal into.
const statusTableName = "lock_status"

type statusEntry struct {
	Seq      int `codelock_data:"index"`
	Time     float64
	State    string
	Unlocked bool
	WrongTry bool
	Lockout  bool
	Attempts int
}

// A Comp latches the most recent lock status and counts wrong tries and
// completed lockouts. With a recorder attached it also journals every
// update.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	StatusPort sim.Port

	recorder datarecording.DataRecorder

	seq        int
	unlocked   bool
	lockedOut  bool
	lastState  lock.State
	attempts   int
	wrongTries int
	lockouts   int
}

// Tick runs the middlewares for one cycle.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// Unlocked returns true while the last update reported an open lock.
func (c *Comp) Unlocked() bool {
	return c.unlocked
}

// LockedOut returns true while the last update reported a lockout.
func (c *Comp) LockedOut() bool {
	return c.lockedOut
}

// LastState returns the controller state of the last update.
func (c *Comp) LastState() lock.State {
	return c.lastState
}

// Attempts returns the failed-attempt count of the last update.
func (c *Comp) Attempts() int {
	return c.attempts
}

// WrongTries returns the number of WrongTry pulses seen so far.
func (c *Comp) WrongTries() int {
	return c.wrongTries
}

// Lockouts returns the number of lockouts that have completed.
func (c *Comp) Lockouts() int {
	return c.lockouts
}

// StatusCount returns the number of updates received so far.
func (c *Comp) StatusCount() int {
	return c.seq
}

type middleware struct {
	*Comp
}

// Tick consumes at most one status update per cycle.
func (m *middleware) Tick() bool {
	msg := m.StatusPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	status, ok := msg.(*lockunit.StatusMsg)
	if !ok {
		log.Panicf("cannot handle message of %s", reflect.TypeOf(msg))
	}

	m.apply(status)

	return true
}

func (m *middleware) apply(status *lockunit.StatusMsg) {
	if status.WrongTry {
		m.wrongTries++
	}

	// A lockout counts once it is served in full.
	if m.lockedOut && !status.Lockout {
		m.lockouts++
	}

	m.unlocked = status.Unlocked
	m.lockedOut = status.Lockout
	m.lastState = status.State
	m.attempts = status.Attempts
	m.seq++

	m.journal(status)
}

func (m *middleware) journal(status *lockunit.StatusMsg) {
	if m.recorder == nil {
		return
	}

	m.recorder.InsertData(statusTableName, statusEntry{
		Seq:      m.seq,
		Time:     float64(m.CurrentTime()),
		State:    status.State.String(),
		Unlocked: status.Unlocked,
		WrongTry: status.WrongTry,
		Lockout:  status.Lockout,
		Attempts: status.Attempts,
	})
}
