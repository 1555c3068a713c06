// Package bench assembles a keypad driver, a lock unit, and an indicator
// panel into a runnable test bench.
package bench

import (
	"github.com/cyclesim/codelock/keypad"
	"github.com/cyclesim/codelock/lock"
	"github.com/cyclesim/codelock/lockunit"
	"github.com/cyclesim/codelock/panel"
	"github.com/cyclesim/codelock/sim"
)

// A Bench holds the components of one lock test bench. The components are
// wired through a single direct connection.
type Bench struct {
	Engine sim.Engine
	Driver *keypad.Driver
	Lock   *lockunit.Comp
	Panel  *panel.Comp

	freq sim.Freq
}

// A Result summarizes one bench run.
type Result struct {
	// FinalState is the controller state when the engine drained.
	FinalState lock.State

	// Unlocked is true when the run ended with the lock open.
	Unlocked bool

	// WrongTries is the number of WrongTry pulses the panel observed.
	WrongTries int

	// Lockouts is the number of lockouts that ran to completion.
	Lockouts int

	// Cycles is the number of cycles the run took.
	Cycles uint64
}

// Run plays the whole script and reports what the bench observed.
func (b *Bench) Run() (Result, error) {
	b.Driver.TickLater()

	if err := b.Engine.Run(); err != nil {
		return Result{}, err
	}

	return Result{
		FinalState: b.Lock.State(),
		Unlocked:   b.Lock.Output().Unlocked,
		WrongTries: b.Panel.WrongTries(),
		Lockouts:   b.Panel.Lockouts(),
		Cycles:     b.freq.Cycle(b.Engine.CurrentTime()),
	}, nil
}
