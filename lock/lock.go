// Package lock implements the register-transfer model of a four-digit code
// lock controller. The controller is synchronous: it samples its inputs once
// per clock tick, moves to its next state at the tick edge, and drives its
// outputs from the state after the edge.
package lock

import "fmt"

// PasscodeLen is the number of digits in a passcode.
const PasscodeLen = 4

// A State identifies the stage of passcode entry.
type State int

const (
	// StateIdle waits for the first digit of the passcode.
	StateIdle State = iota

	// StateExpectDigit2 has matched the first digit.
	StateExpectDigit2

	// StateExpectDigit3 has matched the first two digits.
	StateExpectDigit3

	// StateExpectDigit4 has matched the first three digits.
	StateExpectDigit4

	// StateUnlocked has matched the full passcode.
	StateUnlocked

	// StateLockout refuses all input until the lockout timer expires.
	StateLockout
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateExpectDigit2:
		return "ExpectDigit2"
	case StateExpectDigit3:
		return "ExpectDigit3"
	case StateExpectDigit4:
		return "ExpectDigit4"
	case StateUnlocked:
		return "Unlocked"
	case StateLockout:
		return "Lockout"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Config holds the build-time parameters of a controller. A config never
// changes after the controller is built.
type Config struct {
	// Passcode is the digit sequence that opens the lock. Each digit is in
	// [0, 9].
	Passcode [PasscodeLen]int

	// MaxAttempts is the number of wrong tries that trigger a lockout. It
	// must be at least 1.
	MaxAttempts int

	// LockoutDuration is the number of ticks a lockout lasts. It must be at
	// least 1.
	LockoutDuration int
}

// MustBeValid panics if the config violates its constraints.
func (c Config) MustBeValid() {
	for i, d := range c.Passcode {
		if d < 0 || d > 9 {
			panic(fmt.Sprintf(
				"passcode digit %d at position %d is out of range", d, i))
		}
	}

	if c.MaxAttempts < 1 {
		panic("max attempts must be at least 1")
	}

	if c.LockoutDuration < 1 {
		panic("lockout duration must be at least 1 tick")
	}
}

// Regs is the register state of the controller. The zero value is the
// power-on state.
type Regs struct {
	// State is the current FSM state.
	State State

	// Attempts counts the wrong tries since the last full success or
	// lockout expiry. Returning to StateIdle after a wrong try does not
	// clear it.
	Attempts int

	// LockoutTicks counts the ticks spent in the current lockout.
	LockoutTicks int
}

// Input carries the signals sampled at one tick.
type Input struct {
	// Digit is the keypad digit pressed this tick. It is only meaningful
	// when DigitValid is set.
	Digit int

	// DigitValid marks Digit as present.
	DigitValid bool

	// Relock asks an unlocked lock to close again.
	Relock bool
}

// Output carries the signals the controller drives during one cycle.
type Output struct {
	// Unlocked is high while the lock is open.
	Unlocked bool

	// WrongTry pulses high for exactly the tick that rejects a digit.
	WrongTry bool

	// Lockout is high while the controller refuses input.
	Lockout bool
}

// Next computes one tick of the controller. It takes the register state
// before the tick edge and the inputs sampled at the edge, and returns the
// register state after the edge together with the outputs driven during the
// new cycle. Next assumes the config is valid.
func (c Config) Next(r Regs, in Input) (Regs, Output) {
	in.digitMustBeValid()

	next, wrongTry := c.advance(r, in)

	out := Output{
		Unlocked: next.State == StateUnlocked,
		WrongTry: wrongTry,
		Lockout:  next.State == StateLockout,
	}

	return next, out
}

func (c Config) advance(r Regs, in Input) (Regs, bool) {
	switch r.State {
	case StateUnlocked:
		// Digits do nothing while the lock is open.
		if in.Relock {
			r.State = StateIdle
		}

		return r, false
	case StateLockout:
		return c.advanceLockout(r), false
	default:
		return c.advanceEntry(r, in)
	}
}

// advanceLockout counts the lockout timer up. A digit pressed on the expiry
// tick is discarded without a wrong-try charge.
func (c Config) advanceLockout(r Regs) Regs {
	if r.LockoutTicks >= c.LockoutDuration-1 {
		return Regs{State: StateIdle}
	}

	r.LockoutTicks++

	return r
}

// advanceEntry handles the states that consume passcode digits.
func (c Config) advanceEntry(r Regs, in Input) (Regs, bool) {
	if !in.DigitValid {
		return r, false
	}

	// Entry states are numbered by the passcode position they await.
	pos := int(r.State)
	if in.Digit != c.Passcode[pos] {
		return c.rejectDigit(r), true
	}

	if pos == PasscodeLen-1 {
		// Full match. Only here and on lockout expiry does the attempt
		// counter clear.
		return Regs{State: StateUnlocked}, false
	}

	r.State = State(pos + 1)

	return r, false
}

// rejectDigit charges one wrong try. A wrong digit never restarts the
// prefix, even when it equals the first passcode digit.
func (c Config) rejectDigit(r Regs) Regs {
	r.Attempts++
	if r.Attempts >= c.MaxAttempts {
		return Regs{State: StateLockout, Attempts: r.Attempts}
	}

	r.State = StateIdle

	return r
}

func (in Input) digitMustBeValid() {
	if in.DigitValid && (in.Digit < 0 || in.Digit > 9) {
		panic(fmt.Sprintf("digit %d is out of range", in.Digit))
	}
}
