package keypad

import (
	"fmt"
	"strconv"
	"strings"
)

// StepKind tells a Driver what to do on one script step.
type StepKind int

// The kinds of script steps.
const (
	StepPress StepKind = iota
	StepRelock
	StepReset
	StepWait
)

// A Step is one action in a keypad script.
type Step struct {
	Kind  StepKind
	Digit int
	Ticks int
}

// Press creates a step that presses one digit key.
func Press(digit int) Step {
	digitMustBeInRange(digit)

	return Step{Kind: StepPress, Digit: digit}
}

// Relock creates a step that presses the relock key.
func Relock() Step {
	return Step{Kind: StepRelock}
}

// Reset creates a step that sends a reset command.
func Reset() Step {
	return Step{Kind: StepReset}
}

// Wait creates a step that keeps the keypad idle for the given number of
// cycles.
func Wait(ticks int) Step {
	if ticks < 1 {
		panic("wait must be at least one cycle")
	}

	return Step{Kind: StepWait, Ticks: ticks}
}

// A Script is a sequence of keypad actions.
type Script []Step

// ParseScript parses the textual form of a script. Tokens are separated by
// whitespace. A digit token presses that key, "relock" presses the relock
// key, "reset" sends a reset command, and "wait:N" keeps the keypad idle
// for N cycles.
func ParseScript(text string) (Script, error) {
	script := Script{}

	for _, token := range strings.Fields(text) {
		step, err := parseToken(token)
		if err != nil {
			return nil, err
		}

		script = append(script, step)
	}

	return script, nil
}

func parseToken(token string) (Step, error) {
	switch {
	case token == "relock":
		return Relock(), nil
	case token == "reset":
		return Reset(), nil
	case strings.HasPrefix(token, "wait:"):
		ticks, err := strconv.Atoi(strings.TrimPrefix(token, "wait:"))
		if err != nil || ticks < 1 {
			return Step{}, fmt.Errorf(
				"script token %q must name a positive cycle count", token)
		}

		return Wait(ticks), nil
	default:
		digit, err := strconv.Atoi(token)
		if err != nil || digit < 0 || digit > 9 {
			return Step{}, fmt.Errorf(
				"script token %q is not a digit, relock, reset, or wait:N",
				token)
		}

		return Press(digit), nil
	}
}

// String returns the textual form of the script.
func (s Script) String() string {
	tokens := make([]string, 0, len(s))

	for _, step := range s {
		switch step.Kind {
		case StepPress:
			tokens = append(tokens, strconv.Itoa(step.Digit))
		case StepRelock:
			tokens = append(tokens, "relock")
		case StepReset:
			tokens = append(tokens, "reset")
		case StepWait:
			tokens = append(tokens, fmt.Sprintf("wait:%d", step.Ticks))
		}
	}

	return strings.Join(tokens, " ")
}
