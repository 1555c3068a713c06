// Package scenario loads lock bench scenarios from TOML files.
package scenario

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cyclesim/codelock/keypad"
	"github.com/cyclesim/codelock/lock"
	"github.com/cyclesim/codelock/sim"
)

// A Scenario describes one bench run.
type Scenario struct {
	// Name identifies the scenario in reports. It defaults to the file name
	// without the extension.
	Name string `toml:"name"`

	// Passcode is the four-digit code the lock accepts.
	Passcode []int `toml:"passcode"`

	// MaxAttempts is the number of wrong tries that trigger a lockout.
	MaxAttempts int `toml:"max_attempts"`

	// LockoutDuration is the number of cycles a lockout lasts.
	LockoutDuration int `toml:"lockout_duration"`

	// FreqMHz is the clock frequency of the bench in MHz. It defaults to
	// 1000.
	FreqMHz float64 `toml:"freq_mhz"`

	// KeyGap is the number of idle cycles the keypad inserts after each
	// key.
	KeyGap int `toml:"key_gap"`

	// Script is the keypad script, such as "1 2 3 4 relock 9 wait:80".
	Script string `toml:"script"`
}

// Load reads a scenario from a TOML file and validates it.
func Load(path string) (Scenario, error) {
	var s Scenario

	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Scenario{}, fmt.Errorf("load scenario: %w", err)
	}

	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if s.FreqMHz == 0 {
		s.FreqMHz = 1000
	}

	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}

	return s, nil
}

// Validate checks that the scenario can be turned into a runnable bench.
func (s Scenario) Validate() error {
	if len(s.Passcode) != lock.PasscodeLen {
		return fmt.Errorf("scenario %s: passcode must have %d digits, got %d",
			s.Name, lock.PasscodeLen, len(s.Passcode))
	}

	for i, d := range s.Passcode {
		if d < 0 || d > 9 {
			return fmt.Errorf(
				"scenario %s: passcode digit %d at position %d is out of range",
				s.Name, d, i)
		}
	}

	if s.MaxAttempts < 1 {
		return fmt.Errorf("scenario %s: max_attempts must be at least 1",
			s.Name)
	}

	if s.LockoutDuration < 1 {
		return fmt.Errorf("scenario %s: lockout_duration must be at least 1",
			s.Name)
	}

	if s.FreqMHz <= 0 {
		return fmt.Errorf("scenario %s: freq_mhz must be positive", s.Name)
	}

	if s.KeyGap < 0 {
		return fmt.Errorf("scenario %s: key_gap must not be negative", s.Name)
	}

	if _, err := keypad.ParseScript(s.Script); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	return nil
}

// LockConfig returns the controller configuration the scenario describes.
func (s Scenario) LockConfig() lock.Config {
	var code [lock.PasscodeLen]int
	copy(code[:], s.Passcode)

	return lock.Config{
		Passcode:        code,
		MaxAttempts:     s.MaxAttempts,
		LockoutDuration: s.LockoutDuration,
	}
}

// KeyScript returns the parsed keypad script.
func (s Scenario) KeyScript() (keypad.Script, error) {
	return keypad.ParseScript(s.Script)
}

// Freq returns the bench clock frequency.
func (s Scenario) Freq() sim.Freq {
	return sim.Freq(s.FreqMHz) * sim.MHz
}
