package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/cyclesim/codelock/lock"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Drive a lock controller interactively.",
	Long: "`play` starts a prompt where every command advances a bare lock " +
		"controller by one clock tick. Type `help` at the prompt for the " +
		"available commands.",
	Run: func(cmd *cobra.Command, args []string) {
		err := play()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	},
}

var (
	passcodeFlag    string
	maxAttemptsFlag int
	lockoutFlag     int
)

var playCommands = []string{
	"relock", "reset", "wait", "state", "help", "quit", "exit",
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringVar(&passcodeFlag, "passcode", "1234",
		"the four-digit code the lock accepts")
	playCmd.Flags().IntVar(&maxAttemptsFlag, "max-attempts", 3,
		"the number of wrong tries that trigger a lockout")
	playCmd.Flags().IntVar(&lockoutFlag, "lockout", 80,
		"the number of ticks a lockout lasts")
}

func play() error {
	passcode, err := parsePasscode(passcodeFlag)
	if err != nil {
		return err
	}

	if maxAttemptsFlag < 1 {
		return fmt.Errorf("max-attempts must be at least 1, got %d",
			maxAttemptsFlag)
	}

	if lockoutFlag < 1 {
		return fmt.Errorf("lockout must be at least 1 tick, got %d",
			lockoutFlag)
	}

	ctrl := lock.NewController(lock.Config{
		Passcode:        passcode,
		MaxAttempts:     maxAttemptsFlag,
		LockoutDuration: lockoutFlag,
	})

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(line string) (c []string) {
		for _, cmd := range playCommands {
			if strings.HasPrefix(cmd, strings.ToLower(line)) {
				c = append(c, cmd)
			}
		}
		return
	})

	historyPath := filepath.Join(os.TempDir(), ".codelock_history")
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("Press 0-9 to enter digits. Type `help` for all commands.")

	for {
		input, err := line.Prompt("codelock> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		line.AppendHistory(input)

		if done := playOne(ctrl, input); done {
			return nil
		}
	}
}

func parsePasscode(s string) ([lock.PasscodeLen]int, error) {
	var code [lock.PasscodeLen]int

	if len(s) != lock.PasscodeLen {
		return code, fmt.Errorf(
			"passcode must have exactly %d digits, got %q",
			lock.PasscodeLen, s)
	}

	for i, r := range s {
		if r < '0' || r > '9' {
			return code, fmt.Errorf("passcode digit %q is not in [0, 9]", r)
		}

		code[i] = int(r - '0')
	}

	return code, nil
}

// playOne runs a single prompt line. It returns true when the session should
// end.
func playOne(ctrl *lock.Controller, input string) bool {
	words := strings.Fields(input)
	if len(words) == 0 {
		return false
	}

	switch words[0] {
	case "quit", "exit":
		return true
	case "help":
		printPlayHelp()
	case "state":
		fmt.Printf("state=%s attempts=%d lockoutTicks=%d\n",
			ctrl.State(), ctrl.Attempts(), ctrl.LockoutTicks())
	case "relock":
		reportTick(ctrl, ctrl.Tick(lock.Input{Relock: true}))
	case "reset":
		ctrl.Reset()
		reportTick(ctrl, ctrl.Tick(lock.Input{}))
	case "wait":
		playWait(ctrl, words)
	default:
		playDigit(ctrl, words[0])
	}

	return false
}

func playWait(ctrl *lock.Controller, words []string) {
	ticks := 1
	if len(words) > 1 {
		n, err := strconv.Atoi(words[1])
		if err != nil || n < 1 {
			fmt.Printf("wait needs a positive tick count, got %q\n", words[1])
			return
		}

		ticks = n
	}

	var out lock.Output
	for i := 0; i < ticks; i++ {
		out = ctrl.Tick(lock.Input{})
	}

	reportTick(ctrl, out)
}

func playDigit(ctrl *lock.Controller, word string) {
	if len(word) != 1 || word[0] < '0' || word[0] > '9' {
		fmt.Printf("unknown command %q, type `help` for the commands\n", word)
		return
	}

	digit := int(word[0] - '0')
	reportTick(ctrl, ctrl.Tick(lock.Input{Digit: digit, DigitValid: true}))
}

func reportTick(ctrl *lock.Controller, out lock.Output) {
	fmt.Printf("state=%s unlocked=%t wrongTry=%t lockout=%t attempts=%d\n",
		ctrl.State(), out.Unlocked, out.WrongTry, out.Lockout,
		ctrl.Attempts())
}

func printPlayHelp() {
	fmt.Println("0-9      press a keypad digit")
	fmt.Println("relock   close an unlocked lock")
	fmt.Println("reset    synchronous reset, applied on this tick")
	fmt.Println("wait N   advance N ticks without input")
	fmt.Println("state    show the controller state without ticking")
	fmt.Println("quit     leave the prompt")
}
