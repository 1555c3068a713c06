package bench_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cyclesim/codelock/bench"
	"github.com/cyclesim/codelock/keypad"
	"github.com/cyclesim/codelock/lock"
)

func mustParse(text string) keypad.Script {
	script, err := keypad.ParseScript(text)
	Expect(err).To(BeNil())

	return script
}

var _ = Describe("Bench", func() {
	It("should walk the reference sequence", func() {
		b := bench.MakeBuilder().
			WithPasscode([4]int{1, 2, 3, 4}).
			WithMaxAttempts(3).
			WithLockoutDuration(80).
			WithScript(mustParse(
				"1 2 3 4 relock 9 1 9 0 wait:85 1 2 3 4")).
			Build("Bench")

		result, err := b.Run()

		Expect(err).To(BeNil())
		Expect(b.Driver.Done()).To(BeTrue())
		Expect(result.FinalState).To(Equal(lock.StateUnlocked))
		Expect(result.Unlocked).To(BeTrue())
		Expect(result.WrongTries).To(Equal(3))
		Expect(result.Lockouts).To(Equal(1))
		Expect(result.Cycles).To(BeNumerically(">", 80))
	})

	It("should never unlock on a near miss", func() {
		b := bench.MakeBuilder().
			WithPasscode([4]int{1, 2, 3, 4}).
			WithMaxAttempts(10).
			WithLockoutDuration(80).
			WithScript(mustParse("1 2 3 5 1 2 4 3")).
			Build("Bench")

		result, err := b.Run()

		Expect(err).To(BeNil())
		Expect(result.Unlocked).To(BeFalse())
		Expect(result.FinalState).To(Equal(lock.StateIdle))
		Expect(result.WrongTries).To(Equal(3))
		Expect(result.Lockouts).To(Equal(0))
	})

	It("should run deterministically", func() {
		runOnce := func() bench.Result {
			b := bench.MakeBuilder().
				WithPasscode([4]int{1, 2, 3, 4}).
				WithMaxAttempts(3).
				WithLockoutDuration(20).
				WithKeyGap(2).
				WithScript(mustParse("9 9 9 wait:25 1 2 3 4")).
				Build("Bench")

			result, err := b.Run()
			Expect(err).To(BeNil())

			return result
		}

		Expect(runOnce()).To(Equal(runOnce()))
	})
})
