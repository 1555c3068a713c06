package keypad

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseScript", func() {
	It("should parse digit tokens as key presses", func() {
		script, err := ParseScript("1 2 3 4")

		Expect(err).To(BeNil())
		Expect(script).To(HaveLen(4))
		for i, step := range script {
			Expect(step.Kind).To(Equal(StepPress))
			Expect(step.Digit).To(Equal(i + 1))
		}
	})

	It("should parse relock, reset, and wait tokens", func() {
		script, err := ParseScript("relock reset wait:80")

		Expect(err).To(BeNil())
		Expect(script).To(Equal(Script{Relock(), Reset(), Wait(80)}))
	})

	It("should accept an empty script", func() {
		script, err := ParseScript("  \n\t ")

		Expect(err).To(BeNil())
		Expect(script).To(BeEmpty())
	})

	It("should reject tokens that are not keys", func() {
		_, err := ParseScript("1 2 open")

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(`"open"`))
	})

	It("should reject digits outside the keypad range", func() {
		_, err := ParseScript("10")
		Expect(err).To(HaveOccurred())

		_, err = ParseScript("-1")
		Expect(err).To(HaveOccurred())
	})

	It("should reject non-positive wait counts", func() {
		_, err := ParseScript("wait:0")
		Expect(err).To(HaveOccurred())

		_, err = ParseScript("wait:-3")
		Expect(err).To(HaveOccurred())

		_, err = ParseScript("wait:soon")
		Expect(err).To(HaveOccurred())
	})

	It("should round-trip through String", func() {
		text := "1 2 relock wait:3 reset 9"

		script, err := ParseScript(text)

		Expect(err).To(BeNil())
		Expect(script.String()).To(Equal(text))
	})
})

var _ = Describe("Step constructors", func() {
	It("should reject digits outside the keypad range", func() {
		Expect(func() { Press(10) }).To(Panic())
		Expect(func() { Press(-1) }).To(Panic())
	})

	It("should reject waits shorter than one cycle", func() {
		Expect(func() { Wait(0) }).To(Panic())
	})
})
