package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should calculate the period", func() {
		Expect(Freq(1).Period()).To(Equal(VTimeInSec(1)))
		Expect(1 * GHz.Period()).To(BeNumerically("~", 1e-9, 1e-18))
	})

	It("should panic on a zero frequency", func() {
		Expect(func() { Freq(0).Period() }).To(Panic())
	})

	It("should convert time to cycle count", func() {
		Expect(Freq(1).Cycle(10)).To(Equal(uint64(10)))
		Expect((1 * GHz).Cycle(1e-9 * 80)).To(Equal(uint64(80)))
	})

	It("should return the same time when on a tick boundary", func() {
		Expect(Freq(1).ThisTick(10)).To(Equal(VTimeInSec(10)))
	})

	It("should round up to the next boundary in ThisTick", func() {
		Expect(Freq(1).ThisTick(10.1)).To(Equal(VTimeInSec(11)))
		Expect((1 * GHz).ThisTick(1.2e-9)).
			To(BeNumerically("~", 2e-9, 1e-18))
	})

	It("should move strictly forward in NextTick", func() {
		Expect(Freq(1).NextTick(10)).To(Equal(VTimeInSec(11)))
		Expect(Freq(1).NextTick(10.5)).To(Equal(VTimeInSec(11)))
		Expect((1 * GHz).NextTick(1e-9)).
			To(BeNumerically("~", 2e-9, 1e-18))
	})

	It("should jump N cycles and stay tick-aligned", func() {
		Expect(Freq(1).NCyclesLater(5, 10)).To(Equal(VTimeInSec(15)))
		Expect((1 * GHz).NCyclesLater(80, 1e-9)).
			To(BeNumerically("~", 8.1e-8, 1e-16))
	})

	It("should find the tick no earlier than a time", func() {
		Expect(Freq(1).NoEarlierThan(10)).To(Equal(VTimeInSec(10)))
		Expect(Freq(1).NoEarlierThan(10.2)).To(Equal(VTimeInSec(11)))
	})

	It("should find the middle of two ticks", func() {
		Expect(Freq(1).HalfTick(10)).To(Equal(VTimeInSec(10.5)))
	})
})
