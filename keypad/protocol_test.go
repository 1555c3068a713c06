package keypad

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cyclesim/codelock/sim"
)

var _ = Describe("PressMsgBuilder", func() {
	It("should build a press strobe", func() {
		msg := PressMsgBuilder{}.
			WithSrc("Pad.KeypadPort").
			WithDst("Lock.KeypadPort").
			WithDigit(7).
			Build()

		Expect(msg.Src).To(Equal(sim.RemotePort("Pad.KeypadPort")))
		Expect(msg.Dst).To(Equal(sim.RemotePort("Lock.KeypadPort")))
		Expect(msg.Digit).To(Equal(7))
		Expect(msg.ID).NotTo(BeEmpty())
	})

	It("should refuse digits outside the keypad range", func() {
		Expect(func() {
			PressMsgBuilder{}.WithDigit(12).Build()
		}).To(Panic())
	})

	It("should give clones fresh IDs", func() {
		msg := PressMsgBuilder{}.WithDigit(3).Build()

		clone := msg.Clone().(*PressMsg)

		Expect(clone.Digit).To(Equal(3))
		Expect(clone.ID).NotTo(Equal(msg.ID))
	})
})

var _ = Describe("ResetMsgBuilder", func() {
	It("should build a reset command", func() {
		msg := ResetMsgBuilder{}.
			WithSrc("Pad.CtrlPort").
			WithDst("Lock.CtrlPort").
			Build()

		Expect(msg.Src).To(Equal(sim.RemotePort("Pad.CtrlPort")))
		Expect(msg.Dst).To(Equal(sim.RemotePort("Lock.CtrlPort")))
		Expect(msg.ID).NotTo(BeEmpty())
	})
})
