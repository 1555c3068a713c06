package keypad

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cyclesim/codelock/sim"
	"github.com/cyclesim/codelock/sim/directconnection"
)

// lockStub stands in for a lock unit. It consumes at most one strobe per
// cycle and acknowledges reset commands after ackDelay cycles.
type lockStub struct {
	*sim.TickingComponent

	KeypadPort sim.Port
	CtrlPort   sim.Port

	digits      []int
	relocks     int
	strobeTimes []sim.VTimeInSec

	resets     int
	resetTimes []sim.VTimeInSec
	ackDelay   int
	ackIn      int
	pendingRsp sim.Msg
}

func newLockStub(engine sim.Engine, name string, ackDelay int) *lockStub {
	s := &lockStub{ackDelay: ackDelay}
	s.TickingComponent = sim.NewTickingComponent(name, engine, 1*sim.Hz, s)

	s.KeypadPort = sim.NewPort(s, 4, 4, name+".KeypadPort")
	s.CtrlPort = sim.NewPort(s, 4, 4, name+".CtrlPort")
	s.AddPort("Keypad", s.KeypadPort)
	s.AddPort("Ctrl", s.CtrlPort)

	return s
}

func (s *lockStub) Tick() bool {
	madeProgress := false

	if msg := s.KeypadPort.RetrieveIncoming(); msg != nil {
		s.strobeTimes = append(s.strobeTimes, s.CurrentTime())

		switch msg := msg.(type) {
		case *PressMsg:
			s.digits = append(s.digits, msg.Digit)
		case *RelockMsg:
			s.relocks++
		}

		madeProgress = true
	}

	if msg := s.CtrlPort.RetrieveIncoming(); msg != nil {
		req := msg.(*ResetMsg)
		s.resets++
		s.resetTimes = append(s.resetTimes, s.CurrentTime())
		s.pendingRsp = sim.GeneralRspBuilder{}.
			WithSrc(s.CtrlPort.AsRemote()).
			WithDst(req.Src).
			WithOriginalReq(req).
			Build()
		s.ackIn = s.ackDelay
		madeProgress = true
	}

	if s.pendingRsp != nil {
		if s.ackIn > 0 {
			s.ackIn--
			madeProgress = true
		} else if err := s.CtrlPort.Send(s.pendingRsp); err == nil {
			s.pendingRsp = nil
			madeProgress = true
		}
	}

	return madeProgress
}

type countingTracker struct {
	finished uint64
}

func (t *countingTracker) IncrementFinished(amount uint64) {
	t.finished += amount
}

func wireDriver(
	script Script,
	keyGap, ackDelay int,
) (sim.Engine, *Driver, *lockStub) {
	engine := sim.NewSerialEngine()
	stub := newLockStub(engine, "Lock", ackDelay)

	driver := MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.Hz).
		WithScript(script).
		WithKeyGap(keyGap).
		WithLockKeypadPort(stub.KeypadPort.AsRemote()).
		WithLockCtrlPort(stub.CtrlPort.AsRemote()).
		Build("Driver")

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.Hz).
		Build("Conn")
	conn.PlugIn(driver.KeypadPort)
	conn.PlugIn(driver.CtrlPort)
	conn.PlugIn(stub.KeypadPort)
	conn.PlugIn(stub.CtrlPort)

	driver.TickLater()

	return engine, driver, stub
}

var _ = Describe("Driver", func() {
	It("should play the digits in order, one per cycle", func() {
		script, err := ParseScript("1 2 3 4")
		Expect(err).To(BeNil())

		engine, driver, stub := wireDriver(script, 0, 0)

		Expect(engine.Run()).To(Succeed())

		Expect(stub.digits).To(Equal([]int{1, 2, 3, 4}))
		Expect(driver.Done()).To(BeTrue())

		for i := 1; i < len(stub.strobeTimes); i++ {
			diff := float64(stub.strobeTimes[i] - stub.strobeTimes[i-1])
			Expect(diff).To(BeNumerically("~", 1.0, 0.01))
		}
	})

	It("should keep the configured gap between keys", func() {
		script, err := ParseScript("1 2")
		Expect(err).To(BeNil())

		engine, _, stub := wireDriver(script, 3, 0)

		Expect(engine.Run()).To(Succeed())

		Expect(stub.digits).To(Equal([]int{1, 2}))

		diff := float64(stub.strobeTimes[1] - stub.strobeTimes[0])
		Expect(diff).To(BeNumerically("~", 4.0, 0.01))
	})

	It("should stay idle for the scripted number of cycles", func() {
		script, err := ParseScript("1 wait:10 2")
		Expect(err).To(BeNil())

		engine, driver, stub := wireDriver(script, 0, 0)

		Expect(engine.Run()).To(Succeed())

		Expect(driver.Done()).To(BeTrue())

		diff := float64(stub.strobeTimes[1] - stub.strobeTimes[0])
		Expect(diff).To(BeNumerically("~", 11.0, 0.01))
	})

	It("should deliver the relock strobe", func() {
		script, err := ParseScript("relock")
		Expect(err).To(BeNil())

		engine, driver, stub := wireDriver(script, 0, 0)

		Expect(engine.Run()).To(Succeed())

		Expect(stub.relocks).To(Equal(1))
		Expect(driver.Done()).To(BeTrue())
	})

	It("should hold the script until a reset is acknowledged", func() {
		script, err := ParseScript("reset 5")
		Expect(err).To(BeNil())

		engine, driver, stub := wireDriver(script, 0, 10)

		Expect(engine.Run()).To(Succeed())

		Expect(stub.resets).To(Equal(1))
		Expect(stub.digits).To(Equal([]int{5}))
		Expect(driver.Done()).To(BeTrue())

		diff := float64(stub.strobeTimes[0] - stub.resetTimes[0])
		Expect(diff).To(BeNumerically(">", 10.0))
	})

	It("should report finished script steps to the tracker", func() {
		script, err := ParseScript("1 2 wait:3 relock")
		Expect(err).To(BeNil())

		tracker := &countingTracker{}

		engine := sim.NewSerialEngine()
		stub := newLockStub(engine, "Lock", 0)

		driver := MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.Hz).
			WithScript(script).
			WithLockKeypadPort(stub.KeypadPort.AsRemote()).
			WithLockCtrlPort(stub.CtrlPort.AsRemote()).
			WithProgressTracker(tracker).
			Build("Driver")

		conn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.Hz).
			Build("Conn")
		conn.PlugIn(driver.KeypadPort)
		conn.PlugIn(driver.CtrlPort)
		conn.PlugIn(stub.KeypadPort)
		conn.PlugIn(stub.CtrlPort)

		driver.TickLater()

		Expect(engine.Run()).To(Succeed())

		Expect(driver.Done()).To(BeTrue())
		Expect(tracker.finished).To(Equal(uint64(4)))
	})
})
