package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	stubEvent := func(
		time VTimeInSec,
		handler Handler,
		secondary bool,
	) *MockEvent {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(time).AnyTimes()
		evt.EXPECT().Handler().Return(handler).AnyTimes()
		evt.EXPECT().IsSecondary().Return(secondary).AnyTimes()

		return evt
	}

	It("should run events in time order", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)

		evt1 := stubEvent(4.0, handler1, false)
		evt2 := stubEvent(2.0, handler2, false)
		evt3 := stubEvent(3.0, handler1, false)
		evt4 := stubEvent(5.0, handler1, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2).Do(func(_ Event) {
			engine.Schedule(evt3)
			engine.Schedule(evt4)
		})
		handleEvt3 := handler1.EXPECT().Handle(evt3).After(handleEvt2)
		handleEvt1 := handler1.EXPECT().Handle(evt1).After(handleEvt3)
		handler1.EXPECT().Handle(evt4).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		err := engine.Run()

		Expect(err).To(BeNil())
	})

	It("should run same-time secondary events after primary events", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		handler3 := NewMockHandler(mockCtrl)

		evt1 := stubEvent(2.0, handler1, true)
		evt2 := stubEvent(2.0, handler2, false)
		evt3 := stubEvent(2.0, handler3, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2)
		handleEvt3 := handler3.EXPECT().Handle(evt3)
		handler1.EXPECT().Handle(evt1).
			After(handleEvt2).
			After(handleEvt3)

		engine.Schedule(evt1)
		engine.Schedule(evt2)
		engine.Schedule(evt3)

		_ = engine.Run()
	})

	It("should advance the current time as events run", func() {
		handler := NewMockHandler(mockCtrl)
		evt := stubEvent(7.5, handler, false)

		handler.EXPECT().Handle(evt).Do(func(_ Event) {
			Expect(engine.CurrentTime()).To(Equal(VTimeInSec(7.5)))
		})

		engine.Schedule(evt)

		_ = engine.Run()

		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(7.5)))
	})

	It("should call simulation end handlers on Finished", func() {
		called := 0
		engine.RegisterSimulationEndHandler(endHandlerFunc(func(_ VTimeInSec) {
			called++
		}))

		engine.Finished()

		Expect(called).To(Equal(1))
	})
})

type endHandlerFunc func(now VTimeInSec)

func (f endHandlerFunc) Handle(now VTimeInSec) {
	f(now)
}
