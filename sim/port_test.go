package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

type testMsg struct {
	MsgMeta
}

func newTestMsg() *testMsg {
	return &testMsg{}
}

func (m *testMsg) Meta() *MsgMeta {
	return &m.MsgMeta
}

func (m *testMsg) Clone() Msg {
	cloned := *m
	cloned.ID = GetIDGenerator().Generate()

	return &cloned
}

var _ = Describe("DefaultPort", func() {
	var (
		mockCtrl *gomock.Controller
		comp     *MockComponent
		conn     *MockConnection
		port     *defaultPort
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		comp = NewMockComponent(mockCtrl)
		conn = NewMockConnection(mockCtrl)
		port = NewPort(comp, 4, 4, "Port").(*defaultPort)
		port.SetConnection(conn)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should return its component", func() {
		Expect(port.Component()).To(BeIdenticalTo(comp))
	})

	It("should return its name", func() {
		Expect(port.Name()).To(Equal("Port"))
	})

	It("should refuse a second connection", func() {
		conn2 := NewMockConnection(mockCtrl)
		conn.EXPECT().Name().Return("Conn1").AnyTimes()
		conn2.EXPECT().Name().Return("Conn2").AnyTimes()

		Expect(func() { port.SetConnection(conn2) }).To(Panic())
	})

	It("should panic when the port is not the msg src", func() {
		msg := newTestMsg()

		Expect(func() { port.Send(msg) }).To(Panic())
	})

	It("should panic when the msg dst is not set", func() {
		msg := newTestMsg()
		msg.Src = port.AsRemote()

		Expect(func() { port.Send(msg) }).To(Panic())
	})

	It("should panic when the msg src equals the dst", func() {
		msg := newTestMsg()
		msg.Src = port.AsRemote()
		msg.Dst = port.AsRemote()

		Expect(func() { port.Send(msg) }).To(Panic())
	})

	It("should queue an outgoing message and notify the connection", func() {
		msg := newTestMsg()
		msg.Src = port.AsRemote()
		msg.Dst = "SomewhereElse"

		conn.EXPECT().NotifySend()

		err := port.Send(msg)

		Expect(err).To(BeNil())
		Expect(port.PeekOutgoing()).To(BeIdenticalTo(msg))
	})

	It("should only notify the connection on the first queued message", func() {
		msg := newTestMsg()
		msg.Src = port.AsRemote()
		msg.Dst = "SomewhereElse"

		conn.EXPECT().NotifySend()

		Expect(port.Send(msg)).To(BeNil())
		Expect(port.Send(msg)).To(BeNil())
	})

	It("should fail to send when the outgoing buffer is full", func() {
		msg := newTestMsg()
		msg.Src = port.AsRemote()
		msg.Dst = "SomewhereElse"

		for i := 0; i < 4; i++ {
			port.outgoingBuf.Push(msg)
		}

		err := port.Send(msg)

		Expect(err).NotTo(BeNil())
		Expect(port.CanSend()).To(BeFalse())
	})

	It("should deliver and wake the component", func() {
		msg := newTestMsg()

		comp.EXPECT().NotifyRecv(port)

		err := port.Deliver(msg)

		Expect(err).To(BeNil())
		Expect(port.PeekIncoming()).To(BeIdenticalTo(msg))
	})

	It("should fail to deliver when the incoming buffer is full", func() {
		msg := newTestMsg()
		for i := 0; i < 4; i++ {
			port.incomingBuf.Push(msg)
		}

		err := port.Deliver(msg)

		Expect(err).NotTo(BeNil())
	})

	It("should return nil when peeking an empty incoming buffer", func() {
		Expect(port.PeekIncoming()).To(BeNil())
	})

	It("should return nil when retrieving an empty incoming buffer", func() {
		Expect(port.RetrieveIncoming()).To(BeNil())
	})

	It("should let the connection drain a previously full incoming buffer", func() {
		msg := newTestMsg()
		for i := 0; i < 4; i++ {
			port.incomingBuf.Push(msg)
		}

		conn.EXPECT().NotifyAvailable(port)

		retrieved := port.RetrieveIncoming()

		Expect(retrieved).To(BeIdenticalTo(msg))
	})

	It("should wake the component when a full outgoing buffer drains", func() {
		msg := newTestMsg()
		for i := 0; i < 4; i++ {
			port.outgoingBuf.Push(msg)
		}

		comp.EXPECT().NotifyPortFree(port)

		retrieved := port.RetrieveOutgoing()

		Expect(retrieved).To(BeIdenticalTo(msg))
	})

	It("should forward connection-side availability to the component", func() {
		comp.EXPECT().NotifyPortFree(port)

		port.NotifyAvailable()
	})
})
