// Package directconnection connects ports without latency. A message sent
// in one cycle is delivered in the same cycle, after all components ticked.
package directconnection

import (
	"github.com/cyclesim/codelock/sim"
)

// Comp moves messages directly between its plugged ports.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	nextPortID int
	ports      []sim.Port
	portByDst  map[sim.RemotePort]sim.Port
}

// PlugIn attaches a port to this connection.
func (c *Comp) PlugIn(port sim.Port) {
	c.Lock()
	defer c.Unlock()

	c.ports = append(c.ports, port)
	c.portByDst[port.AsRemote()] = port

	port.SetConnection(c)
}

// Unplug detaches a port from this connection.
func (c *Comp) Unplug(_ sim.Port) {
	panic("not implemented")
}

// NotifyAvailable lets the other plugged ports and the connection itself
// retry deliveries that were blocked on the now-drained port.
func (c *Comp) NotifyAvailable(p sim.Port) {
	for _, port := range c.ports {
		if port == p {
			continue
		}

		port.NotifyAvailable()
	}

	c.TickNow()
}

// NotifySend starts the connection ticking so the freshly queued message
// moves within the current cycle.
func (c *Comp) NotifySend() {
	c.TickNow()
}

// Tick forwards queued messages.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

type middleware struct {
	*Comp
}

// Tick drains the outgoing buffers of all plugged ports, rotating the
// starting port each cycle so no port is structurally favored.
func (m *middleware) Tick() bool {
	madeProgress := false

	for i := 0; i < len(m.ports); i++ {
		portID := (i + m.nextPortID) % len(m.ports)
		port := m.ports[portID]
		madeProgress = m.forwardMany(port) || madeProgress
	}

	m.nextPortID = (m.nextPortID + 1) % len(m.ports)

	return madeProgress
}

// forwardMany drains one port's outgoing buffer until the buffer is empty
// or a destination refuses delivery.
func (m *middleware) forwardMany(port sim.Port) bool {
	madeProgress := false

	for {
		head := port.PeekOutgoing()
		if head == nil {
			break
		}

		dst := m.dstPort(head.Meta().Dst)
		if err := dst.Deliver(head); err != nil {
			break
		}

		madeProgress = true
		port.RetrieveOutgoing()
	}

	return madeProgress
}

func (m *middleware) dstPort(dst sim.RemotePort) sim.Port {
	port, found := m.portByDst[dst]
	if !found {
		panic("port " + string(dst) + " is not plugged into " + m.Name())
	}

	return port
}
