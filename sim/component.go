package sim

import "sync"

// A Named object carries a hierarchical name.
type Named interface {
	Name() string
}

// A Component is a simulated hardware element. It handles its own events,
// owns ports, and is notified when messages arrive or when a congested port
// drains.
type Component interface {
	Named
	Handler
	Hookable
	PortOwner

	// NotifyRecv runs when a message arrives at an empty incoming buffer of
	// one of the component's ports.
	NotifyRecv(port Port)

	// NotifyPortFree runs when the outgoing buffer of one of the component's
	// ports stops being full.
	NotifyPortFree(port Port)
}

// ComponentBase provides the embeddable core of a Component.
type ComponentBase struct {
	HookableBase
	*PortOwnerBase
	sync.Mutex

	name string
}

// NewComponentBase creates a ComponentBase with a validated name.
func NewComponentBase(name string) *ComponentBase {
	NameMustBeValid(name)

	c := new(ComponentBase)
	c.name = name
	c.PortOwnerBase = NewPortOwnerBase()

	return c
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
