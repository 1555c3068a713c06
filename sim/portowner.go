package sim

import (
	"fmt"
	"os"
	"sort"
)

// A PortOwner communicates with other elements through ports.
type PortOwner interface {
	AddPort(name string, port Port)
	GetPortByName(name string) Port
	Ports() []Port
}

// PortOwnerBase implements PortOwner with a name-indexed port map.
type PortOwnerBase struct {
	ports map[string]Port
}

// NewPortOwnerBase creates a PortOwnerBase.
func NewPortOwnerBase() *PortOwnerBase {
	return &PortOwnerBase{ports: make(map[string]Port)}
}

// AddPort registers a port under a local name. Registering the same name
// twice panics.
func (po *PortOwnerBase) AddPort(name string, port Port) {
	if _, found := po.ports[name]; found {
		panic("port already exists")
	}

	po.ports[name] = port
}

// GetPortByName returns the port registered under the given local name. It
// panics if no such port exists.
func (po PortOwnerBase) GetPortByName(name string) Port {
	port, found := po.ports[name]
	if !found {
		errMsg := fmt.Sprintf("port %s is not available.\n", name)
		errMsg += "available ports are:\n"

		for n := range po.ports {
			errMsg += fmt.Sprintf("\t%s\n", n)
		}

		fmt.Fprint(os.Stderr, errMsg)

		panic("port not found")
	}

	return port
}

// Ports returns all owned ports, ordered by local name.
func (po PortOwnerBase) Ports() []Port {
	names := make([]string, 0, len(po.ports))
	for n := range po.ports {
		names = append(names, n)
	}

	sort.Strings(names)

	list := make([]Port, 0, len(po.ports))
	for _, n := range names {
		list = append(list, po.ports[n])
	}

	return list
}
