package tracing

import "github.com/cyclesim/codelock/sim"

// MilestoneKind classifies what a blocked task is waiting for.
type MilestoneKind string

// The kinds of milestones.
const (
	MilestoneKindHardwareResource MilestoneKind = "hardware_resource"
	MilestoneKindNetworkTransfer  MilestoneKind = "network_transfer"
	MilestoneKindQueue            MilestoneKind = "queue"
)

// Milestone represents a point in time where the processing of a task is
// held up.
type Milestone struct {
	ID       string         `json:"id" codelock_data:"index"`
	TaskID   string         `json:"task_id" codelock_data:"index"`
	Kind     MilestoneKind  `json:"kind"`
	What     string         `json:"what"`
	Location string         `json:"location"`
	Time     sim.VTimeInSec `json:"time"`
}
