package tracing

// A Tracer can collect task traces
type Tracer interface {
	StartTask(task Task)
	StepTask(task Task)
	EndTask(task Task)
}

// A MilestoneTracer is a Tracer that additionally records the milestones
// of the tasks that are held up.
type MilestoneTracer interface {
	Tracer

	AddMilestone(milestone Milestone)
}
