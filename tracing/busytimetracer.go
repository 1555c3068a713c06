package tracing

import (
	"sort"
	"sync"

	"github.com/cyclesim/codelock/sim"
)

type timeSpan struct {
	start, end sim.VTimeInSec
}

// BusyTimeTracer traces the time that a domain is processing a kind of task.
// If the task processing time overlaps, this tracer only considers one
// instance of the overlapped time.
type BusyTimeTracer struct {
	timeTeller sim.TimeTeller
	filter     TaskFilter

	lock          sync.Mutex
	inflightTasks map[string]sim.VTimeInSec
	spans         []timeSpan
	busyTime      sim.VTimeInSec
}

// NewBusyTimeTracer creates a new BusyTimeTracer
func NewBusyTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *BusyTimeTracer {
	t := &BusyTimeTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]sim.VTimeInSec),
	}

	return t
}

// BusyTime returns the total time that has been spent on a certain type of
// tasks.
func (t *BusyTimeTracer) BusyTime() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.busyTime
}

// TerminateAllTasks marks all the inflight tasks as completed at the given
// time.
func (t *BusyTimeTracer) TerminateAllTasks(now sim.VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for id, start := range t.inflightTasks {
		t.insertSpan(timeSpan{start: start, end: now})
		delete(t.inflightTasks, id)
	}
}

// StartTask records the task start time
func (t *BusyTimeTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	if t.filter != nil && !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = task.StartTime
	t.lock.Unlock()
}

// StepTask does nothing
func (t *BusyTimeTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask records the end of the task
func (t *BusyTimeTracer) EndTask(task Task) {
	task.EndTime = t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	start, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	delete(t.inflightTasks, task.ID)
	t.insertSpan(timeSpan{start: start, end: task.EndTime})
}

// insertSpan merges the span into the sorted, disjoint span list. The spans
// that the new span overlaps or touches are coalesced into one.
func (t *BusyTimeTracer) insertSpan(s timeSpan) {
	i := sort.Search(len(t.spans), func(i int) bool {
		return t.spans[i].end >= s.start
	})

	if i == len(t.spans) {
		t.spans = append(t.spans, s)
		t.busyTime += s.end - s.start

		return
	}

	j := i
	for j < len(t.spans) && t.spans[j].start <= s.end {
		if t.spans[j].start < s.start {
			s.start = t.spans[j].start
		}

		if t.spans[j].end > s.end {
			s.end = t.spans[j].end
		}

		t.busyTime -= t.spans[j].end - t.spans[j].start
		j++
	}

	merged := make([]timeSpan, 0, len(t.spans)-(j-i)+1)
	merged = append(merged, t.spans[:i]...)
	merged = append(merged, s)
	merged = append(merged, t.spans[j:]...)
	t.spans = merged

	t.busyTime += s.end - s.start
}
