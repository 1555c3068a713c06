package tracing

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cyclesim/codelock/datarecording"
	"github.com/cyclesim/codelock/sim"
)

// Simple test time teller implementation
type testTimeTeller struct {
	currentTime sim.VTimeInSec
}

func (t *testTimeTeller) CurrentTime() sim.VTimeInSec {
	return t.currentTime
}

func (t *testTimeTeller) SetCurrentTime(time sim.VTimeInSec) {
	t.currentTime = time
}

var _ = Describe("DBTracer", func() {
	var (
		timeTeller   *testTimeTeller
		dataRecorder datarecording.DataRecorder
		tracer       *DBTracer
	)

	BeforeEach(func() {
		os.Remove("test_trace.sqlite3")

		timeTeller = &testTimeTeller{}
		dataRecorder = datarecording.New("test_trace")
		tracer = NewDBTracer(timeTeller, dataRecorder)
	})

	AfterEach(func() {
		if dataRecorder != nil {
			dataRecorder.Close()
		}

		os.Remove("test_trace.sqlite3")
	})

	makeTask := func(id string) Task {
		return Task{
			ID:       id,
			Kind:     "tick",
			What:     "digit_entry",
			Location: "LockUnit",
		}
	}

	openReader := func() *SQLiteTraceReader {
		dataRecorder.Close()
		dataRecorder = nil

		reader := NewSQLiteTraceReader("test_trace.sqlite3")
		reader.Init()

		return reader
	}

	It("should reject starting tasks with missing fields", func() {
		Expect(func() {
			tracer.StartTask(Task{
				Kind: "tick", What: "digit_entry", Location: "LockUnit",
			})
		}).To(Panic())

		Expect(func() {
			tracer.StartTask(Task{
				ID: "task1", What: "digit_entry", Location: "LockUnit",
			})
		}).To(Panic())

		Expect(func() {
			tracer.StartTask(Task{
				ID: "task1", Kind: "tick", Location: "LockUnit",
			})
		}).To(Panic())

		Expect(func() {
			tracer.StartTask(Task{
				ID: "task1", Kind: "tick", What: "digit_entry",
			})
		}).To(Panic())
	})

	It("should record the start and end time of tasks", func() {
		timeTeller.SetCurrentTime(10.0)
		tracer.StartTask(makeTask("task1"))

		timeTeller.SetCurrentTime(25.0)
		tracer.EndTask(Task{ID: "task1"})

		reader := openReader()
		defer reader.Close()

		tasks := reader.ListTasks(TaskQuery{ID: "task1"})
		Expect(tasks).To(HaveLen(1))
		Expect(tasks[0].Kind).To(Equal("tick"))
		Expect(tasks[0].StartTime).To(Equal(sim.VTimeInSec(10.0)))
		Expect(tasks[0].EndTime).To(Equal(sim.VTimeInSec(25.0)))

		Expect(reader.ListComponents()).To(ContainElement("LockUnit"))
	})

	It("should not record unfinished tasks", func() {
		timeTeller.SetCurrentTime(10.0)
		tracer.StartTask(makeTask("task1"))
		tracer.Terminate()

		reader := openReader()
		defer reader.Close()

		Expect(reader.ListTasks(TaskQuery{})).To(BeEmpty())
	})

	It("should drop tasks outside the time range", func() {
		tracer.SetTimeRange(20.0, 100.0)

		timeTeller.SetCurrentTime(5.0)
		tracer.StartTask(makeTask("early"))
		timeTeller.SetCurrentTime(10.0)
		tracer.EndTask(Task{ID: "early"})

		timeTeller.SetCurrentTime(110.0)
		tracer.StartTask(makeTask("late"))
		timeTeller.SetCurrentTime(120.0)
		tracer.EndTask(Task{ID: "late"})

		timeTeller.SetCurrentTime(30.0)
		tracer.StartTask(makeTask("kept"))
		timeTeller.SetCurrentTime(40.0)
		tracer.EndTask(Task{ID: "kept"})

		reader := openReader()
		defer reader.Close()

		tasks := reader.ListTasks(TaskQuery{})
		Expect(tasks).To(HaveLen(1))
		Expect(tasks[0].ID).To(Equal("kept"))
	})

	Context("milestones", func() {
		It("should only record the first milestone of a task at a time", func() {
			timeTeller.SetCurrentTime(100.0)

			tracer.AddMilestone(Milestone{
				ID:       "milestone1",
				TaskID:   "task1",
				Kind:     MilestoneKindHardwareResource,
				What:     "resource_acquired",
				Location: "LockUnit",
			})
			tracer.AddMilestone(Milestone{
				ID:       "milestone2",
				TaskID:   "task1",
				Kind:     MilestoneKindNetworkTransfer,
				What:     "data_sent",
				Location: "LockUnit",
			})

			task := tracer.tracingTasks["task1"]
			Expect(task.Milestones).To(HaveLen(1))
			Expect(task.Milestones[0].ID).To(Equal("milestone1"))
			Expect(task.Milestones[0].Time).To(Equal(sim.VTimeInSec(100.0)))
		})

		It("should allow milestones for different tasks at the same time", func() {
			timeTeller.SetCurrentTime(100.0)

			tracer.AddMilestone(Milestone{
				ID:       "milestone1",
				TaskID:   "task1",
				Kind:     MilestoneKindHardwareResource,
				What:     "resource_acquired",
				Location: "LockUnit",
			})
			tracer.AddMilestone(Milestone{
				ID:       "milestone2",
				TaskID:   "task2",
				Kind:     MilestoneKindNetworkTransfer,
				What:     "data_sent",
				Location: "LockUnit",
			})

			Expect(tracer.tracingTasks["task1"].Milestones).To(HaveLen(1))
			Expect(tracer.tracingTasks["task2"].Milestones).To(HaveLen(1))
		})

		It("should allow milestones for the same task at different times", func() {
			timeTeller.SetCurrentTime(100.0)
			tracer.AddMilestone(Milestone{
				ID:       "milestone1",
				TaskID:   "task1",
				Kind:     MilestoneKindHardwareResource,
				What:     "resource_acquired",
				Location: "LockUnit",
			})

			timeTeller.SetCurrentTime(200.0)
			tracer.AddMilestone(Milestone{
				ID:       "milestone2",
				TaskID:   "task1",
				Kind:     MilestoneKindNetworkTransfer,
				What:     "data_sent",
				Location: "LockUnit",
			})

			task := tracer.tracingTasks["task1"]
			Expect(task.Milestones).To(HaveLen(2))
			Expect(task.Milestones[0].Time).To(Equal(sim.VTimeInSec(100.0)))
			Expect(task.Milestones[1].Time).To(Equal(sim.VTimeInSec(200.0)))
		})

		It("should prevent identical milestones from being recorded twice", func() {
			timeTeller.SetCurrentTime(100.0)

			milestone := Milestone{
				ID:       "milestone1",
				TaskID:   "task1",
				Kind:     MilestoneKindHardwareResource,
				What:     "resource_acquired",
				Location: "LockUnit",
			}

			tracer.AddMilestone(milestone)
			tracer.AddMilestone(milestone)

			Expect(tracer.tracingTasks["task1"].Milestones).To(HaveLen(1))
		})

		It("should persist milestones", func() {
			timeTeller.SetCurrentTime(100.0)
			tracer.AddMilestone(Milestone{
				ID:       "milestone1",
				TaskID:   "task1",
				Kind:     MilestoneKindQueue,
				What:     "queued",
				Location: "LockUnit",
			})

			timeTeller.SetCurrentTime(200.0)
			tracer.AddMilestone(Milestone{
				ID:       "milestone2",
				TaskID:   "task1",
				Kind:     MilestoneKindNetworkTransfer,
				What:     "data_sent",
				Location: "LockUnit",
			})

			reader := openReader()
			defer reader.Close()

			milestones := reader.ListMilestones("task1")
			Expect(milestones).To(HaveLen(2))
			Expect(milestones[0].Kind).To(Equal(MilestoneKindQueue))
			Expect(milestones[1].Time).To(Equal(sim.VTimeInSec(200.0)))
		})
	})
})
