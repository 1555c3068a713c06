package tracing

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/cyclesim/codelock/sim"
)

// CSVTraceWriter is a tracer that can store the tasks into a CSV file.
type CSVTraceWriter struct {
	timeTeller sim.TimeTeller
	path       string
	file       *os.File

	lock          sync.Mutex
	inflightTasks map[string]Task
	tasks         []Task
	bufferSize    int
}

// NewCSVTraceWriter creates a new CSVTraceWriter.
func NewCSVTraceWriter(
	timeTeller sim.TimeTeller,
	path string,
) *CSVTraceWriter {
	return &CSVTraceWriter{
		timeTeller:    timeTeller,
		path:          path,
		inflightTasks: make(map[string]Task),
		bufferSize:    1000,
	}
}

// Init creates the tracing csv file. If the file already exists, Init panics.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "codelock_trace_" + xid.New().String()
	}

	filename := t.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "ID, ParentID, Kind, What, Location, Start, End\n")

	atexit.Register(func() {
		t.Flush()

		err := t.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// StartTask records the start of a task.
func (t *CSVTraceWriter) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// StepTask does nothing
func (t *CSVTraceWriter) StepTask(_ Task) {
	// Do nothing
}

// EndTask writes the completed task into the write buffer.
func (t *CSVTraceWriter) EndTask(task Task) {
	task.EndTime = t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	originalTask, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	originalTask.EndTime = task.EndTime
	delete(t.inflightTasks, task.ID)

	t.tasks = append(t.tasks, originalTask)
	if len(t.tasks) >= t.bufferSize {
		t.flush()
	}
}

// Flush writes all the buffered tasks to the CSV file.
func (t *CSVTraceWriter) Flush() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.flush()
}

func (t *CSVTraceWriter) flush() {
	for _, task := range t.tasks {
		fmt.Fprintf(t.file, "%s, %s, %s, %s, %s, %.10f, %.10f\n",
			task.ID,
			task.ParentID,
			task.Kind,
			task.What,
			task.Location,
			task.StartTime,
			task.EndTime,
		)
	}

	t.tasks = nil
}
