package tracing

import (
	"database/sql"
	"fmt"

	// The SQLite driver is used to read trace databases.
	_ "github.com/mattn/go-sqlite3"
)

// TaskQuery is used to define the tasks to be queried. Not all the fields
// have to be set. If a field is empty, the criterion is ignored.
type TaskQuery struct {
	// Use ID to select a single task by its ID.
	ID string

	// Use ParentID to select all the tasks that are children of a task.
	ParentID string

	// Use Kind to select all the tasks that are of a kind.
	Kind string

	// Use Location to select all the tasks that are executed at a location.
	Location string

	// Enable time range selection.
	EnableTimeRange bool

	// Use StartTime and EndTime to select tasks that overlap with the given
	// time range.
	StartTime, EndTime float64

	// EnableParentTask will also query the parent task of the selected tasks.
	EnableParentTask bool
}

// TraceReader can parse a trace database.
type TraceReader interface {
	// ListComponents returns all the locations used in the trace.
	ListComponents() []string

	// ListTasks queries tasks.
	ListTasks(query TaskQuery) []Task

	// ListMilestones returns the milestones of one task.
	ListMilestones(taskID string) []Milestone
}

// SQLiteTraceReader reads back the tasks written by a DBTracer with a SQLite
// backend.
type SQLiteTraceReader struct {
	*sql.DB

	filename string
}

// NewSQLiteTraceReader creates a new SQLiteTraceReader.
func NewSQLiteTraceReader(filename string) *SQLiteTraceReader {
	r := &SQLiteTraceReader{
		filename: filename,
	}

	return r
}

// Init establishes the connection to the database.
func (r *SQLiteTraceReader) Init() {
	db, err := sql.Open("sqlite3", r.filename)
	if err != nil {
		panic(err)
	}

	r.DB = db
}

// ListComponents returns all the locations used in the trace.
func (r *SQLiteTraceReader) ListComponents() []string {
	var components []string

	rows, err := r.Query("SELECT DISTINCT Location FROM trace")
	if err != nil {
		panic(err)
	}
	defer rows.Close()

	for rows.Next() {
		var component string

		err := rows.Scan(&component)
		if err != nil {
			panic(err)
		}

		components = append(components, component)
	}

	return components
}

// ListTasks queries tasks.
func (r *SQLiteTraceReader) ListTasks(query TaskQuery) []Task {
	sqlStr, args := r.prepareTaskQuery(query)

	rows, err := r.Query(sqlStr, args...)
	if err != nil {
		panic(err)
	}
	defer rows.Close()

	tasks := []Task{}

	for rows.Next() {
		t := Task{}
		pt := Task{}

		if query.EnableParentTask {
			t.ParentTask = &pt
			err := rows.Scan(
				&t.ID, &t.ParentID, &t.Kind, &t.What, &t.Location,
				&t.StartTime, &t.EndTime,
				&pt.ID, &pt.ParentID, &pt.Kind, &pt.What, &pt.Location,
				&pt.StartTime, &pt.EndTime,
			)
			if err != nil {
				panic(err)
			}
		} else {
			err := rows.Scan(
				&t.ID, &t.ParentID, &t.Kind, &t.What, &t.Location,
				&t.StartTime, &t.EndTime,
			)
			if err != nil {
				panic(err)
			}
		}

		tasks = append(tasks, t)
	}

	return tasks
}

func (r *SQLiteTraceReader) prepareTaskQuery(
	query TaskQuery,
) (string, []any) {
	sqlStr := `
		SELECT
			t.ID,
			t.ParentID,
			t.Kind,
			t.What,
			t.Location,
			t.StartTime,
			t.EndTime
	`

	if query.EnableParentTask {
		sqlStr += `,
			pt.ID,
			pt.ParentID,
			pt.Kind,
			pt.What,
			pt.Location,
			pt.StartTime,
			pt.EndTime
		`
	}

	sqlStr += `
		FROM trace t
	`

	if query.EnableParentTask {
		sqlStr += `
			LEFT JOIN trace pt
			ON t.ParentID = pt.ID
		`
	}

	return r.addQueryConditions(sqlStr, query)
}

func (r *SQLiteTraceReader) addQueryConditions(
	sqlStr string,
	query TaskQuery,
) (string, []any) {
	args := []any{}

	sqlStr += `
		WHERE 1=1
	`

	if query.ID != "" {
		sqlStr += `
			AND t.ID = ?
		`
		args = append(args, query.ID)
	}

	if query.ParentID != "" {
		sqlStr += `
			AND t.ParentID = ?
		`
		args = append(args, query.ParentID)
	}

	if query.Kind != "" {
		sqlStr += `
			AND t.Kind = ?
		`
		args = append(args, query.Kind)
	}

	if query.Location != "" {
		sqlStr += `
			AND t.Location = ?
		`
		args = append(args, query.Location)
	}

	if query.EnableTimeRange {
		sqlStr += fmt.Sprintf(
			"AND t.EndTime > %.15f AND t.StartTime < %.15f",
			query.StartTime,
			query.EndTime)
	}

	return sqlStr, args
}

// ListMilestones returns the milestones of one task.
func (r *SQLiteTraceReader) ListMilestones(taskID string) []Milestone {
	milestones := []Milestone{}

	rows, err := r.Query(
		"SELECT ID, TaskID, Kind, What, Location, Time "+
			"FROM trace_milestones WHERE TaskID = ?",
		taskID)
	if err != nil {
		panic(err)
	}
	defer rows.Close()

	for rows.Next() {
		m := Milestone{}

		err := rows.Scan(
			&m.ID, &m.TaskID, &m.Kind, &m.What, &m.Location, &m.Time)
		if err != nil {
			panic(err)
		}

		milestones = append(milestones, m)
	}

	return milestones
}
