package analysis

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/cyclesim/codelock/datarecording"
	"github.com/tebeka/atexit"
)

// PerfAnalyzerBackend is the interface that provides the service that can
// record performance data entries.
type PerfAnalyzerBackend interface {
	AddDataEntry(entry PerfAnalyzerEntry)
	Flush()
}

// CSVBackend is a PerfAnalyzerBackend that writes data entries to a CSV
// file.
type CSVBackend struct {
	dbFile    *os.File
	csvWriter *csv.Writer
}

// NewCSVPerfAnalyzerBackend creates a new CSVBackend that writes to
// dbFilename.csv.
func NewCSVPerfAnalyzerBackend(dbFilename string) *CSVBackend {
	p := &CSVBackend{}

	var err error
	p.dbFile, err = os.Create(dbFilename + ".csv")
	if err != nil {
		panic(err)
	}

	p.csvWriter = csv.NewWriter(p.dbFile)

	header := []string{
		"Start", "End",
		"Where", "WhereRemote",
		"What", "EntryType",
		"Value", "Unit",
	}
	err = p.csvWriter.Write(header)
	if err != nil {
		panic(err)
	}

	atexit.Register(func() { p.Flush() })

	return p
}

// AddDataEntry adds a data entry to the CSV file.
func (p *CSVBackend) AddDataEntry(entry PerfAnalyzerEntry) {
	err := p.csvWriter.Write([]string{
		fmt.Sprintf("%.10f", entry.Start),
		fmt.Sprintf("%.10f", entry.End),
		entry.Where,
		entry.WhereRemote,
		entry.What,
		entry.EntryType,
		fmt.Sprintf("%.10f", entry.Value),
		entry.Unit,
	})
	if err != nil {
		panic(err)
	}
}

// Flush flushes the CSV writer.
func (p *CSVBackend) Flush() {
	p.csvWriter.Flush()
}

const perfTableName = "perf"

// perfTableEntry mirrors PerfAnalyzerEntry. The entry field names End and
// Where collide with SQL keywords and cannot serve as column names.
type perfTableEntry struct {
	StartTime      float64 `codelock_data:"index"`
	EndTime        float64 `codelock_data:"index"`
	Location       string  `codelock_data:"index"`
	RemoteLocation string
	What           string
	EntryType      string
	Value          float64
	Unit           string
}

// SQLiteBackend is a PerfAnalyzerBackend that writes data entries to a
// SQLite database.
type SQLiteBackend struct {
	recorder datarecording.DataRecorder
}

// NewSQLitePerfAnalyzerBackend creates a new SQLiteBackend that writes to
// dbFilename.sqlite3, replacing the file if it exists.
func NewSQLitePerfAnalyzerBackend(dbFilename string) *SQLiteBackend {
	filename := dbFilename + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		err = os.Remove(filename)
		if err != nil {
			panic(err)
		}
	}

	p := &SQLiteBackend{
		recorder: datarecording.New(dbFilename),
	}

	p.recorder.CreateTable(perfTableName, perfTableEntry{})

	return p
}

// AddDataEntry buffers a data entry to be written to the database.
func (p *SQLiteBackend) AddDataEntry(entry PerfAnalyzerEntry) {
	p.recorder.InsertData(perfTableName, perfTableEntry{
		StartTime:      float64(entry.Start),
		EndTime:        float64(entry.End),
		Location:       entry.Where,
		RemoteLocation: entry.WhereRemote,
		What:           entry.What,
		EntryType:      entry.EntryType,
		Value:          entry.Value,
		Unit:           entry.Unit,
	})
}

// Flush writes all buffered entries into the database.
func (p *SQLiteBackend) Flush() {
	p.recorder.Flush()
}
