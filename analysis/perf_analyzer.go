// Package analysis reports periodic performance metrics of a running
// simulation, such as port traffic and buffer levels.
package analysis

import (
	"reflect"
	"unsafe"

	"github.com/cyclesim/codelock/sim"
)

// PerfAnalyzerEntry is a single entry in the performance database.
type PerfAnalyzerEntry struct {
	Start       sim.VTimeInSec
	End         sim.VTimeInSec
	Where       string
	WhereRemote string
	What        string
	EntryType   string
	Value       float64
	Unit        string
}

// PerfLogger can record performance data entries.
type PerfLogger interface {
	AddDataEntry(entry PerfAnalyzerEntry)
}

// PerfAnalyzer can report performance metrics during simulation.
type PerfAnalyzer struct {
	usePeriod bool
	period    sim.VTimeInSec
	engine    sim.Engine
	backend   PerfAnalyzerBackend

	portAnalyzers map[string][]*PortAnalyzer
}

// RegisterEngine registers the engine that is used in the simulation.
func (p *PerfAnalyzer) RegisterEngine(e sim.Engine) {
	p.engine = e
}

// RegisterComponent registers a component to be monitored. All the ports of
// the component and the buffers inside them are hooked.
func (p *PerfAnalyzer) RegisterComponent(c sim.Component) {
	p.registerComponentBuffers(c)
	p.registerComponentPorts(c)
}

func (p *PerfAnalyzer) registerComponentBuffers(c sim.Component) {
	p.registerFieldBuffers(c)

	for _, port := range c.Ports() {
		p.registerFieldBuffers(port)
	}
}

// registerFieldBuffers finds the Buffer-typed fields of a struct, exported
// or not.
func (p *PerfAnalyzer) registerFieldBuffers(c any) {
	v := reflect.ValueOf(c).Elem()
	bufferType := reflect.TypeOf((*sim.Buffer)(nil)).Elem()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.Type() != bufferType {
			continue
		}

		buf := reflect.NewAt(
			field.Type(),
			unsafe.Pointer(field.UnsafeAddr()),
		).Elem().Interface().(sim.Buffer)

		p.RegisterBuffer(buf)
	}
}

// RegisterBuffer registers a buffer to be monitored.
func (p *PerfAnalyzer) RegisterBuffer(buf sim.Buffer) {
	builder := MakeBufferAnalyzerBuilder().
		WithTimeTeller(p.engine).
		WithPerfLogger(p).
		WithBuffer(buf)

	if p.usePeriod {
		builder = builder.WithPeriod(p.period)
	}

	buf.AcceptHook(builder.Build())
}

func (p *PerfAnalyzer) registerComponentPorts(c sim.Component) {
	for _, port := range c.Ports() {
		p.RegisterPort(port)
	}
}

// RegisterPort registers a port to be monitored.
func (p *PerfAnalyzer) RegisterPort(port sim.Port) {
	builder := MakePortAnalyzerBuilder().
		WithTimeTeller(p.engine).
		WithPerfLogger(p).
		WithPort(port)

	if p.usePeriod {
		builder = builder.WithPeriod(p.period)
	}

	analyzer := builder.Build()
	port.AcceptHook(analyzer)

	if comp := port.Component(); comp != nil {
		if p.portAnalyzers == nil {
			p.portAnalyzers = make(map[string][]*PortAnalyzer)
		}

		p.portAnalyzers[comp.Name()] =
			append(p.portAnalyzers[comp.Name()], analyzer)
	}
}

// CurrentTraffic reports the traffic recorded in the ongoing period on all
// the ports of the named component.
func (p *PerfAnalyzer) CurrentTraffic(
	componentName string,
) []PerfAnalyzerEntry {
	entries := []PerfAnalyzerEntry{}

	for _, analyzer := range p.portAnalyzers[componentName] {
		entries = append(entries, analyzer.CurrentTraffic()...)
	}

	return entries
}

// AddDataEntry forwards a data entry to the backend.
func (p *PerfAnalyzer) AddDataEntry(entry PerfAnalyzerEntry) {
	p.backend.AddDataEntry(entry)
}

// PerfAnalyzerBuilder can build a PerfAnalyzer.
type PerfAnalyzerBuilder struct {
	usePeriod   bool
	period      sim.VTimeInSec
	backendType string
	dbFilename  string
}

// MakePerfAnalyzerBuilder creates a PerfAnalyzerBuilder that writes to a
// CSV file named perf.csv.
func MakePerfAnalyzerBuilder() PerfAnalyzerBuilder {
	return PerfAnalyzerBuilder{
		backendType: "csv",
		dbFilename:  "perf",
	}
}

// WithPeriod sets the period over which metrics are aggregated.
func (b PerfAnalyzerBuilder) WithPeriod(
	period sim.VTimeInSec,
) PerfAnalyzerBuilder {
	b.usePeriod = true
	b.period = period

	return b
}

// WithSQLiteBackend makes the analyzer write into a SQLite database.
func (b PerfAnalyzerBuilder) WithSQLiteBackend() PerfAnalyzerBuilder {
	b.backendType = "sqlite"
	return b
}

// WithDBFilename sets the name of the output file, without the extension.
func (b PerfAnalyzerBuilder) WithDBFilename(
	filename string,
) PerfAnalyzerBuilder {
	b.dbFilename = filename
	return b
}

// Build creates a PerfAnalyzer.
func (b PerfAnalyzerBuilder) Build() *PerfAnalyzer {
	var backend PerfAnalyzerBackend

	switch b.backendType {
	case "csv":
		backend = NewCSVPerfAnalyzerBackend(b.dbFilename)
	case "sqlite":
		backend = NewSQLitePerfAnalyzerBackend(b.dbFilename)
	default:
		panic("unknown backend type " + b.backendType)
	}

	return &PerfAnalyzer{
		usePeriod: b.usePeriod,
		period:    b.period,
		backend:   backend,
	}
}
