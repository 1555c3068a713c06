package simulation

import (
	"github.com/rs/xid"

	"github.com/cyclesim/codelock/analysis"
	"github.com/cyclesim/codelock/datarecording"
	"github.com/cyclesim/codelock/monitoring"
	"github.com/cyclesim/codelock/sim"
	"github.com/cyclesim/codelock/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	parallelEngine     bool
	monitorOn          bool
	monitorPort        int
	outputFileName     string
	visTracingOn       bool
	perfAnalysisOn     bool
	perfAnalysisPeriod sim.VTimeInSec
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		parallelEngine: false,
		monitorOn:      true,
	}
}

// WithParallelEngine sets the simulation to use a parallel engine.
func (b Builder) WithParallelEngine() Builder {
	b.parallelEngine = true
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithVisTracing makes the simulation record all the tasks of the registered
// components into the output database.
func (b Builder) WithVisTracing() Builder {
	b.visTracingOn = true
	return b
}

// WithPerfAnalysis makes the simulation record port traffic and buffer
// levels, aggregated over the given period, into a separate database named
// after the output file.
func (b Builder) WithPerfAnalysis(period sim.VTimeInSec) Builder {
	b.perfAnalysisOn = true
	b.perfAnalysisPeriod = period

	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if b.perfAnalysisOn && b.perfAnalysisPeriod <= 0 {
		panic("performance analysis period must be positive")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		compNameIndex: make(map[string]int),
		portNameIndex: make(map[string]int),
	}

	s.id = xid.New().String()

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "codelock_sim_" + s.id
	}
	s.dataRecorder = datarecording.New(outputPath)

	s.engine = sim.NewSerialEngine()
	if b.parallelEngine {
		s.engine = sim.NewParallelEngine()
	}

	if b.visTracingOn {
		s.visTracer = tracing.NewDBTracer(s.engine, s.dataRecorder)
	}

	if b.perfAnalysisOn {
		s.perfAnalyzer = analysis.MakePerfAnalyzerBuilder().
			WithSQLiteBackend().
			WithDBFilename(outputPath + "_perf").
			WithPeriod(b.perfAnalysisPeriod).
			Build()
		s.perfAnalyzer.RegisterEngine(s.engine)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		s.monitor.RegisterEngine(s.engine)
		if s.perfAnalyzer != nil {
			s.monitor.RegisterPerfAnalyzer(s.perfAnalyzer)
		}

		s.monitor.StartServer()
	}

	return s
}
