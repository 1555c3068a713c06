package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/cyclesim/codelock/bench"
	"github.com/cyclesim/codelock/scenario"
	"github.com/cyclesim/codelock/sim"
	"github.com/cyclesim/codelock/simulation"
	"github.com/cyclesim/codelock/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario file]",
	Short: "Play a scripted lock scenario.",
	Long: "`run [scenario file]` plays the keypad script of a TOML " +
		"scenario against a full lock bench and reports what the panel " +
		"observed. See scenarios/frontdoor.toml for the file format.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		var err error
		if watchFlag {
			err = watchAndRun(path)
		} else {
			err = runScenario(path)
		}

		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	},
}

var (
	outputFlag      string
	parallelFlag    bool
	monitorFlag     bool
	monitorPortFlag int
	openFlag        bool
	watchFlag       bool
	traceVisFlag    bool
	traceCSVFlag    string
	perfPeriodFlag  float64
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "",
		"name of the output database, without the extension")
	runCmd.Flags().BoolVar(&parallelFlag, "parallel", false,
		"run the simulation on a parallel engine")
	runCmd.Flags().BoolVar(&monitorFlag, "monitor", false,
		"serve the monitoring dashboard while the scenario runs")
	runCmd.Flags().IntVar(&monitorPortFlag, "monitor-port", 0,
		"port for the monitoring dashboard, 0 picks a random one")
	runCmd.Flags().BoolVar(&openFlag, "open", false,
		"open the monitoring dashboard in a browser, implies --monitor")
	runCmd.Flags().BoolVar(&watchFlag, "watch", false,
		"rerun the scenario whenever the file changes")
	runCmd.Flags().BoolVar(&traceVisFlag, "trace-vis", false,
		"record all component tasks into the output database")
	runCmd.Flags().StringVar(&traceCSVFlag, "trace-csv", "",
		"record all component tasks into the named CSV file")
	runCmd.Flags().Float64Var(&perfPeriodFlag, "perf-period", 0,
		"record port traffic and buffer levels over the given period "+
			"in seconds")
}

func runScenario(path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	script, err := sc.KeyScript()
	if err != nil {
		return err
	}

	if outputFlag != "" {
		os.Remove(outputFlag + ".sqlite3")
		os.Remove(outputFlag + "_perf.sqlite3")
	}

	s := buildSimulation()
	defer s.Terminate()

	benchBuilder := bench.MakeBuilder().
		WithEngine(s.GetEngine()).
		WithFreq(sc.Freq()).
		WithPasscode(sc.LockConfig().Passcode).
		WithMaxAttempts(sc.MaxAttempts).
		WithLockoutDuration(sc.LockoutDuration).
		WithScript(script).
		WithKeyGap(sc.KeyGap).
		WithRecorder(s.GetDataRecorder())

	if monitor := s.GetMonitor(); monitor != nil {
		bar := monitor.CreateProgressBar(sc.Name, uint64(len(script)))
		defer monitor.CompleteProgressBar(bar)

		benchBuilder = benchBuilder.WithProgressTracker(bar)
	}

	lockBench := benchBuilder.Build("Bench")

	s.RegisterComponent(lockBench.Driver)
	s.RegisterComponent(lockBench.Lock)
	s.RegisterComponent(lockBench.Panel)

	if traceCSVFlag != "" {
		os.Remove(traceCSVFlag + ".csv")

		writer := tracing.NewCSVTraceWriter(s.GetEngine(), traceCSVFlag)
		writer.Init()

		tracing.CollectTrace(lockBench.Driver, writer)
		tracing.CollectTrace(lockBench.Lock, writer)
		tracing.CollectTrace(lockBench.Panel, writer)
		defer writer.Flush()
	}

	if openFlag && s.GetMonitor() != nil {
		url := fmt.Sprintf("http://localhost:%d", s.GetMonitor().Port())
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "cannot open browser: %s\n", err)
		}
	}

	result, err := lockBench.Run()
	if err != nil {
		return err
	}

	fmt.Printf("Scenario %s finished in %d cycles\n", sc.Name, result.Cycles)
	fmt.Printf("  final state: %s\n", result.FinalState)
	fmt.Printf("  unlocked:    %t\n", result.Unlocked)
	fmt.Printf("  wrong tries: %d\n", result.WrongTries)
	fmt.Printf("  lockouts:    %d\n", result.Lockouts)

	return nil
}

func buildSimulation() *simulation.Simulation {
	builder := simulation.MakeBuilder()

	if monitorFlag || openFlag {
		if monitorPortFlag > 0 {
			builder = builder.WithMonitorPort(monitorPortFlag)
		}
	} else {
		builder = builder.WithoutMonitoring()
	}

	if outputFlag != "" {
		builder = builder.WithOutputFileName(outputFlag)
	}

	if parallelFlag {
		builder = builder.WithParallelEngine()
	}

	if traceVisFlag {
		builder = builder.WithVisTracing()
	}

	if perfPeriodFlag > 0 {
		builder = builder.WithPerfAnalysis(sim.VTimeInSec(perfPeriodFlag))
	}

	return builder.Build()
}

func watchAndRun(path string) error {
	if monitorPortFlag != 0 {
		fmt.Fprintln(os.Stderr,
			"A fixed monitor port cannot be reused across reruns. "+
				"Using random ports instead.")
		monitorPortFlag = 0
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	if err := runScenario(path); err != nil {
		return err
	}

	fmt.Printf("Watching %s for changes\n", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			fmt.Printf("Scenario %s changed, rerunning\n", path)

			if err := runScenario(path); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			}

			// Editors that replace the file drop the watch with it.
			watcher.Add(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			fmt.Fprintf(os.Stderr, "watch error: %s\n", err)
		}
	}
}
