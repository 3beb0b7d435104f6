package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/grainsim/config"
	"github.com/pthm-cable/grainsim/ecosystem"
	"github.com/pthm-cable/grainsim/sim"
	"github.com/pthm-cable/grainsim/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = runtime.seed, then time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, journal and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output year and run stats via slog (JSON)")
	stepper := flag.Bool("stepper", false, "Run all agents on one goroutine instead of concurrently")

	flag.Parse()

	// Logs go to stderr; stdout carries the report table
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if *logStats {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Runtime.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := runOptions{
		RunID:     uuid.NewString(),
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
		Stepper:   *stepper,
	}
	if err := run(cfg, opts, os.Stdout); err != nil {
		slog.Error("run failed", "run_id", opts.RunID, "error", err)
		os.Exit(1)
	}
}

// runOptions carries the resolved command line.
type runOptions struct {
	RunID     string
	Seed      int64
	OutputDir string
	LogStats  bool
	Stepper   bool
}

// run checks the runtime, then simulates to the horizon, printing the
// report table to stdout. Nothing is written anywhere if the check fails.
func run(cfg *config.Config, opts runOptions, stdout io.Writer) (err error) {
	if !opts.Stepper {
		if err := sim.CheckCapability(cfg.Runtime.MinProcs); err != nil {
			return err
		}
	}

	runID, seed, stepper, logStats := opts.RunID, opts.Seed, opts.Stepper, opts.LogStats

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := om.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	journal, err := telemetry.OpenJournal(opts.OutputDir, runID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := journal.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	collector := telemetry.NewCollector(runID, telemetry.CollectorOptions{
		Table:     telemetry.NewTable(stdout),
		Output:    om,
		Journal:   journal,
		Bookmarks: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
		LogYears:  logStats,
	})

	slog.Info("starting simulation",
		"run_id", runID,
		"seed", seed,
		"start_year", cfg.Calendar.StartYear,
		"end_year", cfg.Calendar.EndYear,
		"ticks", cfg.Derived.TotalTicks,
		"stepper", stepper,
		"output_dir", om.Dir(),
	)

	var perf *telemetry.PerfCollector
	if stepper {
		st := ecosystem.NewStepper(cfg, seed, collector)
		ticks := st.Run()
		slog.Info("simulation finished", "run_id", runID, "ticks", ticks, "final", st.State.Calendar.String())
	} else {
		perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
		o, err := sim.New(cfg, sim.Options{Seed: seed, Reporter: collector, Perf: perf})
		if err != nil {
			return err
		}
		res := o.Run()
		slog.Info("simulation finished",
			"run_id", runID,
			"ticks", res.Ticks[ecosystem.RoleClimate],
			"rounds", res.Rounds,
			"duration", res.Duration,
			"final", res.Final.Calendar.String(),
		)
	}

	summary, err := collector.Finish()
	if logStats {
		summary.LogStats()
	}
	if err != nil {
		return err
	}

	if perf != nil {
		stats := perf.Stats()
		if logStats {
			stats.LogStats()
		}
		if err := om.WritePerf(stats); err != nil {
			return err
		}
	}
	return nil
}
