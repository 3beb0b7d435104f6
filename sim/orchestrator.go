// Package sim runs the four ecosystem agents concurrently in lock step.
package sim

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/pthm-cable/grainsim/barrier"
	"github.com/pthm-cable/grainsim/config"
	"github.com/pthm-cable/grainsim/ecosystem"
)

// CapabilityError reports that the runtime cannot run the workers in parallel.
type CapabilityError struct {
	Required  int
	Available int
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("parallel execution unavailable: need GOMAXPROCS >= %d, have %d", e.Required, e.Available)
}

// CheckCapability verifies the runtime before any worker starts.
func CheckCapability(minProcs int) error {
	if avail := runtime.GOMAXPROCS(0); avail < minProcs {
		return &CapabilityError{Required: minProcs, Available: avail}
	}
	return nil
}

// PhaseTimer is told when the climate worker enters each phase of a tick.
// It is only ever called from that one goroutine.
type PhaseTimer interface {
	StartTick()
	StartPhase(phase string)
	EndTick()
}

// Options configures a concurrent run.
type Options struct {
	Seed     int64
	Reporter ecosystem.Reporter
	Perf     PhaseTimer // optional

	// Roster overrides the agents built from Seed. Used by tests.
	Roster *ecosystem.Roster
}

// Result summarises a finished run.
type Result struct {
	// Ticks holds the number of ticks each worker completed, by role.
	Ticks    [ecosystem.NumRoles]int
	Rounds   uint64 // barrier releases
	Duration time.Duration
	Final    ecosystem.State
}

// Orchestrator owns the shared state, the barrier and the four workers.
type Orchestrator struct {
	State   *ecosystem.State
	Roster  *ecosystem.Roster
	barrier *barrier.Barrier
	perf    PhaseTimer
}

// New builds the state and agents for a run and primes the first month.
func New(cfg *config.Config, opts Options) (*Orchestrator, error) {
	b, err := barrier.New(ecosystem.NumRoles)
	if err != nil {
		return nil, fmt.Errorf("creating barrier: %w", err)
	}

	roster := opts.Roster
	if roster == nil {
		roster = ecosystem.NewRoster(cfg, opts.Seed, opts.Reporter)
	}

	o := &Orchestrator{
		State:   ecosystem.NewState(cfg),
		Roster:  roster,
		barrier: b,
		perf:    opts.Perf,
	}
	o.Roster.Climate.Begin(o.State)
	return o, nil
}

// Run starts one goroutine per role and blocks until all of them have seen
// the calendar reach its horizon. It cannot be cancelled.
func (o *Orchestrator) Run() Result {
	start := time.Now()
	agents := o.Roster.Agents()

	var res Result
	var wg sync.WaitGroup
	wg.Add(len(agents))
	for _, a := range agents {
		go func(a ecosystem.Agent) {
			defer wg.Done()
			// Each worker writes only its own slot.
			res.Ticks[a.Role()] = o.work(a)
		}(a)
	}
	wg.Wait()

	res.Rounds = o.barrier.Rounds()
	res.Duration = time.Since(start)
	res.Final = *o.State

	slog.Debug("workers finished",
		"ticks", res.Ticks[ecosystem.RoleClimate],
		"rounds", res.Rounds,
		"duration", res.Duration,
	)
	return res
}

// work is one worker's loop. The terminal check reads the calendar after the
// previous tick's final barrier, so every worker sees the same value.
func (o *Orchestrator) work(a ecosystem.Agent) int {
	timed := o.perf != nil && a.Role() == ecosystem.RoleClimate
	s := o.State
	ticks := 0

	for !s.Calendar.Done() {
		if timed {
			o.perf.StartTick()
		}
		for p := ecosystem.Phase(0); p < ecosystem.NumPhases; p++ {
			if timed {
				o.perf.StartPhase(p.String())
			}
			ecosystem.RunPhase(a, p, s)
			o.barrier.Wait()
		}
		if timed {
			o.perf.EndTick()
		}
		ticks++
	}
	return ticks
}
