package ecosystem

import "github.com/pthm-cable/grainsim/config"

// Stepper runs the agents on the calling goroutine: each phase for all four
// roles in role order, then the next phase. It produces the same results as
// the concurrent run for the same seed and is used by tests and tools.
type Stepper struct {
	State  *State
	Roster *Roster

	agents [NumRoles]Agent
	ticks  int
}

// NewStepper builds a fresh state and roster and primes the first month.
func NewStepper(cfg *config.Config, seed int64, rep Reporter) *Stepper {
	st := &Stepper{
		State:  NewState(cfg),
		Roster: NewRoster(cfg, seed, rep),
	}
	st.agents = st.Roster.Agents()
	st.Roster.Climate.Begin(st.State)
	return st
}

// Done reports whether the calendar has reached its horizon.
func (st *Stepper) Done() bool {
	return st.State.Calendar.Done()
}

// Ticks returns the number of completed ticks.
func (st *Stepper) Ticks() int {
	return st.ticks
}

// Phase runs a single phase for every role.
func (st *Stepper) Phase(p Phase) {
	for _, a := range st.agents {
		RunPhase(a, p, st.State)
	}
}

// Step runs one full tick. It returns false without doing anything once the
// horizon is reached.
func (st *Stepper) Step() bool {
	if st.Done() {
		return false
	}
	for p := Phase(0); p < NumPhases; p++ {
		st.Phase(p)
	}
	st.ticks++
	return true
}

// Run steps until the horizon and returns the number of ticks performed.
func (st *Stepper) Run() int {
	for st.Step() {
	}
	return st.ticks
}
