package ecosystem

import (
	"math/rand/v2"

	"github.com/pthm-cable/grainsim/config"
)

// Role identifies one of the four agents.
type Role uint8

const (
	RoleClimate Role = iota
	RoleVegetation
	RoleHerbivore
	RolePredation

	NumRoles = 4
)

var roleNames = [NumRoles]string{"climate", "vegetation", "herbivore", "predation"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Phase is one barrier-separated step of a tick.
type Phase uint8

const (
	PhaseCompute Phase = iota
	PhaseCommit
	PhaseAdvance

	NumPhases = 3
)

var phaseNames = [NumPhases]string{"compute", "commit", "advance"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Agent advances its share of State through the three phases of a tick.
// Compute may only read State (Predation additionally posts Hunt.Pending).
// Commit may only write the fields the agent owns. Advance is a no-op for
// every agent but Climate.
type Agent interface {
	Role() Role
	Compute(s *State)
	Commit(s *State)
	Advance(s *State)
}

// RunPhase dispatches phase p to a.
func RunPhase(a Agent, p Phase, s *State) {
	switch p {
	case PhaseCompute:
		a.Compute(s)
	case PhaseCommit:
		a.Commit(s)
	case PhaseAdvance:
		a.Advance(s)
	}
}

// Reporter receives Climate's output. It is only ever called from the
// advance phase, so implementations need no locking.
type Reporter interface {
	YearStarted(year int)
	MonthCompleted(r Record)
}

type nopReporter struct{}

func (nopReporter) YearStarted(int)       {}
func (nopReporter) MonthCompleted(Record) {}

// Roster is the fixed set of agents for one run.
type Roster struct {
	Climate    *Climate
	Vegetation *Vegetation
	Herbivore  *Herbivore
	Predation  *Predation
}

// NewRoster builds the four agents. Each one that draws random numbers gets
// its own generator seeded from seed and its role.
func NewRoster(cfg *config.Config, seed int64, rep Reporter) *Roster {
	return &Roster{
		Climate:    NewClimate(cfg, newRand(seed, RoleClimate), rep),
		Vegetation: NewVegetation(cfg),
		Herbivore:  NewHerbivore(),
		Predation:  NewPredation(cfg, NewUniformHunt(cfg, newRand(seed, RolePredation))),
	}
}

// Agents returns the roster indexed by role.
func (r *Roster) Agents() [NumRoles]Agent {
	return [NumRoles]Agent{
		RoleClimate:    r.Climate,
		RoleVegetation: r.Vegetation,
		RoleHerbivore:  r.Herbivore,
		RolePredation:  r.Predation,
	}
}

func newRand(seed int64, role Role) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(role)+1))
}

func clampHeight(h float64) float64 {
	if h < 0 {
		return 0
	}
	return h
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
