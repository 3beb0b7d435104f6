package ecosystem

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/grainsim/config"
)

// HuntSampler draws the hunting party for one in-season month.
type HuntSampler interface {
	Sample() (hunters int, killProb float64)
}

// UniformHunt draws hunters uniformly from 1..MaxHunters and the kill
// probability uniformly from the configured table.
type UniformHunt struct {
	rng        *rand.Rand
	maxHunters int
	probs      []float64
}

func NewUniformHunt(cfg *config.Config, rng *rand.Rand) *UniformHunt {
	return &UniformHunt{
		rng:        rng,
		maxHunters: cfg.Predation.MaxHunters,
		probs:      cfg.Predation.KillProbabilities,
	}
}

func (u *UniformHunt) Sample() (int, float64) {
	hunters := u.rng.IntN(u.maxHunters) + 1
	return hunters, u.probs[u.rng.IntN(len(u.probs))]
}

// Predation owns the hunt. Its harvest reaches the herd through
// Hunt.Pending, which Herbivore subtracts during commit.
type Predation struct {
	cfg     *config.Config
	sampler HuntSampler

	hunted   int
	hunters  int
	killProb float64
}

func NewPredation(cfg *config.Config, sampler HuntSampler) *Predation {
	return &Predation{cfg: cfg, sampler: sampler}
}

func (p *Predation) Role() Role { return RolePredation }

// SetSampler replaces the hunting party sampler.
func (p *Predation) SetSampler(s HuntSampler) {
	p.sampler = s
}

func (p *Predation) Compute(s *State) {
	p.hunted, p.hunters, p.killProb = 0, 0, 0
	if p.cfg.InSeason(s.Calendar.Month) {
		p.hunters, p.killProb = p.sampler.Sample()
		p.hunted = DeerHunted(p.hunters, p.killProb)
	}
	s.Hunt.Pending = p.hunted
}

func (p *Predation) Commit(s *State) {
	s.Hunt.DeerHunted = p.hunted
	s.Hunt.Hunters = p.hunters
	s.Hunt.KillProb = p.killProb
}

func (p *Predation) Advance(*State) {}

// DeerHunted is the number of deer a party of hunters takes in a month.
func DeerHunted(hunters int, killProb float64) int {
	return int(math.Ceil(killProb * float64(hunters)))
}
