package ecosystem

// Herbivore owns the deer count. Its commit applies the carrying-capacity
// step first and then the harvest Predation posted during compute, so the
// count is written once per tick by a single agent.
type Herbivore struct {
	proposal int
}

func NewHerbivore() *Herbivore {
	return &Herbivore{}
}

func (h *Herbivore) Role() Role { return RoleHerbivore }

func (h *Herbivore) Compute(s *State) {
	h.proposal = s.Population.DeerCount + CapacityStep(s.Population.DeerCount, s.Vegetation.Height)
}

func (h *Herbivore) Commit(s *State) {
	s.Population.Growth = h.proposal - s.Population.DeerCount
	s.Population.DeerCount = clampCount(h.proposal - s.Hunt.Pending)
}

func (h *Herbivore) Advance(*State) {}

// CapacityStep moves the herd one deer toward the grain height.
func CapacityStep(deer int, height float64) int {
	switch n := float64(deer); {
	case n > height:
		return -1
	case n < height:
		return 1
	default:
		return 0
	}
}
