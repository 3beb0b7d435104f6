package ecosystem

import (
	"math"

	"github.com/pthm-cable/grainsim/config"
)

// Vegetation owns the grain height.
type Vegetation struct {
	cfg config.VegetationConfig

	delta float64
}

func NewVegetation(cfg *config.Config) *Vegetation {
	return &Vegetation{cfg: cfg.Vegetation}
}

func (v *Vegetation) Role() Role { return RoleVegetation }

// Compute reads the month's weather and the herd size as of the start of
// the tick.
func (v *Vegetation) Compute(s *State) {
	v.delta = GrainDelta(v.cfg, s.Weather, s.Population.DeerCount)
}

func (v *Vegetation) Commit(s *State) {
	s.Vegetation.Height = clampHeight(s.Vegetation.Height + v.delta)
}

func (v *Vegetation) Advance(*State) {}

// GrainDelta is the month's growth under w less what deer graze.
func GrainDelta(cfg config.VegetationConfig, w Weather, deer int) float64 {
	tempFactor := suitability(w.Temperature, cfg.MidTemp, cfg.TempSpread)
	precipFactor := suitability(w.Precipitation, cfg.MidPrecip, cfg.PrecipSpread)
	growth := tempFactor * precipFactor * cfg.GrowsPerMonth
	return growth - float64(deer)*cfg.DeerEatsPerMonth
}

// suitability is a Gaussian bump centred on mid.
func suitability(x, mid, spread float64) float64 {
	d := (x - mid) / spread
	return math.Exp(-d * d)
}
