package ecosystem

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/grainsim/config"
)

// Climate owns the calendar and the weather. It does nothing in compute or
// commit; in advance it reports the finished month, moves the calendar and
// prepares the weather for the month just entered.
type Climate struct {
	cfg config.ClimateConfig
	d   config.DerivedConfig
	rng *rand.Rand
	rep Reporter

	ticks int
}

// NewClimate creates the climate agent. rep may be nil.
func NewClimate(cfg *config.Config, rng *rand.Rand, rep Reporter) *Climate {
	if rep == nil {
		rep = nopReporter{}
	}
	return &Climate{
		cfg: cfg.Climate,
		d:   cfg.Derived,
		rng: rng,
		rep: rep,
	}
}

func (c *Climate) Role() Role { return RoleClimate }

// Begin announces the opening year and primes the weather for the first
// month. It must run once before any worker starts.
func (c *Climate) Begin(s *State) {
	c.rep.YearStarted(s.Calendar.Year)
	s.Weather = c.WeatherFor(s.Calendar.Month)
}

func (c *Climate) Compute(*State) {}

func (c *Climate) Commit(*State) {}

// Advance runs while every other agent is parked at the barrier.
func (c *Climate) Advance(s *State) {
	c.ticks++
	c.rep.MonthCompleted(s.Record(c.ticks))

	if s.Calendar.Next() {
		slog.Debug("year complete", "year", s.Calendar.Year-1, "deer", s.Population.DeerCount)
		c.rep.YearStarted(s.Calendar.Year)
	}
	s.Weather = c.WeatherFor(s.Calendar.Month)
}

// Ticks returns the number of months reported so far.
func (c *Climate) Ticks() int {
	return c.ticks
}

// WeatherFor draws the weather for month from the seasonal curve.
func (c *Climate) WeatherFor(month int) Weather {
	ang := c.d.MonthAngle*float64(month) + c.d.AngleOffset

	temp := c.cfg.AvgTemp - c.cfg.AmpTemp*math.Cos(ang)
	temp += c.noise(c.cfg.RandomTemp)

	precip := c.cfg.AvgPrecip + c.cfg.AmpPrecip*math.Sin(ang)
	precip += c.noise(c.cfg.RandomPrecip)
	if precip < 0 {
		precip = 0
	}

	return Weather{Temperature: temp, Precipitation: precip}
}

// noise is uniform in [-bound, bound).
func (c *Climate) noise(bound float64) float64 {
	return bound * (2*c.rng.Float64() - 1)
}
