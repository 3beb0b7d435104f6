// Package ecosystem holds the shared simulation state and the four agents
// that advance it one month at a time.
//
// Every tick runs in three phases separated by a barrier:
//
//	compute  - agents read State and keep their results privately
//	commit   - each agent writes the fields it owns
//	advance  - Climate reports the finished month and moves the calendar
//
// Field ownership, which is what makes State safe without locks:
//
//	Calendar            Climate,    advance
//	Weather             Climate,    advance (for the month just entered)
//	Vegetation.Height   Vegetation, commit
//	Population          Herbivore,  commit
//	Hunt.Pending        Predation,  compute (read by Herbivore in commit)
//	Hunt (other fields) Predation,  commit
package ecosystem

import (
	"fmt"

	"github.com/pthm-cable/grainsim/config"
)

// Calendar is the simulated month. Month is 0-based.
type Calendar struct {
	Year    int
	Month   int
	EndYear int
}

// Done reports whether the calendar has reached its horizon.
func (c Calendar) Done() bool {
	return c.Year >= c.EndYear
}

// Next moves to the following month. It reports whether a new year began.
func (c *Calendar) Next() bool {
	c.Month++
	if c.Month > 11 {
		c.Month = 0
		c.Year++
		return true
	}
	return false
}

func (c Calendar) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, c.Month+1)
}

// Weather is the current month's climate.
type Weather struct {
	Temperature   float64 // °F
	Precipitation float64 // inches, never negative
}

// VegetationState is the grain crop.
type VegetationState struct {
	Height float64 // inches, never negative
}

// Population is the deer herd.
type Population struct {
	DeerCount int
	Growth    int // carrying-capacity step applied this tick: -1, 0 or +1
}

// Hunt is the predation outcome for the current month.
type Hunt struct {
	DeerHunted int
	Hunters    int     // hunters drawn this month, 0 outside the season
	KillProb   float64 // kill probability drawn this month, 0 outside the season

	// Pending is the harvest posted during compute for Herbivore to apply
	// during commit.
	Pending int
}

// State is the aggregate every agent reads and each agent partly owns.
type State struct {
	Calendar   Calendar
	Weather    Weather
	Vegetation VegetationState
	Population Population
	Hunt       Hunt
}

// NewState creates the initial state described by cfg. Weather is left
// zero; Climate.Begin primes it for the first month.
func NewState(cfg *config.Config) *State {
	return &State{
		Calendar: Calendar{
			Year:    cfg.Calendar.StartYear,
			Month:   cfg.Calendar.StartMonth,
			EndYear: cfg.Calendar.EndYear,
		},
		Vegetation: VegetationState{Height: cfg.Vegetation.InitialHeight},
		Population: Population{DeerCount: cfg.Herbivore.InitialCount},
	}
}

// Record is a completed month as reported by Climate.
type Record struct {
	Tick          int
	Year          int
	Month         int // 0-based
	Temperature   float64
	Precipitation float64
	Height        float64
	DeerHunted    int
	DeerCount     int
	Growth        int
	Hunters       int
	KillProb      float64
}

// Record captures the state as a report row for tick.
func (s *State) Record(tick int) Record {
	return Record{
		Tick:          tick,
		Year:          s.Calendar.Year,
		Month:         s.Calendar.Month,
		Temperature:   s.Weather.Temperature,
		Precipitation: s.Weather.Precipitation,
		Height:        s.Vegetation.Height,
		DeerHunted:    s.Hunt.DeerHunted,
		DeerCount:     s.Population.DeerCount,
		Growth:        s.Population.Growth,
		Hunters:       s.Hunt.Hunters,
		KillProb:      s.Hunt.KillProb,
	}
}
