package sim

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/grainsim/config"
	"github.com/pthm-cable/grainsim/ecosystem"
)

type recorder struct {
	years  []int
	months []ecosystem.Record
}

func (r *recorder) YearStarted(year int)              { r.years = append(r.years, year) }
func (r *recorder) MonthCompleted(m ecosystem.Record) { r.months = append(r.months, m) }

type phaseCounter struct {
	ticks  int
	ended  int
	phases map[string]int
}

func (p *phaseCounter) StartTick() { p.ticks++ }
func (p *phaseCounter) EndTick()   { p.ended++ }
func (p *phaseCounter) StartPhase(phase string) {
	if p.phases == nil {
		p.phases = map[string]int{}
	}
	p.phases[phase]++
}

func TestRunCompletesHorizon(t *testing.T) {
	rec := &recorder{}
	o, err := New(config.Default(), Options{Seed: 3, Reporter: rec})
	require.NoError(t, err)

	res := o.Run()

	for role, n := range res.Ticks {
		assert.Equal(t, 72, n, "role %s", ecosystem.Role(role))
	}
	assert.Equal(t, uint64(72*ecosystem.NumPhases), res.Rounds)
	assert.Equal(t, 2025, res.Final.Calendar.Year)
	assert.Equal(t, 0, res.Final.Calendar.Month)
	assert.Len(t, rec.months, 72)
	assert.Equal(t, []int{2019, 2020, 2021, 2022, 2023, 2024, 2025}, rec.years)
}

func TestConcurrentMatchesStepper(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1234} {
		concurrent := &recorder{}
		o, err := New(config.Default(), Options{Seed: seed, Reporter: concurrent})
		require.NoError(t, err)
		o.Run()

		stepped := &recorder{}
		ecosystem.NewStepper(config.Default(), seed, stepped).Run()

		assert.Equal(t, stepped.months, concurrent.months, "seed %d", seed)
	}
}

func TestRunInvariants(t *testing.T) {
	cfg := config.Default()
	cfg.Vegetation.DeerEatsPerMonth = 2.5
	cfg.Herbivore.InitialCount = 8
	require.NoError(t, cfg.Refresh())

	rec := &recorder{}
	o, err := New(cfg, Options{Seed: 9, Reporter: rec})
	require.NoError(t, err)
	o.Run()

	for _, m := range rec.months {
		assert.GreaterOrEqual(t, m.Height, 0.0)
		assert.GreaterOrEqual(t, m.DeerCount, 0)
		assert.LessOrEqual(t, m.Growth, 1)
		assert.GreaterOrEqual(t, m.Growth, -1)
		if cfg.InSeason(m.Month) {
			assert.Equal(t, ecosystem.DeerHunted(m.Hunters, m.KillProb), m.DeerHunted)
		} else {
			assert.Zero(t, m.DeerHunted)
		}
	}
}

func TestPerfTimerSeesEveryPhase(t *testing.T) {
	perf := &phaseCounter{}
	o, err := New(config.Default(), Options{Seed: 1, Perf: perf})
	require.NoError(t, err)
	o.Run()

	assert.Equal(t, 72, perf.ticks)
	assert.Equal(t, 72, perf.ended)
	for p := ecosystem.Phase(0); p < ecosystem.NumPhases; p++ {
		assert.Equal(t, 72, perf.phases[p.String()], "phase %s", p)
	}
}

func TestShortHorizon(t *testing.T) {
	cfg := config.Default()
	cfg.Calendar.StartMonth = 9
	cfg.Calendar.EndYear = 2020
	require.NoError(t, cfg.Refresh())

	o, err := New(cfg, Options{Seed: 1})
	require.NoError(t, err)
	res := o.Run()
	assert.Equal(t, [ecosystem.NumRoles]int{3, 3, 3, 3}, res.Ticks)

	cfg.Calendar.StartYear = 2020
	require.NoError(t, cfg.Refresh())
	o, err = New(cfg, Options{Seed: 1})
	require.NoError(t, err)
	res = o.Run()
	assert.Equal(t, [ecosystem.NumRoles]int{}, res.Ticks)
}

func TestCheckCapability(t *testing.T) {
	assert.NoError(t, CheckCapability(1))

	err := CheckCapability(runtime.GOMAXPROCS(0) + 1)
	var capErr *CapabilityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, runtime.GOMAXPROCS(0), capErr.Available)
}
