package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/grainsim/config"
	"github.com/pthm-cable/grainsim/ecosystem"
	"github.com/pthm-cable/grainsim/telemetry"
)

// extinctionWeight scales the share of months that end with no deer.
const extinctionWeight = 100.0

// FitnessEvaluator runs stepped simulations and scores how far the mean herd
// lands from the target.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config
	target     float64

	mu       sync.Mutex
	lastMean float64 // mean herd from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		seeds:      seeds,
		baseConfig: baseCfg,
		target:     target,
	}
}

// LastMean returns the mean deer count from the most recent evaluation.
func (fe *FitnessEvaluator) LastMean() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMean
}

// Evaluate computes fitness for raw parameter values (lower = better): the
// squared distance of the seed-averaged mean herd from the target, plus a
// penalty for months without deer.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Refresh(); err != nil {
		return math.Inf(1)
	}

	// Each seed gets its own stepper; seeds run in parallel
	results := make([]telemetry.RunSummary, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = runSeed(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var meanDeer, extinct float64
	for _, r := range results {
		meanDeer += r.DeerMean
		if r.Ticks > 0 {
			extinct += float64(r.ExtinctMonths) / float64(r.Ticks)
		}
	}
	n := float64(len(fe.seeds))
	meanDeer /= n
	extinct /= n

	fe.mu.Lock()
	fe.lastMean = meanDeer
	fe.mu.Unlock()

	diff := meanDeer - fe.target
	return diff*diff + extinctionWeight*extinct
}

// runSeed runs one full horizon on the calling goroutine.
func runSeed(cfg *config.Config, seed int64) telemetry.RunSummary {
	collector := telemetry.NewCollector("", telemetry.CollectorOptions{})
	ecosystem.NewStepper(cfg, seed, collector).Run()
	summary, _ := collector.Finish() // no outputs, so no output errors
	return summary
}

// copyConfig creates a copy of the base config. The kill table is shared;
// nothing calibrated writes to it.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
