package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/grainsim/config"
)

func TestParamVectorNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := []float64{12.5, 1.1}

	got := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(got[i]-raw[i]) > 1e-9 {
			t.Errorf("param %s: got %v, want %v", pv.Specs[i].Name, got[i], raw[i])
		}
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-5, 99})

	if got[0] != pv.Specs[0].Min || got[1] != pv.Specs[1].Max {
		t.Errorf("Clamp = %v, want [%v %v]", got, pv.Specs[0].Min, pv.Specs[1].Max)
	}
}

func TestParamVectorApplyAndExtract(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{6, 0.25})
	got := pv.ExtractFromConfig(cfg)

	if got[0] != 6 || got[1] != 0.25 {
		t.Errorf("extracted %v, want [6 0.25]", got)
	}
	if cfg.Vegetation.GrowsPerMonth != 6 || cfg.Vegetation.DeerEatsPerMonth != 0.25 {
		t.Errorf("config not updated: %+v", cfg.Vegetation)
	}
}

func TestParamVectorDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	want := pv.ExtractFromConfig(cfg)
	got := pv.DefaultVector()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("default %s = %v, embedded config has %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}
