package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestDistribution(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	mean, std, p10, p50, p90 := Distribution(values)

	// Mean should be 0.55
	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}

	// Sample standard deviation of 0.1..1.0
	if math.Abs(std-0.3028) > 0.001 {
		t.Errorf("std = %v, want ~0.3028", std)
	}

	if math.Abs(p10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", p10)
	}
	if math.Abs(p50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", p50)
	}
	if math.Abs(p90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", p90)
	}
}

func TestDistributionUnsorted(t *testing.T) {
	values := []float64{5, 1, 3}
	_, _, _, p50, _ := Distribution(values)
	if p50 != 3 {
		t.Errorf("p50 = %v, want 3", p50)
	}
	if values[0] != 5 {
		t.Error("Distribution reordered its input")
	}
}

func TestDistributionEdgeCases(t *testing.T) {
	mean, std, p10, p50, p90 := Distribution([]float64{})
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}

	mean, std, _, p50, _ = Distribution([]float64{4})
	if mean != 4 || std != 0 || p50 != 4 {
		t.Errorf("single value: mean=%v std=%v p50=%v, want 4 0 4", mean, std, p50)
	}
}

func TestComputeYearStats(t *testing.T) {
	rows := []MonthRow{
		{Year: 2018, Month: 1, Temperature: 10, Precipitation: 5, Height: 2, DeerCount: 3},
		{Year: 2018, Month: 2, Temperature: 20, Precipitation: 7, Height: 6, DeerHunted: 2, DeerCount: 5},
		{Year: 2018, Month: 3, Temperature: 30, Precipitation: 3, Height: 4, DeerHunted: 1, DeerCount: 4},
	}

	ys := ComputeYearStats(2018, rows)

	if ys.Year != 2018 || ys.Months != 3 {
		t.Errorf("year=%d months=%d, want 2018 3", ys.Year, ys.Months)
	}
	if math.Abs(ys.MeanTemp-20) > 1e-9 {
		t.Errorf("MeanTemp = %v, want 20", ys.MeanTemp)
	}
	if math.Abs(ys.TotalPrecip-15) > 1e-9 {
		t.Errorf("TotalPrecip = %v, want 15", ys.TotalPrecip)
	}
	if math.Abs(ys.MeanHeight-4) > 1e-9 || ys.PeakHeight != 6 {
		t.Errorf("height mean=%v peak=%v, want 4 6", ys.MeanHeight, ys.PeakHeight)
	}
	if ys.TotalHunted != 3 || ys.PeakDeer != 5 || ys.FinalDeer != 4 {
		t.Errorf("hunted=%d peak=%d final=%d, want 3 5 4", ys.TotalHunted, ys.PeakDeer, ys.FinalDeer)
	}

	empty := ComputeYearStats(2019, nil)
	if empty.Year != 2019 || empty.Months != 0 || empty.PeakHeight != 0 {
		t.Errorf("empty year = %+v", empty)
	}
}

func TestSummarize(t *testing.T) {
	rows := []MonthRow{
		{Height: 1, DeerCount: 0},
		{Height: 2, DeerCount: 2, DeerHunted: 1},
		{Height: 3, DeerCount: 4, DeerHunted: 2},
		{Height: 4, DeerCount: 0},
	}

	s := Summarize("run-1", rows)

	if s.RunID != "run-1" || s.Ticks != 4 {
		t.Errorf("run_id=%q ticks=%d", s.RunID, s.Ticks)
	}
	if math.Abs(s.HeightMean-2.5) > 1e-9 || math.Abs(s.DeerMean-1.5) > 1e-9 {
		t.Errorf("height mean=%v deer mean=%v, want 2.5 1.5", s.HeightMean, s.DeerMean)
	}
	if s.PeakDeer != 4 || s.TotalHunted != 3 || s.ExtinctMonths != 2 {
		t.Errorf("peak=%d hunted=%d extinct=%d, want 4 3 2", s.PeakDeer, s.TotalHunted, s.ExtinctMonths)
	}

	if got := Summarize("empty", nil); got.Ticks != 0 || got.DeerMean != 0 {
		t.Errorf("empty summary = %+v", got)
	}
}
