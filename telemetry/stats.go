// Package telemetry reports and records simulation runs: the console table,
// CSV and journal output, year and run statistics, bookmarks and phase timing.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/grainsim/ecosystem"
)

// MonthRow is one completed tick as written to months.csv.
type MonthRow struct {
	Tick          int     `csv:"tick" json:"tick"`
	Year          int     `csv:"year" json:"year"`
	Month         int     `csv:"month" json:"month"` // 1-12
	Temperature   float64 `csv:"temp" json:"temp"`
	Precipitation float64 `csv:"precip" json:"precip"`
	Height        float64 `csv:"grain_height" json:"grain_height"`
	DeerHunted    int     `csv:"deer_hunted" json:"deer_hunted"`
	DeerCount     int     `csv:"deer" json:"deer"`
	Growth        int     `csv:"deer_growth" json:"deer_growth"`
	Hunters       int     `csv:"hunters" json:"hunters"`
	KillProb      float64 `csv:"kill_prob" json:"kill_prob"`
}

// NewMonthRow converts a reported record.
func NewMonthRow(r ecosystem.Record) MonthRow {
	return MonthRow{
		Tick:          r.Tick,
		Year:          r.Year,
		Month:         r.Month + 1,
		Temperature:   r.Temperature,
		Precipitation: r.Precipitation,
		Height:        r.Height,
		DeerHunted:    r.DeerHunted,
		DeerCount:     r.DeerCount,
		Growth:        r.Growth,
		Hunters:       r.Hunters,
		KillProb:      r.KillProb,
	}
}

// YearStats aggregates the months of one simulated year.
type YearStats struct {
	Year        int     `csv:"year" json:"year"`
	Months      int     `csv:"months" json:"months"`
	MeanTemp    float64 `csv:"mean_temp" json:"mean_temp"`
	TotalPrecip float64 `csv:"total_precip" json:"total_precip"`
	MeanHeight  float64 `csv:"mean_grain_height" json:"mean_grain_height"`
	PeakHeight  float64 `csv:"peak_grain_height" json:"peak_grain_height"`
	TotalHunted int     `csv:"deer_hunted" json:"deer_hunted"`
	PeakDeer    int     `csv:"peak_deer" json:"peak_deer"`
	FinalDeer   int     `csv:"final_deer" json:"final_deer"`
}

// ComputeYearStats aggregates rows, which must all belong to one year.
func ComputeYearStats(year int, rows []MonthRow) YearStats {
	ys := YearStats{Year: year, Months: len(rows)}
	if len(rows) == 0 {
		return ys
	}

	temps := make([]float64, len(rows))
	precips := make([]float64, len(rows))
	heights := make([]float64, len(rows))
	for i, r := range rows {
		temps[i] = r.Temperature
		precips[i] = r.Precipitation
		heights[i] = r.Height
		ys.TotalHunted += r.DeerHunted
		ys.PeakDeer = max(ys.PeakDeer, r.DeerCount)
	}

	ys.MeanTemp = stat.Mean(temps, nil)
	ys.TotalPrecip = floats.Sum(precips)
	ys.MeanHeight = stat.Mean(heights, nil)
	ys.PeakHeight = floats.Max(heights)
	ys.FinalDeer = rows[len(rows)-1].DeerCount
	return ys
}

// LogValue implements slog.LogValuer for structured logging.
func (y YearStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("year", y.Year),
		slog.Int("months", y.Months),
		slog.Float64("mean_temp", y.MeanTemp),
		slog.Float64("total_precip", y.TotalPrecip),
		slog.Float64("mean_grain_height", y.MeanHeight),
		slog.Float64("peak_grain_height", y.PeakHeight),
		slog.Int("deer_hunted", y.TotalHunted),
		slog.Int("peak_deer", y.PeakDeer),
		slog.Int("final_deer", y.FinalDeer),
	)
}

// RunSummary describes a whole run.
type RunSummary struct {
	RunID         string  `json:"run_id"`
	Ticks         int     `json:"ticks"`
	HeightMean    float64 `json:"grain_height_mean"`
	HeightStd     float64 `json:"grain_height_std"`
	HeightP10     float64 `json:"grain_height_p10"`
	HeightP50     float64 `json:"grain_height_p50"`
	HeightP90     float64 `json:"grain_height_p90"`
	DeerMean      float64 `json:"deer_mean"`
	DeerStd       float64 `json:"deer_std"`
	DeerP10       float64 `json:"deer_p10"`
	DeerP50       float64 `json:"deer_p50"`
	DeerP90       float64 `json:"deer_p90"`
	PeakDeer      int     `json:"peak_deer"`
	TotalHunted   int     `json:"deer_hunted"`
	ExtinctMonths int     `json:"extinct_months"` // months ending with no deer
}

// Summarize computes run statistics over every reported month.
func Summarize(runID string, rows []MonthRow) RunSummary {
	s := RunSummary{RunID: runID, Ticks: len(rows)}
	if len(rows) == 0 {
		return s
	}

	heights := make([]float64, len(rows))
	deer := make([]float64, len(rows))
	for i, r := range rows {
		heights[i] = r.Height
		deer[i] = float64(r.DeerCount)
		s.TotalHunted += r.DeerHunted
		s.PeakDeer = max(s.PeakDeer, r.DeerCount)
		if r.DeerCount == 0 {
			s.ExtinctMonths++
		}
	}

	s.HeightMean, s.HeightStd, s.HeightP10, s.HeightP50, s.HeightP90 = Distribution(heights)
	s.DeerMean, s.DeerStd, s.DeerP10, s.DeerP50, s.DeerP90 = Distribution(deer)
	return s
}

// LogStats logs the summary using slog.
func (s RunSummary) LogStats() {
	slog.Info("run summary",
		"run_id", s.RunID,
		"ticks", s.Ticks,
		"grain_height_mean", s.HeightMean,
		"grain_height_std", s.HeightStd,
		"grain_height_p50", s.HeightP50,
		"deer_mean", s.DeerMean,
		"deer_std", s.DeerStd,
		"deer_p10", s.DeerP10,
		"deer_p50", s.DeerP50,
		"deer_p90", s.DeerP90,
		"peak_deer", s.PeakDeer,
		"deer_hunted", s.TotalHunted,
		"extinct_months", s.ExtinctMonths,
	)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution returns the mean, sample standard deviation and 10th, 50th
// and 90th percentiles of values.
func Distribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}
