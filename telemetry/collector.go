package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/grainsim/ecosystem"
)

// CollectorOptions wires the collector's outputs. Every field is optional.
type CollectorOptions struct {
	Table     *Table
	Output    *OutputManager
	Journal   *Journal
	Bookmarks *BookmarkDetector
	LogYears  bool
}

// Collector is the run's ecosystem.Reporter. It fans each completed month
// out to the console table, CSV output and journal, checks it for bookmarks
// and aggregates year and run statistics. It is driven only from the advance phase.
type Collector struct {
	runID string
	opts  CollectorOptions

	rows      []MonthRow
	yearRows  []MonthRow
	year      int
	years     []YearStats
	bookmarks []Bookmark
	firstErr  error
	finished  bool
}

// NewCollector creates a collector for the run identified by runID.
func NewCollector(runID string, opts CollectorOptions) *Collector {
	return &Collector{runID: runID, opts: opts}
}

// YearStarted closes out the previous year, if any, and starts a new one.
func (c *Collector) YearStarted(year int) {
	c.closeYear()
	c.year = year
	if c.opts.Table != nil {
		c.opts.Table.YearStarted(year)
	}
}

// MonthCompleted records one finished tick.
func (c *Collector) MonthCompleted(r ecosystem.Record) {
	if c.opts.Table != nil {
		c.opts.Table.MonthCompleted(r)
	}

	row := NewMonthRow(r)
	c.rows = append(c.rows, row)
	c.yearRows = append(c.yearRows, row)

	c.check(c.opts.Output.WriteMonth(row))
	c.check(c.opts.Journal.WriteMonth(row))

	if c.opts.Bookmarks == nil {
		return
	}
	for _, b := range c.opts.Bookmarks.Check(row) {
		c.bookmarks = append(c.bookmarks, b)
		b.LogBookmark()
		c.check(c.opts.Output.WriteBookmark(b))
		c.check(c.opts.Journal.WriteBookmark(b))
	}
}

func (c *Collector) closeYear() {
	if len(c.yearRows) == 0 {
		return
	}
	ys := ComputeYearStats(c.year, c.yearRows)
	c.years = append(c.years, ys)
	c.yearRows = c.yearRows[:0]

	if c.opts.LogYears {
		slog.Info("year", "run_id", c.runID, "stats", ys)
	}
	c.check(c.opts.Output.WriteYear(ys))
	c.check(c.opts.Journal.WriteYear(ys))
}

func (c *Collector) check(err error) {
	if err == nil || c.firstErr != nil {
		return
	}
	c.firstErr = err
	slog.Error("telemetry output failed", "run_id", c.runID, "error", err)
}

// Rows returns every month reported so far.
func (c *Collector) Rows() []MonthRow {
	return c.rows
}

// Years returns the completed years.
func (c *Collector) Years() []YearStats {
	return c.years
}

// Bookmarks returns the bookmarks triggered so far.
func (c *Collector) Bookmarks() []Bookmark {
	return c.bookmarks
}

// Finish closes a partial final year, summarises the run and journals the
// summary. It returns the first output error seen during the run.
func (c *Collector) Finish() (RunSummary, error) {
	if !c.finished {
		c.closeYear()
		c.finished = true
	}
	summary := Summarize(c.runID, c.rows)
	c.check(c.opts.Journal.WriteSummary(summary))
	return summary, c.firstErr
}
