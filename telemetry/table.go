package telemetry

import (
	"fmt"
	"io"

	"github.com/pthm-cable/grainsim/ecosystem"
)

const (
	tableHeader = "MONTH   TEMP    PRECIP    GRAIN_HEIGHT    DEER_HUNTED   DEER_AMOUNT"
	tableRow    = "%-7d %-7.2f %-9.2f %-15.2f %-13d %d\n"
)

// Table prints the console report: a year banner with column headers, then
// one fixed-width row per month.
type Table struct {
	w io.Writer
}

func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

func (t *Table) YearStarted(year int) {
	fmt.Fprintf(t.w, "\nYEAR: %d\n%s\n", year, tableHeader)
}

func (t *Table) MonthCompleted(r ecosystem.Record) {
	fmt.Fprintf(t.w, tableRow, r.Month+1, r.Temperature, r.Precipitation, r.Height, r.DeerHunted, r.DeerCount)
}
