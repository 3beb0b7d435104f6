package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHerdCrash    BookmarkType = "herd_crash"
	BookmarkHerdExtinct  BookmarkType = "herd_extinct"
	BookmarkHerdRecovery BookmarkType = "herd_recovery"
	BookmarkGrainBoom    BookmarkType = "grain_boom"
	BookmarkStableHerd   BookmarkType = "stable_herd"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int          `csv:"tick" json:"tick"`
	Year        int          `csv:"year" json:"year"`
	Month       int          `csv:"month" json:"month"` // 1-12
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"year", b.Year,
		"month", b.Month,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting months in the herd's history.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []MonthRow
	historySize int
	historyIdx  int
	historyFull bool

	recentDeerMin     int  // minimum herd since the last recovery
	seenDeerMin       bool // recentDeerMin is meaningful
	recentDeerPeak    int  // peak herd since the last crash
	stableMonthsCount int  // consecutive months with a steady herd
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 4 {
		historySize = 4 // minimum for stable herd detection
	}
	return &BookmarkDetector{
		history:     make([]MonthRow, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest month and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(row MonthRow) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkExtinction(row); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkHerdCrash(row); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkHerdRecovery(row); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkGrainBoom(row); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableHerd(row); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(row)

	if !bd.seenDeerMin || row.DeerCount < bd.recentDeerMin {
		bd.recentDeerMin = row.DeerCount
		bd.seenDeerMin = true
	}
	if row.DeerCount > bd.recentDeerPeak {
		bd.recentDeerPeak = row.DeerCount
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(row MonthRow) {
	bd.history[bd.historyIdx] = row
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []MonthRow {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) previous() MonthRow {
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx]
}

func bookmarkAt(t BookmarkType, row MonthRow, desc string) *Bookmark {
	return &Bookmark{Type: t, Tick: row.Tick, Year: row.Year, Month: row.Month, Description: desc}
}

func (bd *BookmarkDetector) checkExtinction(row MonthRow) *Bookmark {
	prev := bd.previous()
	if row.DeerCount == 0 && prev.DeerCount > 0 {
		return bookmarkAt(BookmarkHerdExtinct, row,
			fmt.Sprintf("Herd of %d wiped out (%d hunted)", prev.DeerCount, row.DeerHunted))
	}
	return nil
}

func (bd *BookmarkDetector) checkHerdCrash(row MonthRow) *Bookmark {
	if bd.recentDeerPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(row.DeerCount)/float64(bd.recentDeerPeak)
	if dropPercent > 0.30 && row.DeerCount <= bd.recentDeerPeak-3 {
		// Reset peak after crash
		oldPeak := bd.recentDeerPeak
		bd.recentDeerPeak = row.DeerCount

		return bookmarkAt(BookmarkHerdCrash, row,
			fmt.Sprintf("Herd crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, row.DeerCount))
	}
	return nil
}

func (bd *BookmarkDetector) checkHerdRecovery(row MonthRow) *Bookmark {
	if !bd.seenDeerMin || bd.recentDeerMin > 1 {
		return nil
	}

	threshold := max(bd.recentDeerMin*3, 3)
	if row.DeerCount >= threshold {
		oldMin := bd.recentDeerMin
		bd.recentDeerMin = row.DeerCount

		return bookmarkAt(BookmarkHerdRecovery, row,
			fmt.Sprintf("Herd recovered from %d to %d", oldMin, row.DeerCount))
	}
	return nil
}

func (bd *BookmarkDetector) checkGrainBoom(row MonthRow) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.Height
	}
	avg := total / float64(len(history))
	if avg <= 0 {
		return nil
	}

	if row.Height > avg*2.0 && row.Height > 4.0 {
		return bookmarkAt(BookmarkGrainBoom, row,
			fmt.Sprintf("Grain height %.2f is %.1fx average (%.2f)", row.Height, row.Height/avg, avg))
	}
	return nil
}

func (bd *BookmarkDetector) checkStableHerd(row MonthRow) *Bookmark {
	if row.DeerCount < 2 {
		bd.stableMonthsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	// Spread of the herd over the history window
	lo, hi := row.DeerCount, row.DeerCount
	for _, h := range history {
		lo = min(lo, h.DeerCount)
		hi = max(hi, h.DeerCount)
	}

	if hi-lo <= 1 {
		bd.stableMonthsCount++
	} else {
		bd.stableMonthsCount = 0
	}

	if bd.stableMonthsCount == 6 { // trigger exactly once per stable stretch
		return bookmarkAt(BookmarkStableHerd, row,
			fmt.Sprintf("Herd steady at %d-%d deer for 6 months", lo, hi))
	}
	return nil
}
