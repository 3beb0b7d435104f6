package telemetry

import (
	"testing"
)

func row(tick, deer int, height float64) MonthRow {
	return MonthRow{Tick: tick, Year: 2017 + tick/12, Month: tick%12 + 1, DeerCount: deer, Height: height}
}

func hasBookmark(bookmarks []Bookmark, t BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == t {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HerdCrash(t *testing.T) {
	bd := NewBookmarkDetector(12)

	// Build up the herd
	for i := 0; i < 5; i++ {
		bd.Check(row(i, 10, 5))
	}

	bookmarks := bd.Check(row(5, 5, 5)) // 50% drop
	if !hasBookmark(bookmarks, BookmarkHerdCrash) {
		t.Fatalf("expected herd_crash bookmark, got %v", bookmarks)
	}

	// Peak resets after a crash so the same low doesn't fire again
	if hasBookmark(bd.Check(row(6, 5, 5)), BookmarkHerdCrash) {
		t.Error("crash fired twice for the same drop")
	}
}

func TestBookmarkDetector_SmallDropIsNotCrash(t *testing.T) {
	bd := NewBookmarkDetector(12)

	bd.Check(row(0, 4, 5))
	// 50% drop but only two deer lost
	if hasBookmark(bd.Check(row(1, 2, 5)), BookmarkHerdCrash) {
		t.Error("expected no herd_crash for a drop of two deer")
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(12)

	bd.Check(row(0, 2, 5))
	bookmarks := bd.Check(row(1, 0, 5))
	if !hasBookmark(bookmarks, BookmarkHerdExtinct) {
		t.Fatalf("expected herd_extinct bookmark, got %v", bookmarks)
	}
	if bookmarks[0].Tick != 1 || bookmarks[0].Month != 2 {
		t.Errorf("bookmark at tick %d month %d, want tick 1 month 2", bookmarks[0].Tick, bookmarks[0].Month)
	}

	// Staying extinct is not a new event
	if hasBookmark(bd.Check(row(2, 0, 5)), BookmarkHerdExtinct) {
		t.Error("extinction fired for a herd that was already gone")
	}
}

func TestBookmarkDetector_HerdRecovery(t *testing.T) {
	bd := NewBookmarkDetector(12)

	for i := 0; i < 3; i++ {
		bd.Check(row(i, 1, 5)) // critical low
	}

	if hasBookmark(bd.Check(row(3, 2, 5)), BookmarkHerdRecovery) {
		t.Error("recovery fired below threshold")
	}
	if !hasBookmark(bd.Check(row(4, 3, 5)), BookmarkHerdRecovery) {
		t.Error("expected herd_recovery bookmark")
	}
}

func TestBookmarkDetector_GrainBoom(t *testing.T) {
	bd := NewBookmarkDetector(12)

	for i := 0; i < 4; i++ {
		bd.Check(row(i, 3, 2.5))
	}

	if !hasBookmark(bd.Check(row(4, 3, 6.0)), BookmarkGrainBoom) {
		t.Error("expected grain_boom bookmark")
	}
}

func TestBookmarkDetector_StableHerd(t *testing.T) {
	bd := NewBookmarkDetector(4)

	fired := 0
	firstAt := -1
	for i := 0; i < 20; i++ {
		deer := 5 + i%2 // oscillates between 5 and 6
		if hasBookmark(bd.Check(row(i, deer, 5)), BookmarkStableHerd) {
			fired++
			if firstAt < 0 {
				firstAt = i
			}
		}
	}

	if fired != 1 {
		t.Fatalf("stable_herd fired %d times, want 1", fired)
	}
	// History needs 4 months before the check starts counting, then 6 stable months
	if firstAt != 9 {
		t.Errorf("stable_herd fired at tick %d, want 9", firstAt)
	}
}

func TestBookmarkDetector_FirstMonthIsQuiet(t *testing.T) {
	bd := NewBookmarkDetector(12)
	if bookmarks := bd.Check(row(0, 0, 100)); len(bookmarks) != 0 {
		t.Errorf("first month produced bookmarks: %v", bookmarks)
	}
}
