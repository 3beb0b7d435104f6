package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// JournalFile is the journal's name inside the output directory.
const JournalFile = "journal.jsonl.zst"

// JournalEntry is one line of the journal.
type JournalEntry struct {
	Type     string      `json:"type"` // month, year, bookmark or summary
	RunID    string      `json:"run_id"`
	Time     time.Time   `json:"time"`
	Month    *MonthRow   `json:"month,omitempty"`
	Year     *YearStats  `json:"year,omitempty"`
	Bookmark *Bookmark   `json:"bookmark,omitempty"`
	Run      *RunSummary `json:"summary,omitempty"`
}

// Journal writes zstd-compressed JSON lines. A nil Journal discards writes.
type Journal struct {
	runID string
	f     *os.File
	enc   *zstd.Encoder
	w     *bufio.Writer
}

// OpenJournal creates the journal in dir. Returns nil if dir is empty.
func OpenJournal(dir, runID string) (*Journal, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, JournalFile))
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating journal encoder: %w", err)
	}

	return &Journal{
		runID: runID,
		f:     f,
		enc:   enc,
		w:     bufio.NewWriter(enc),
	}, nil
}

// WriteMonth journals a completed month.
func (j *Journal) WriteMonth(row MonthRow) error {
	return j.write(JournalEntry{Type: "month", Month: &row})
}

// WriteYear journals a completed year.
func (j *Journal) WriteYear(ys YearStats) error {
	return j.write(JournalEntry{Type: "year", Year: &ys})
}

// WriteBookmark journals a triggered bookmark.
func (j *Journal) WriteBookmark(b Bookmark) error {
	return j.write(JournalEntry{Type: "bookmark", Bookmark: &b})
}

// WriteSummary journals the run summary.
func (j *Journal) WriteSummary(s RunSummary) error {
	return j.write(JournalEntry{Type: "summary", Run: &s})
}

func (j *Journal) write(e JournalEntry) error {
	if j == nil {
		return nil
	}
	e.RunID = j.runID
	e.Time = time.Now().UTC()

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding journal entry: %w", err)
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	return j.w.WriteByte('\n')
}

// Close flushes the compressed stream and closes the file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	var firstErr error
	if err := j.w.Flush(); err != nil {
		firstErr = err
	}
	if err := j.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := j.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
