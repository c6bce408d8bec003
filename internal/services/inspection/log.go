package inspection

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"cap-inspect/internal/models"
)

var logHeader = []string{"timestamp", "prediction", "confidence"}

// Log is the append-only CSV record of every classification decision.
// It is the single source of truth the counters are derived from.
type Log struct {
	path string
	mu   sync.Mutex
}

// NewLog creates a log backed by the CSV file at path. The file is not
// created until the first append or reset.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Path returns the location of the backing CSV file.
func (l *Log) Path() string {
	return l.path
}

// Append durably writes one record. The header row is written exactly
// once, when the file does not exist yet.
func (l *Log) Append(rec models.ClassificationRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, statErr := os.Stat(l.path)
	fileExists := statErr == nil

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open inspection log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if !fileExists {
		if err := w.Write(logHeader); err != nil {
			return fmt.Errorf("failed to write log header: %w", err)
		}
	}

	confidence := ""
	if rec.Confidence != nil {
		confidence = strconv.FormatFloat(*rec.Confidence, 'f', -1, 64)
	}

	row := []string{rec.Timestamp.Format(models.TimestampLayout), rec.Label, confidence}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to append log record: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush log record: %w", err)
	}
	return nil
}

// ReadAll returns every record in log order. A missing file is an empty
// log, not an error.
func (l *Log) ReadAll() ([]models.ClassificationRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open inspection log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read inspection log: %w", err)
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	records := make([]models.ClassificationRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(logHeader) {
			return nil, fmt.Errorf("malformed log row: %v", row)
		}

		ts, err := time.ParseInLocation(models.TimestampLayout, row[0], time.Local)
		if err != nil {
			return nil, fmt.Errorf("malformed log timestamp %q: %w", row[0], err)
		}

		rec := models.ClassificationRecord{Timestamp: ts, Label: row[1]}
		if row[2] != "" {
			conf, err := strconv.ParseFloat(row[2], 64)
			if err != nil {
				return nil, fmt.Errorf("malformed log confidence %q: %w", row[2], err)
			}
			rec.Confidence = &conf
		}
		records = append(records, rec)
	}

	return records, nil
}

// Reset replaces the log with a fresh header-only file. Destructive.
func (l *Log) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to reset inspection log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(logHeader); err != nil {
		return fmt.Errorf("failed to write log header: %w", err)
	}
	w.Flush()
	return w.Error()
}
