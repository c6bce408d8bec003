package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cap-inspect/internal/logger"
)

// Snapshot is one rejected frame waiting to be flushed to disk.
type Snapshot struct {
	Timestamp string
	Label     string
	Data      []byte
}

// BufferService keeps the frames of rejected items in a bounded buffer
// and periodically flushes them to the snapshot directory, so REJECT
// evidence survives without blocking the classify path on disk writes.
type BufferService struct {
	snapshotDir string
	snapshots   []Snapshot
	bufferLimit int
	logger      *logger.Logger
	mu          sync.Mutex
}

// NewBufferService creates a snapshot buffer writing into snapshotDir.
func NewBufferService(snapshotDir string, bufferLimit int, logger *logger.Logger) *BufferService {
	return &BufferService{
		snapshotDir: snapshotDir,
		bufferLimit: bufferLimit,
		snapshots:   make([]Snapshot, 0),
		logger:      logger,
	}
}

// Run flushes the buffer every flushInterval seconds. Meant to be
// started as a goroutine.
func (s *BufferService) Run(flushInterval int) {
	ticker := time.NewTicker(time.Duration(flushInterval) * time.Second)
	defer ticker.Stop()

	for {
		<-ticker.C
		s.Flush()
	}
}

// Add buffers one rejected frame. Frames past the buffer limit are
// dropped until the next flush.
func (s *BufferService) Add(frame []byte, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.snapshots) >= s.bufferLimit {
		s.logger.Warning("Snapshot buffer full (%d), dropping frame", s.bufferLimit)
		return
	}

	s.snapshots = append(s.snapshots, Snapshot{
		Timestamp: time.Now().Format("2006-01-02_15-04-05"),
		Label:     label,
		Data:      frame,
	})
}

// Flush writes every buffered snapshot to disk and clears the buffer.
func (s *BufferService) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.snapshots) == 0 {
		return
	}

	if err := os.MkdirAll(s.snapshotDir, 0755); err != nil {
		s.logger.Error("Error creating snapshot directory: %v", err)
		return
	}

	for i, snap := range s.snapshots {
		filename := fmt.Sprintf("%s_%s_%d.jpg", snap.Timestamp, snap.Label, i)
		fullpath := filepath.Join(s.snapshotDir, filename)

		if err := os.WriteFile(fullpath, snap.Data, 0644); err != nil {
			s.logger.Error("Error saving snapshot %s: %v", filename, err)
			continue
		}
	}

	s.logger.Info("Flushed %d defect snapshots to disk", len(s.snapshots))
	s.snapshots = s.snapshots[:0]
}

// Len returns the number of buffered snapshots.
func (s *BufferService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}
