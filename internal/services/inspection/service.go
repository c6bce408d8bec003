package inspection

import (
	"fmt"
	"sync"
	"time"

	"cap-inspect/internal/logger"
	"cap-inspect/internal/models"
	"cap-inspect/internal/services/ai"
)

// Service is the classifier. It owns the inspection log and counters
// jointly: the append-log-plus-update-counters step of every classify
// call and the destructive Reset are serialized by one mutex, so the
// counters can never diverge from the log.
type Service struct {
	mu         sync.Mutex
	log        *Log
	counters   *Counters
	passLabels map[string]struct{}
	detector   ai.Detector
	logger     *logger.Logger
}

// NewService builds the classifier and rebuilds the counters by
// replaying the inspection log from the start.
func NewService(log *Log, passLabels map[string]struct{}, detector ai.Detector, logger *logger.Logger) (*Service, error) {
	s := &Service{
		log:        log,
		counters:   NewCounters(),
		passLabels: passLabels,
		detector:   detector,
		logger:     logger,
	}

	if err := s.ReloadFromLog(); err != nil {
		return nil, err
	}

	snap := s.counters.Snapshot()
	logger.Info("Counters restored from log: scanned=%d good=%d defect=%d",
		snap.TotalScanned, snap.TotalGood, snap.TotalDefect)

	return s, nil
}

// ReloadFromLog recomputes the counters by scanning the whole log.
func (s *Service) ReloadFromLog() error {
	records, err := s.log.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to reload counters: %w", err)
	}
	s.counters.Reload(records, s.passLabels)
	return nil
}

// ModelReady reports whether the detection model is loaded.
func (s *Service) ModelReady() bool {
	return s.detector != nil && s.detector.Ready()
}

// Classify runs detection on one frame, decides PASS/REJECT/UNDEFINED
// and durably records the decision before returning. The log append and
// the counter update happen as one atomic step.
func (s *Service) Classify(frame []byte) (*models.Outcome, error) {
	if !s.ModelReady() {
		return nil, ai.ErrModelUnavailable
	}

	detections, err := s.detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}

	now := time.Now().Truncate(time.Second)
	rec := models.ClassificationRecord{Timestamp: now, Label: models.LabelNoObject}
	status := models.StatusUndefined

	if len(detections) > 0 {
		// Single-object inspection: the first detection is the decision.
		first := detections[0]
		conf := models.Round3(first.Confidence)
		rec.Label = first.Label
		rec.Confidence = &conf

		if _, ok := s.passLabels[first.Label]; ok {
			status = models.StatusPass
		} else {
			status = models.StatusReject
		}
	}

	s.mu.Lock()
	if err := s.log.Append(rec); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.counters.Apply(rec, s.passLabels)
	snapshot := s.counters.Snapshot()
	s.mu.Unlock()

	s.logger.Info("Classified frame: %s (%s)", rec.Label, status)

	return &models.Outcome{
		Timestamp:       now.Format(models.TimestampLayout),
		Prediction:      rec.Label,
		Confidence:      rec.Confidence,
		Status:          status,
		CounterSnapshot: snapshot,
	}, nil
}

// Snapshot returns a consistent copy of the counters.
func (s *Service) Snapshot() models.CounterSnapshot {
	return s.counters.Snapshot()
}

// Results returns the counters with derived success and error rates.
func (s *Service) Results() models.ResultSummary {
	snap := s.counters.Snapshot()
	successRate, errorRate := snap.Rates()
	return models.ResultSummary{
		CounterSnapshot: snap,
		SuccessRate:     successRate,
		ErrorRate:       errorRate,
		LastUpdate:      time.Now().Format(models.TimestampLayout),
	}
}

// Records returns a point-in-time copy of the full log.
func (s *Service) Records() ([]models.ClassificationRecord, error) {
	return s.log.ReadAll()
}

// PassLabels returns the immutable set of labels considered good.
func (s *Service) PassLabels() map[string]struct{} {
	return s.passLabels
}

// Reset truncates the log to a header-only file and zeroes the
// counters. Irreversible; serialized against in-flight classifies.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.log.Reset(); err != nil {
		return err
	}
	s.counters.Reset()
	s.logger.Info("Inspection log and counters reset")
	return nil
}
