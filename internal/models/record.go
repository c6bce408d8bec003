package models

import (
	"math"
	"time"
)

// TimestampLayout is the wall-clock format used in the inspection log,
// API responses and report documents.
const TimestampLayout = "2006-01-02 15:04:05"

// LabelNoObject marks a classification where the model returned no detections.
// Rows with this label are logged but never counted.
const LabelNoObject = "no_object_detected"

// Status is the classification outcome of one inspected frame.
type Status string

const (
	StatusPass      Status = "PASS"
	StatusReject    Status = "REJECT"
	StatusUndefined Status = "UNDEFINED"
)

// ClassificationRecord is one immutable row of the inspection log.
// Confidence is nil exactly when Label is LabelNoObject.
type ClassificationRecord struct {
	Timestamp  time.Time
	Label      string
	Confidence *float64
}

// CounterSnapshot is a consistent copy of the inspection counters.
// TotalScanned == TotalGood + TotalDefect always holds; no-detection
// records are excluded from all three.
type CounterSnapshot struct {
	TotalScanned int `json:"total_scanned"`
	TotalGood    int `json:"total_good"`
	TotalDefect  int `json:"total_defect"`
}

// Outcome is the result of classifying a single frame, including the
// counter state after the decision was applied.
type Outcome struct {
	Timestamp  string   `json:"timestamp"`
	Prediction string   `json:"prediction"`
	Confidence *float64 `json:"confidence"`
	Status     Status   `json:"status"`
	CounterSnapshot
}

// ResultSummary is the aggregate view served by the result endpoint.
type ResultSummary struct {
	CounterSnapshot
	SuccessRate float64 `json:"success_rate"`
	ErrorRate   float64 `json:"error_rate"`
	LastUpdate  string  `json:"last_update"`
}

// ReportSummary describes one generated report document.
type ReportSummary struct {
	Filename     string  `json:"filename"`
	GeneratedAt  string  `json:"generated_at"`
	TotalScanned int     `json:"total_scanned"`
	TotalGood    int     `json:"total_good"`
	TotalDefect  int     `json:"total_defect"`
	SuccessRate  float64 `json:"success_rate"`
	ErrorRate    float64 `json:"error_rate"`
}

// Rates returns success and error percentages rounded to 2 decimals.
// Both are 0 when nothing was scanned.
func (c CounterSnapshot) Rates() (successRate, errorRate float64) {
	if c.TotalScanned == 0 {
		return 0, 0
	}
	successRate = Round2(float64(c.TotalGood) / float64(c.TotalScanned) * 100)
	errorRate = Round2(float64(c.TotalDefect) / float64(c.TotalScanned) * 100)
	return successRate, errorRate
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to 3 decimal places, the precision kept for confidences.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
