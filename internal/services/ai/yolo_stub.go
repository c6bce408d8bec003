//go:build !gocv
// +build !gocv

package ai

import "cap-inspect/internal/logger"

// YOLODetector stub for builds without the gocv tag. It is never ready,
// so every classify call reports the model as unavailable.
type YOLODetector struct {
	logger *logger.Logger
}

// NewYOLODetector returns a detector stub (no OpenCV in this build).
func NewYOLODetector(modelPath, classNamesPath string, logger *logger.Logger) *YOLODetector {
	logger.Warning("Built without gocv tag - detection model disabled")
	return &YOLODetector{logger: logger}
}

// Detect always reports the model as unavailable.
func (d *YOLODetector) Detect(frame []byte) ([]Detection, error) {
	return nil, ErrModelUnavailable
}

// Ready always reports false.
func (d *YOLODetector) Ready() bool {
	return false
}

// Close is a no-op.
func (d *YOLODetector) Close() {}
