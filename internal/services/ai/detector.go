package ai

import "errors"

// ErrModelUnavailable is returned by Detect when the detection network
// could not be loaded at startup. Startup itself stays healthy.
var ErrModelUnavailable = errors.New("detection model not loaded")

// Detection is one object found on a frame. Confidence is in [0,1].
// The slice order is the model's own ordering; callers treat element 0
// as "the" detection.
type Detection struct {
	Label      string
	Confidence float64
	X          int
	Y          int
	Width      int
	Height     int
}

// Detector turns a JPEG frame into zero or more detections.
type Detector interface {
	// Detect returns the detections found on the frame, possibly none.
	Detect(frame []byte) ([]Detection, error)

	// Ready reports whether the model was loaded and Detect can be called.
	Ready() bool

	// Close releases model resources.
	Close()
}
