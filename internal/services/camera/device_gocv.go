//go:build gocv
// +build gocv

package camera

import (
	"fmt"

	"gocv.io/x/gocv"
)

// gocvDevice wraps a gocv VideoCapture and hands out JPEG frames.
type gocvDevice struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// OpenDevice opens the local capture device at the target resolution.
func OpenDevice(index, width, height int) (Device, error) {
	capture, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture device %d: %w", index, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("capture device %d is not opened", index)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(height))

	return &gocvDevice{
		capture: capture,
		mat:     gocv.NewMat(),
	}, nil
}

// Read grabs one frame and encodes it as JPEG. A failed read or an
// empty frame signals end-of-stream.
func (d *gocvDevice) Read() ([]byte, bool) {
	if !d.capture.Read(&d.mat) || d.mat.Empty() {
		return nil, false
	}

	buf, err := gocv.IMEncode(".jpg", d.mat)
	if err != nil {
		return nil, false
	}
	defer buf.Close()

	frame := make([]byte, len(buf.GetBytes()))
	copy(frame, buf.GetBytes())
	return frame, true
}

// Close releases the capture device.
func (d *gocvDevice) Close() error {
	d.mat.Close()
	return d.capture.Close()
}
