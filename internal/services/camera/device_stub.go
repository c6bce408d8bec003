//go:build !gocv
// +build !gocv

package camera

import "fmt"

// OpenDevice stub for builds without the gocv tag. Opening a device
// always reports the camera as unavailable.
func OpenDevice(index, width, height int) (Device, error) {
	return nil, fmt.Errorf("gocv build tag is not enabled, cannot open device %d", index)
}
