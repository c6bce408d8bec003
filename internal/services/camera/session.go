package camera

import (
	"errors"
	"sync"

	"cap-inspect/internal/logger"
)

// ErrCameraUnavailable is returned when the capture device cannot be
// opened. The service stays healthy; the caller gets a typed error.
var ErrCameraUnavailable = errors.New("camera unavailable")

// ErrCameraNotReady is returned by operations that need an open session
// before one was started.
var ErrCameraNotReady = errors.New("camera not initialized")

// Device is a capture source producing JPEG frames. The second return
// of Read is false on end-of-stream or a read/encode failure; both are
// expected conditions, not errors.
type Device interface {
	Read() ([]byte, bool)
	Close() error
}

// OpenFunc opens the capture device at the target resolution.
type OpenFunc func(index, width, height int) (Device, error)

// Session owns the single capture device of the process. At most one
// device handle is live at any time; a second open request returns the
// existing session unchanged.
type Session struct {
	mu     sync.Mutex
	dev    Device
	active bool

	open   OpenFunc
	index  int
	width  int
	height int
	logger *logger.Logger
}

// NewSession creates a session manager for camera index at the given
// resolution. The device is opened lazily on the first EnsureOpen.
func NewSession(open OpenFunc, index, width, height int, logger *logger.Logger) *Session {
	return &Session{
		open:   open,
		index:  index,
		width:  width,
		height: height,
		logger: logger,
	}
}

// EnsureOpen opens the capture device if no session exists; otherwise
// it is a no-op. Open failure maps to ErrCameraUnavailable.
func (s *Session) EnsureOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev != nil {
		return nil
	}

	s.logger.Info("Initializing camera %d at %dx%d", s.index, s.width, s.height)
	dev, err := s.open(s.index, s.width, s.height)
	if err != nil {
		s.logger.Error("Failed to open camera %d: %v", s.index, err)
		return ErrCameraUnavailable
	}

	s.dev = dev
	s.active = true
	return nil
}

// NextFrame reads one frame from the open device. The second return is
// false on end-of-stream or decode failure. Calling without an open
// session reports not-ready through the error.
// Reads are serialized under the session mutex; no other component
// touches the device directly.
func (s *Session) NextFrame() ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return nil, false, ErrCameraNotReady
	}

	frame, ok := s.dev.Read()
	return frame, ok, nil
}

// Active reports whether the session is running. The stream loop checks
// this flag every iteration so a Stop is observed within one frame.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Ready reports whether a device handle is currently held.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev != nil
}

// Stop releases the device and clears the session. Idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = false
	if s.dev == nil {
		return
	}

	if err := s.dev.Close(); err != nil {
		s.logger.Warning("Error releasing camera: %v", err)
	}
	s.dev = nil
	s.logger.Info("Camera stopped")
}
