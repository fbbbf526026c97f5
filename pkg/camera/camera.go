// Package camera abstracts the single physical camera shared by the
// preview sampler and the commit capture path.
package camera

import (
	"context"
	"errors"
)

// ErrGrabFailed is returned when the device produced no usable frame.
var ErrGrabFailed = errors.New("camera: grab failed")

// ErrClosed is returned when the device has been closed.
var ErrClosed = errors.New("camera: device closed")

// Device is a camera that can produce one JPEG frame per call.
// Implementations serialize hardware access internally, but callers are
// still expected to keep at most one logical operation in flight; the
// capture coordinator enforces that.
type Device interface {
	// Grab captures a single frame at the requested configuration and
	// returns it as JPEG bytes.
	Grab(ctx context.Context, cfg Config) ([]byte, error)

	// Close releases the device.
	Close() error
}
