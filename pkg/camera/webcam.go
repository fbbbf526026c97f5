package camera

import (
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Webcam is a Device backed by a local video capture device via OpenCV.
type Webcam struct {
	mu     sync.Mutex
	cap    *gocv.VideoCapture
	closed bool

	deviceID int
}

// OpenWebcam opens the capture device with the given index.
func OpenWebcam(deviceID int) (*Webcam, error) {
	cap, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open video device %d: %w", deviceID, err)
	}
	return &Webcam{cap: cap, deviceID: deviceID}, nil
}

// Grab captures a single frame as JPEG at the requested configuration.
// Resolution is applied to the device before the read; drivers that
// cannot switch resolutions return frames at their native size, which
// is fine for the analyzer since it rescales anyway.
func (w *Webcam) Grab(ctx context.Context, cfg Config) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	w.cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))

	img := gocv.NewMat()
	defer img.Close()

	if ok := w.cap.Read(&img); !ok || img.Empty() {
		return nil, ErrGrabFailed
	}

	quality := cfg.Quality
	if quality <= 0 {
		quality = 85
	}
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}

// Close releases the capture device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.cap.Close()
}

// Ensure Webcam implements Device.
var _ Device = (*Webcam)(nil)
