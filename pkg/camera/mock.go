package camera

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"sync/atomic"
	"time"
)

// SceneFunc renders a synthetic frame for the mock device.
type SceneFunc func(cfg Config) image.Image

// Mock is a Device that renders synthetic frames for tests and
// camera-less development.
type Mock struct {
	mu      sync.Mutex
	closed  bool
	latency time.Duration
	scene   SceneFunc
	errs    []error // Consumed one per grab, front first
	failAll error

	// Stats
	grabs       atomic.Int64
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

// MockOption configures a Mock.
type MockOption func(*Mock)

// WithLatency makes every grab take at least d, simulating sensor and
// encode time. Useful for exercising in-flight overlap in tests.
func WithLatency(d time.Duration) MockOption {
	return func(m *Mock) { m.latency = d }
}

// WithScene sets the frame renderer.
func WithScene(scene SceneFunc) MockOption {
	return func(m *Mock) { m.scene = scene }
}

// WithGrabError makes every grab fail with err, simulating a dead or
// busy device.
func WithGrabError(err error) MockOption {
	return func(m *Mock) { m.failAll = err }
}

// NewMock creates a mock camera. The default scene is a well-lit
// textured subject centered on a light background, which grades Good
// under the default quality calibration.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{scene: SubjectScene(40, 200)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FailNext queues an error for an upcoming grab. Queued errors are
// consumed in order before the scene is rendered.
func (m *Mock) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, err)
}

// Grab renders one synthetic frame as JPEG.
func (m *Mock) Grab(ctx context.Context, cfg Config) ([]byte, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	latency := m.latency
	failAll := m.failAll
	var queued error
	if len(m.errs) > 0 {
		queued = m.errs[0]
		m.errs = m.errs[1:]
	}
	scene := m.scene
	m.mu.Unlock()

	// Track overlap so tests can assert the single-operation invariant.
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		prev := m.maxInFlight.Load()
		if cur <= prev || m.maxInFlight.CompareAndSwap(prev, cur) {
			break
		}
	}

	if latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(latency):
		}
	}

	m.grabs.Add(1)

	if queued != nil {
		return nil, queued
	}
	if failAll != nil {
		return nil, failAll
	}

	img := scene(cfg)
	quality := cfg.Quality
	if quality <= 0 {
		quality = 85
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Grabs returns how many grabs have completed the latency wait.
func (m *Mock) Grabs() int64 {
	return m.grabs.Load()
}

// MaxInFlight returns the highest number of grabs ever observed
// running at the same time.
func (m *Mock) MaxInFlight() int32 {
	return m.maxInFlight.Load()
}

// Close marks the device closed; further grabs fail with ErrClosed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)

// SubjectScene renders a textured subject square covering the center
// half of the frame over a lighter textured background. fg and bg are
// the base luminances of subject and background.
func SubjectScene(fg, bg uint8) SceneFunc {
	return func(cfg Config) image.Image {
		w, h := sceneSize(cfg)
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				base := bg
				if x >= w/4 && x < 3*w/4 && y >= h/4 && y < 3*h/4 {
					base = fg
				}
				// Coarse checker texture keeps the gradient metric in
				// the range of a focused photo even after the analyzer
				// downscales the frame.
				v := texture(base, x, y)
				img.Set(x, y, color.RGBA{v, v, v, 255})
			}
		}
		return img
	}
}

// UniformScene renders a flat frame at the given luminance. Grades as
// blurry or subjectless by construction.
func UniformScene(gray uint8) SceneFunc {
	return func(cfg Config) image.Image {
		w, h := sceneSize(cfg)
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.Set(x, y, color.RGBA{gray, gray, gray, 255})
			}
		}
		return img
	}
}

func sceneSize(cfg Config) (int, int) {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 320
	}
	if h <= 0 {
		h = 240
	}
	return w, h
}

func texture(base uint8, x, y int) uint8 {
	if ((x/8)+(y/8))%2 == 0 {
		if base >= 240 {
			return base
		}
		return base + 15
	}
	if base < 15 {
		return base
	}
	return base - 15
}
