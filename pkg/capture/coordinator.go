package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/GabrielCastilloH/Stray-Hub-sub000/internal/log"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/camera"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/quality"
)

// ErrCommitInFlight is returned when RequestCapture is called while a
// commit is already running. The call is a no-op; taps are never queued.
var ErrCommitInFlight = errors.New("capture: commit already in flight")

// ErrCommitTimeout is returned when CommitWait elapsed before the
// camera became free.
var ErrCommitTimeout = errors.New("capture: timed out waiting for camera")

// ErrBadSlot is returned for slot indexes outside the session.
var ErrBadSlot = errors.New("capture: slot out of range")

// Sink receives coordinator output for display. Implementations must
// not block; feedback is best-effort and may be dropped or superseded
// by a newer sample.
type Sink interface {
	// UpdateResult publishes the latest preview analysis.
	UpdateResult(res quality.Result)

	// PreviewFrame publishes the raw preview JPEG the result came from.
	PreviewFrame(jpeg []byte)

	// PhotoAdded reports a successful commit.
	PhotoAdded(p Photo)

	// PhotoRemoved reports an explicit delete.
	PhotoRemoved(slot int)
}

// State is a snapshot of the session for display.
type State struct {
	Sampling    bool            `json:"sampling"`
	Committing  bool            `json:"committing"`
	ActiveSlot  int             `json:"active_slot"`
	PhotoCount  int             `json:"photo_count"`
	LastVerdict quality.Verdict `json:"last_verdict"`
}

// Coordinator owns the camera arbitration between the preview sampler
// and commit captures.
//
// The capture flow this ports from ran single-threaded and guarded the
// camera with two polled booleans. Go is genuinely parallel, so the
// flags are replaced with a capacity-1 semaphore owned by whichever
// operation holds the camera: the sampler acquires it without blocking
// and skips the tick when it loses, the commit path acquires it
// blocking. A separate pending flag gives a waiting commit priority
// over new sampler ticks so it cannot be starved.
type Coordinator struct {
	cfg      Config
	dev      camera.Device
	analyzer *quality.Analyzer
	sink     Sink

	// camSem holds one token while a camera operation is in flight.
	// Invariant: at most one grab at any instant.
	camSem chan struct{}

	// commitPending is set for the whole RequestCapture call, including
	// the wait for the camera. Samplers decline while it is set.
	commitPending atomic.Bool

	mu         sync.Mutex
	sampling   bool
	committing bool
	lastResult quality.Result
	slots      []*Photo
	active     int
}

// New creates a coordinator over the given device and analyzer.
func New(cfg Config, dev camera.Device, analyzer *quality.Analyzer) *Coordinator {
	if errs := cfg.Validate(); len(errs) > 0 {
		log.Warn("capture config invalid, using defaults", "errors", fmt.Sprint(errs))
		cfg = DefaultConfig()
	}
	return &Coordinator{
		cfg:      cfg,
		dev:      dev,
		analyzer: analyzer,
		camSem:   make(chan struct{}, 1),
		slots:    make([]*Photo, cfg.PhotoSlots),
	}
}

// SetSink sets the display sink. Call before Run.
func (c *Coordinator) SetSink(sink Sink) {
	c.sink = sink
}

// SetCaptureConfig updates the camera configuration used for commit
// grabs. Takes effect on the next commit.
func (c *Coordinator) SetCaptureConfig(cfg camera.Config) {
	c.mu.Lock()
	c.cfg.Capture = cfg
	c.mu.Unlock()
}

// Run drives the preview sampling loop until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.SampleInterval)
	defer ticker.Stop()

	log.Info("capture coordinator started",
		"sample_interval", c.cfg.SampleInterval,
		"photo_slots", c.cfg.PhotoSlots,
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("capture coordinator stopped")
			return
		case <-ticker.C:
			go c.sampleOnce(ctx)
		}
	}
}

// sampleOnce grabs and analyzes one preview frame, publishing the
// result. Every failure path just skips the tick; the next tick tries
// again.
func (c *Coordinator) sampleOnce(ctx context.Context) {
	// A requested commit outranks new samples.
	if c.commitPending.Load() {
		return
	}

	select {
	case c.camSem <- struct{}{}:
	default:
		// Camera busy with a previous sample or a commit.
		return
	}

	c.setSampling(true)
	frame, err := c.dev.Grab(ctx, c.cfg.Preview)
	<-c.camSem
	c.setSampling(false)

	if err != nil {
		log.Debug("preview grab failed, skipping tick", "err", err)
		return
	}

	res := c.analyzer.Analyze(frame)

	c.mu.Lock()
	c.lastResult = res
	c.mu.Unlock()

	if c.sink != nil {
		c.sink.UpdateResult(res)
		c.sink.PreviewFrame(frame)
	}
}

// RequestCapture performs one commit capture: waits for any in-flight
// sample to release the camera, grabs a full-resolution frame, and
// stores it in the active slot. One call per user tap; a call made
// while another commit runs returns ErrCommitInFlight and does nothing.
// On failure no photo is stored and the session returns to idle, so the
// user can simply tap again.
func (c *Coordinator) RequestCapture(ctx context.Context) (Photo, error) {
	if !c.commitPending.CompareAndSwap(false, true) {
		return Photo{}, ErrCommitInFlight
	}
	defer c.commitPending.Store(false)

	c.setCommitting(true)
	defer c.setCommitting(false)

	// The in-flight sample, if any, runs to completion; the device does
	// not support cancellation. CommitWait bounds the wait when set.
	var timeout <-chan time.Time
	if c.cfg.CommitWait > 0 {
		t := time.NewTimer(c.cfg.CommitWait)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case c.camSem <- struct{}{}:
	case <-ctx.Done():
		return Photo{}, ctx.Err()
	case <-timeout:
		return Photo{}, ErrCommitTimeout
	}

	c.mu.Lock()
	capCfg := c.cfg.Capture
	c.mu.Unlock()

	frame, err := c.dev.Grab(ctx, capCfg)
	<-c.camSem

	if err != nil {
		log.Warn("commit capture failed", "err", err)
		return Photo{}, fmt.Errorf("commit capture: %w", err)
	}

	photo := Photo{
		ID:      uuid.NewString(),
		TakenAt: time.Now(),
		Data:    frame,
	}

	c.mu.Lock()
	slot := c.active
	photo.Slot = slot
	retake := c.slots[slot] != nil
	c.slots[slot] = &photo
	if !retake {
		c.advanceLocked()
	}
	c.mu.Unlock()

	log.Info("photo committed", "id", photo.ID, "slot", slot, "bytes", len(frame), "retake", retake)

	if c.sink != nil {
		c.sink.PhotoAdded(photo)
	}
	return photo, nil
}

// advanceLocked moves the active target to the next empty slot,
// wrapping from the end back to the start. If every slot is filled the
// target stays where it is.
func (c *Coordinator) advanceLocked() {
	n := len(c.slots)
	for i := 1; i <= n; i++ {
		idx := (c.active + i) % n
		if c.slots[idx] == nil {
			c.active = idx
			return
		}
	}
}

// Retake points the active target at an already-filled slot so the next
// commit replaces it without advancing.
func (c *Coordinator) Retake(slot int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot < 0 || slot >= len(c.slots) {
		return ErrBadSlot
	}
	c.active = slot
	return nil
}

// DeletePhoto removes the photo in the given slot. If the active target
// sat on a filled slot, it moves to the newly freed one.
func (c *Coordinator) DeletePhoto(slot int) error {
	c.mu.Lock()
	if slot < 0 || slot >= len(c.slots) {
		c.mu.Unlock()
		return ErrBadSlot
	}
	if c.slots[slot] == nil {
		c.mu.Unlock()
		return ErrBadSlot
	}
	c.slots[slot] = nil
	if c.slots[c.active] != nil {
		c.active = slot
	}
	c.mu.Unlock()

	if c.sink != nil {
		c.sink.PhotoRemoved(slot)
	}
	return nil
}

// Photo returns the photo in the given slot, if any.
func (c *Coordinator) Photo(slot int) (Photo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot < 0 || slot >= len(c.slots) || c.slots[slot] == nil {
		return Photo{}, false
	}
	return *c.slots[slot], true
}

// Photos returns the committed photos in slot order.
func (c *Coordinator) Photos() []Photo {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Photo, 0, len(c.slots))
	for _, p := range c.slots {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// LastResult returns the most recent preview analysis. May be stale by
// up to one sample interval.
func (c *Coordinator) LastResult() quality.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastResult
}

// State returns a display snapshot of the session.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, p := range c.slots {
		if p != nil {
			count++
		}
	}
	return State{
		Sampling:    c.sampling,
		Committing:  c.committing,
		ActiveSlot:  c.active,
		PhotoCount:  count,
		LastVerdict: c.lastResult.Verdict,
	}
}

func (c *Coordinator) setSampling(v bool) {
	c.mu.Lock()
	c.sampling = v
	c.mu.Unlock()
}

func (c *Coordinator) setCommitting(v bool) {
	c.mu.Lock()
	c.committing = v
	c.mu.Unlock()
}
