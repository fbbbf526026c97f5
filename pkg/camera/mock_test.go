package camera

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/quality"
)

func TestMock_GrabProducesJPEG(t *testing.T) {
	m := NewMock()
	frame, err := m.Grab(context.Background(), PreviewConfig())
	if err != nil {
		t.Fatalf("Grab failed: %v", err)
	}
	if len(frame) == 0 {
		t.Fatal("Expected frame data")
	}
	// JPEG SOI marker
	if !bytes.HasPrefix(frame, []byte{0xff, 0xd8}) {
		t.Errorf("Expected JPEG bytes, got prefix %x", frame[:2])
	}
	if got := m.Grabs(); got != 1 {
		t.Errorf("Expected 1 grab, got %d", got)
	}
}

func TestMock_DefaultSceneGradesGood(t *testing.T) {
	m := NewMock()
	cfg := PreviewConfig()
	cfg.Width, cfg.Height = 100, 100

	frame, err := m.Grab(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Grab failed: %v", err)
	}

	res := quality.New(quality.DefaultConfig()).Analyze(frame)
	if res.Verdict != quality.Good {
		t.Errorf("Default scene graded %s %q (metrics %+v), want Good",
			res.Verdict, res.Feedback, res.Metrics)
	}
}

func TestMock_UniformSceneGradesPoor(t *testing.T) {
	m := NewMock(WithScene(UniformScene(128)))
	frame, err := m.Grab(context.Background(), PreviewConfig())
	if err != nil {
		t.Fatalf("Grab failed: %v", err)
	}

	res := quality.New(quality.DefaultConfig()).Analyze(frame)
	if res.Verdict != quality.Poor {
		t.Errorf("Uniform scene graded %s, want Poor", res.Verdict)
	}
}

func TestMock_FailNextConsumedInOrder(t *testing.T) {
	m := NewMock()
	first := errors.New("first")
	second := errors.New("second")
	m.FailNext(first)
	m.FailNext(second)

	ctx := context.Background()
	if _, err := m.Grab(ctx, PreviewConfig()); !errors.Is(err, first) {
		t.Errorf("Expected first queued error, got %v", err)
	}
	if _, err := m.Grab(ctx, PreviewConfig()); !errors.Is(err, second) {
		t.Errorf("Expected second queued error, got %v", err)
	}
	if _, err := m.Grab(ctx, PreviewConfig()); err != nil {
		t.Errorf("Expected recovery after queue drained, got %v", err)
	}
}

func TestMock_GrabErrorOption(t *testing.T) {
	m := NewMock(WithGrabError(ErrGrabFailed))
	if _, err := m.Grab(context.Background(), PreviewConfig()); !errors.Is(err, ErrGrabFailed) {
		t.Errorf("Expected ErrGrabFailed, got %v", err)
	}
}

func TestMock_Closed(t *testing.T) {
	m := NewMock()
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := m.Grab(context.Background(), PreviewConfig()); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestMock_LatencyHonorsContext(t *testing.T) {
	m := NewMock(WithLatency(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := m.Grab(ctx, PreviewConfig())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline error, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Grab did not abort on context cancellation")
	}
}
