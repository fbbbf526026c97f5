package quality

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// encodePNG renders a 200x200 grayscale test frame from a per-pixel
// luminance function.
func encodePNG(t *testing.T, pixel func(x, y int) uint8) []byte {
	t.Helper()

	const size = 200
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := pixel(x, y)
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test frame: %v", err)
	}
	return buf.Bytes()
}

// textured returns a pixel function with a coarse checker texture so
// the frame reads as in-focus, over a base luminance function.
func textured(base func(x, y int) uint8) func(x, y int) uint8 {
	return func(x, y int) uint8 {
		v := base(x, y)
		if ((x/16)+(y/16))%2 == 0 {
			if v >= 235 {
				return v
			}
			return v + 20
		}
		if v < 20 {
			return v
		}
		return v - 20
	}
}

// subject returns a base function with a centered square of luminance
// fg covering the middle half of the frame over background bg.
func subject(fg, bg uint8) func(x, y int) uint8 {
	return func(x, y int) uint8 {
		if x >= 50 && x < 150 && y >= 50 && y < 150 {
			return fg
		}
		return bg
	}
}

func flat(v uint8) func(x, y int) uint8 {
	return func(x, y int) uint8 { return v }
}

func TestAnalyze_DarkFrame(t *testing.T) {
	a := New(DefaultConfig())

	// Sharp and well-framed, but dark: lighting wins over everything.
	frame := encodePNG(t, textured(subject(5, 40)))
	res := a.Analyze(frame)

	if res.Verdict != Poor {
		t.Errorf("Expected Poor, got %s (metrics %+v)", res.Verdict, res.Metrics)
	}
	if res.Feedback != FeedbackTooDark {
		t.Errorf("Expected dark feedback, got %q", res.Feedback)
	}
}

func TestAnalyze_BrightFrame(t *testing.T) {
	a := New(DefaultConfig())

	frame := encodePNG(t, textured(flat(245)))
	res := a.Analyze(frame)

	if res.Verdict != Poor {
		t.Errorf("Expected Poor, got %s (metrics %+v)", res.Verdict, res.Metrics)
	}
	if res.Feedback != FeedbackTooBright {
		t.Errorf("Expected bright feedback, got %q", res.Feedback)
	}
}

func TestAnalyze_UniformFrame(t *testing.T) {
	a := New(DefaultConfig())

	// Constant color: no gradients, no center/edge gap. The blur check
	// fires first per the declared order.
	frame := encodePNG(t, flat(128))
	res := a.Analyze(frame)

	if res.Metrics.Sharpness > 1.0 {
		t.Errorf("Expected near-zero sharpness, got %.2f", res.Metrics.Sharpness)
	}
	if res.Metrics.Coverage > 1.0 {
		t.Errorf("Expected near-zero coverage, got %.2f", res.Metrics.Coverage)
	}
	if res.Verdict != Poor {
		t.Errorf("Expected Poor, got %s", res.Verdict)
	}
	if res.Feedback != FeedbackBlurry {
		t.Errorf("Expected blurry feedback, got %q", res.Feedback)
	}
}

func TestAnalyze_NoSubject(t *testing.T) {
	a := New(DefaultConfig())

	// Textured so it passes the blur check, but visually uniform
	// center-to-edge: no distinct subject.
	frame := encodePNG(t, textured(flat(180)))
	res := a.Analyze(frame)

	if res.Verdict != Poor {
		t.Errorf("Expected Poor, got %s (metrics %+v)", res.Verdict, res.Metrics)
	}
	if res.Feedback != FeedbackNoSubject {
		t.Errorf("Expected no-subject feedback, got %q", res.Feedback)
	}
}

func TestAnalyze_GoodFrame(t *testing.T) {
	a := New(DefaultConfig())

	// High-contrast centered subject, adequate light, sharp texture.
	frame := encodePNG(t, textured(subject(40, 200)))
	res := a.Analyze(frame)

	if res.Verdict != Good {
		t.Errorf("Expected Good, got %s %q (metrics %+v)", res.Verdict, res.Feedback, res.Metrics)
	}
	if res.Feedback != FeedbackReady {
		t.Errorf("Expected ready feedback, got %q", res.Feedback)
	}
	if res.Metrics.Coverage < DefaultConfig().TooFarCoverage {
		t.Errorf("Expected coverage above %0.f, got %.2f",
			DefaultConfig().TooFarCoverage, res.Metrics.Coverage)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := New(DefaultConfig())
	frame := encodePNG(t, textured(subject(40, 200)))

	first := a.Analyze(frame)
	second := a.Analyze(frame)

	if first != second {
		t.Errorf("Expected identical results, got %+v vs %+v", first, second)
	}
}

func TestAnalyze_CorruptImage(t *testing.T) {
	a := New(DefaultConfig())

	for _, data := range [][]byte{
		nil,
		{},
		[]byte("definitely not an image"),
		bytes.Repeat([]byte{0xff, 0xd8, 0x00}, 50), // Truncated JPEG-ish garbage
	} {
		res := a.Analyze(data)
		if res.Verdict != Okay {
			t.Errorf("Expected fallback Okay verdict, got %s", res.Verdict)
		}
		if res.Feedback != FeedbackFallback {
			t.Errorf("Expected fallback feedback, got %q", res.Feedback)
		}
	}
}

// TestClassify_Ordering pins the check precedence: lighting, then
// blur, then coverage, then the secondary hint bands.
func TestClassify_Ordering(t *testing.T) {
	a := New(DefaultConfig())

	tests := []struct {
		name     string
		m        Metrics
		verdict  Verdict
		feedback string
	}{
		{"dark wins over blur and coverage", Metrics{Brightness: 20, Sharpness: 0, Coverage: 0}, Poor, FeedbackTooDark},
		{"bright wins over blur and coverage", Metrics{Brightness: 250, Sharpness: 0, Coverage: 0}, Poor, FeedbackTooBright},
		{"blur wins over coverage", Metrics{Brightness: 120, Sharpness: 1, Coverage: 0}, Poor, FeedbackBlurry},
		{"no subject", Metrics{Brightness: 120, Sharpness: 25, Coverage: 2}, Poor, FeedbackNoSubject},
		{"too far", Metrics{Brightness: 120, Sharpness: 25, Coverage: 15}, Okay, FeedbackMoveCloser},
		{"dim band beats soft band", Metrics{Brightness: 65, Sharpness: 6, Coverage: 50}, Okay, FeedbackBitDark},
		{"soft band", Metrics{Brightness: 120, Sharpness: 6, Coverage: 50}, Okay, FeedbackCouldBeSharper},
		{"good", Metrics{Brightness: 120, Sharpness: 25, Coverage: 50}, Good, FeedbackReady},
	}

	for _, tt := range tests {
		verdict, feedback := a.classify(tt.m)
		if verdict != tt.verdict || feedback != tt.feedback {
			t.Errorf("%s: got %s %q, want %s %q", tt.name, verdict, feedback, tt.verdict, tt.feedback)
		}
	}
}

func TestComputeMetrics_CoverageRegions(t *testing.T) {
	// Hand-built luminance plane: center region at 160, outer at 100.
	const n = AnalysisSize
	lum := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if x >= n/4 && x < 3*n/4 && y >= n/4 && y < 3*n/4 {
				lum[y*n+x] = 160
			} else {
				lum[y*n+x] = 100
			}
		}
	}

	m := computeMetrics(lum)

	if m.Coverage < 59.9 || m.Coverage > 60.1 {
		t.Errorf("Expected coverage 60, got %.2f", m.Coverage)
	}
	// Center is exactly a quarter of the frame.
	want := 0.25*160 + 0.75*100
	if m.Brightness < want-0.1 || m.Brightness > want+0.1 {
		t.Errorf("Expected brightness %.1f, got %.2f", want, m.Brightness)
	}
}
