package quality

import (
	"bytes"
	"image"

	// Camera frames arrive as JPEG; PNG shows up from synthetic sources.
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Analyzer classifies single frames against a threshold configuration.
// Stateless apart from the config; safe for concurrent use.
type Analyzer struct {
	cfg Config
}

// New creates an analyzer with the given threshold configuration.
func New(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Config returns the analyzer's threshold configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze decodes and grades one frame. It never fails: any decode or
// normalization problem yields the fixed fallback result, because this
// runs on a timer behind a live display and must always produce
// something showable.
func (a *Analyzer) Analyze(data []byte) Result {
	lum, ok := normalize(data)
	if !ok {
		return Fallback()
	}

	m := computeMetrics(lum)
	verdict, feedback := a.classify(m)

	return Result{
		Verdict:  verdict,
		Feedback: feedback,
		Metrics:  m,
	}
}

// normalize decodes the frame and scales it to the fixed analysis
// resolution, returning the per-pixel perceptual luminance plane.
func normalize(data []byte) ([]float64, bool) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, false
	}

	dst := image.NewRGBA(image.Rect(0, 0, AnalysisSize, AnalysisSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	lum := make([]float64, AnalysisSize*AnalysisSize)
	for y := 0; y < AnalysisSize; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < AnalysisSize; x++ {
			r := float64(row[x*4])
			g := float64(row[x*4+1])
			bl := float64(row[x*4+2])
			lum[y*AnalysisSize+x] = 0.299*r + 0.587*g + 0.114*bl
		}
	}
	return lum, true
}

// computeMetrics derives brightness, sharpness, and coverage from the
// luminance plane.
func computeMetrics(lum []float64) Metrics {
	const n = AnalysisSize

	// Brightness: mean luminance over every pixel.
	var sum float64
	for _, l := range lum {
		sum += l
	}
	brightness := sum / float64(len(lum))

	// Sharpness: mean absolute gradient to the right and bottom
	// neighbor. Blurred frames have almost no local contrast.
	var grad float64
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			l := lum[y*n+x]
			if x+1 < n {
				grad += abs(l - lum[y*n+x+1])
			}
			if y+1 < n {
				grad += abs(l - lum[(y+1)*n+x])
			}
		}
	}
	sharpness := grad / float64(len(lum))

	// Coverage: luminance gap between the inner 50%x50% region and the
	// outer ring. A subject filling the frame contrasts against the
	// background; an empty or distant scene stays uniform. This is a
	// framing proxy, not subject detection, and a background that
	// happens to differ center-to-edge can fool it.
	lo, hi := n/4, 3*n/4
	var centerSum, outerSum float64
	var centerCount, outerCount int
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if x >= lo && x < hi && y >= lo && y < hi {
				centerSum += lum[y*n+x]
				centerCount++
			} else {
				outerSum += lum[y*n+x]
				outerCount++
			}
		}
	}
	coverage := abs(centerSum/float64(centerCount) - outerSum/float64(outerCount))

	return Metrics{
		Brightness: brightness,
		Sharpness:  sharpness,
		Coverage:   coverage,
	}
}

// classify maps metrics to a verdict and feedback string.
// The check order is a contract: lighting problems take precedence over
// blur, blur over composition, composition over secondary hints.
// Reordering changes the feedback for borderline frames.
func (a *Analyzer) classify(m Metrics) (Verdict, string) {
	switch {
	case m.Brightness < a.cfg.DarkBrightness:
		return Poor, FeedbackTooDark
	case m.Brightness > a.cfg.BrightBrightness:
		return Poor, FeedbackTooBright
	case m.Sharpness < a.cfg.BlurSharpness:
		return Poor, FeedbackBlurry
	case m.Coverage < a.cfg.NoSubjectCoverage:
		return Poor, FeedbackNoSubject
	case m.Coverage < a.cfg.TooFarCoverage:
		return Okay, FeedbackMoveCloser
	case m.Brightness < a.cfg.DimBrightness:
		return Okay, FeedbackBitDark
	case m.Sharpness < a.cfg.SoftSharpness:
		return Okay, FeedbackCouldBeSharper
	default:
		return Good, FeedbackReady
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
