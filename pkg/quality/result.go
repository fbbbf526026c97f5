package quality

// Verdict is the three-level capture acceptability classification.
// The order is by permissiveness (Good accepts most downstream use),
// not a numeric scale.
type Verdict string

const (
	// Good means the frame is ready for identity matching.
	Good Verdict = "good"
	// Okay means the frame is usable but could be improved.
	Okay Verdict = "okay"
	// Poor means the frame should be retaken.
	Poor Verdict = "poor"
)

// Feedback strings shown to the field worker. One per classification
// branch; the classifier picks exactly one.
const (
	FeedbackTooDark        = "Too dark, find more light"
	FeedbackTooBright      = "Too bright, reduce glare"
	FeedbackBlurry         = "Blurry, hold steady"
	FeedbackNoSubject      = "Center the animal in frame"
	FeedbackMoveCloser     = "Move closer to the animal"
	FeedbackBitDark        = "A bit dark"
	FeedbackCouldBeSharper = "Could be sharper"
	FeedbackReady          = "Ready for matching"

	// FeedbackFallback is returned when the frame cannot be analyzed at
	// all. The verdict is Okay so a display loop never blocks capture on
	// an analyzer failure.
	FeedbackFallback = "Captured, quality may vary"
)

// Metrics are the raw scores computed from one frame at AnalysisSize.
// They must not be compared across different analysis resolutions.
type Metrics struct {
	Brightness float64 `json:"brightness"` // Mean perceptual luminance, 0-255
	Sharpness  float64 `json:"sharpness"`  // Mean absolute luminance gradient
	Coverage   float64 `json:"coverage"`   // Center vs edge luminance gap, 0-255
}

// Result is the outcome of analyzing a single frame.
// Immutable and single-use; results are never cached.
type Result struct {
	Verdict  Verdict `json:"verdict"`
	Feedback string  `json:"feedback"`
	Metrics  Metrics `json:"metrics"`
}

// Fallback returns the fixed result used when analysis fails.
func Fallback() Result {
	return Result{
		Verdict:  Okay,
		Feedback: FeedbackFallback,
	}
}
