// Package quality grades camera frames for identity-matching suitability.
// All classification thresholds live in Config with named presets.
package quality

// AnalysisSize is the fixed square resolution every frame is scaled to
// before metrics are computed. Brightness and sharpness numbers are only
// meaningful at this resolution; changing it requires recalibrating every
// threshold below.
const AnalysisSize = 100

// Config holds all tunable thresholds for frame classification.
// Values are calibrated at AnalysisSize and treated as configuration,
// not structural contract; the check ordering in classify is the contract.
type Config struct {
	// === Brightness (mean luminance, 0-255) ===
	DarkBrightness   float64 `json:"dark_brightness"`   // Below this: poor, too dark
	DimBrightness    float64 `json:"dim_brightness"`    // Below this: okay, a bit dark
	BrightBrightness float64 `json:"bright_brightness"` // Above this: poor, too bright

	// === Sharpness (mean absolute luminance gradient) ===
	// Single digits mean blur or defocus; an in-focus photo at the
	// analysis resolution lands in the twenties.
	BlurSharpness float64 `json:"blur_sharpness"` // Below this: poor, blurry
	SoftSharpness float64 `json:"soft_sharpness"` // Below this: okay, could be sharper

	// === Coverage (center vs edge luminance gap, 0-255) ===
	NoSubjectCoverage float64 `json:"no_subject_coverage"` // Below this: poor, no subject
	TooFarCoverage    float64 `json:"too_far_coverage"`    // Below this: okay, move closer
}

// DefaultConfig returns the recommended field calibration.
func DefaultConfig() Config {
	return Config{
		// Brightness - generous range, outdoor light varies wildly
		DarkBrightness:   50,
		DimBrightness:    80,
		BrightBrightness: 220,

		// Sharpness
		BlurSharpness: 4.0,
		SoftSharpness: 8.0,

		// Coverage
		NoSubjectCoverage: 8.0,
		TooFarCoverage:    20.0,
	}
}

// StrictConfig returns a calibration that only passes frames the matching
// model handles well. Use when recall matters less than match precision.
func StrictConfig() Config {
	cfg := DefaultConfig()
	cfg.DarkBrightness = 70
	cfg.DimBrightness = 100
	cfg.BrightBrightness = 200
	cfg.BlurSharpness = 6.0
	cfg.SoftSharpness = 12.0
	cfg.NoSubjectCoverage = 12.0
	cfg.TooFarCoverage = 30.0
	return cfg
}

// LenientConfig returns a calibration for poor field conditions where any
// usable photo beats no photo.
func LenientConfig() Config {
	cfg := DefaultConfig()
	cfg.DarkBrightness = 35
	cfg.DimBrightness = 55
	cfg.BrightBrightness = 235
	cfg.BlurSharpness = 2.5
	cfg.SoftSharpness = 5.0
	cfg.NoSubjectCoverage = 5.0
	cfg.TooFarCoverage = 12.0
	return cfg
}

// Validate checks that the thresholds are internally consistent.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.DarkBrightness < 0 || c.BrightBrightness > 255 {
		errors = append(errors, "brightness thresholds must be within 0-255")
	}
	if c.DarkBrightness >= c.DimBrightness {
		errors = append(errors, "dark_brightness must be below dim_brightness")
	}
	if c.DimBrightness >= c.BrightBrightness {
		errors = append(errors, "dim_brightness must be below bright_brightness")
	}
	if c.BlurSharpness < 0 || c.BlurSharpness >= c.SoftSharpness {
		errors = append(errors, "blur_sharpness must be non-negative and below soft_sharpness")
	}
	if c.NoSubjectCoverage < 0 || c.NoSubjectCoverage >= c.TooFarCoverage {
		errors = append(errors, "no_subject_coverage must be non-negative and below too_far_coverage")
	}

	return errors
}
