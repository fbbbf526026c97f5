package camera

// Config holds camera capture parameters for a single grab.
// These can be modified via the dashboard camera API at runtime.
type Config struct {
	// === Resolution ===
	Width   int `json:"width"`   // Frame width in pixels
	Height  int `json:"height"`  // Frame height in pixels
	Quality int `json:"quality"` // JPEG quality 1-100

	// === Exposure ===
	// ExposureMode controls how the AE algorithm balances shutter/gain.
	// Values: "normal", "short", "long"
	ExposureMode string `json:"exposure_mode"`

	// ExposureValue is EV compensation in stops (-2.0 to +2.0).
	// Positive = brighter, negative = darker.
	ExposureValue float64 `json:"exposure_value"`

	// === Autofocus ===
	// AfMode controls autofocus behavior.
	// Values: "manual", "auto", "continuous"
	AfMode string `json:"af_mode"`
}

// Sensor limits for the supported field devices.
const (
	SensorMaxWidth  = 4608
	SensorMaxHeight = 2592
)

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Width < 160 || c.Width > SensorMaxWidth {
		errors = append(errors, "width must be between 160 and 4608")
	}
	if c.Height < 120 || c.Height > SensorMaxHeight {
		errors = append(errors, "height must be between 120 and 2592")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	validExposureModes := map[string]bool{"normal": true, "short": true, "long": true}
	if c.ExposureMode != "" && !validExposureModes[c.ExposureMode] {
		errors = append(errors, "exposure_mode must be normal, short, or long")
	}

	if c.ExposureValue < -2.0 || c.ExposureValue > 2.0 {
		errors = append(errors, "exposure_value must be between -2.0 and 2.0")
	}

	validAfModes := map[string]bool{"manual": true, "auto": true, "continuous": true}
	if c.AfMode != "" && !validAfModes[c.AfMode] {
		errors = append(errors, "af_mode must be manual, auto, or continuous")
	}

	return errors
}
