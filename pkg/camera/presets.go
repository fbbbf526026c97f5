package camera

// Preset names for common configurations
const (
	PresetPreview = "preview"
	PresetCapture = "capture"
	PresetNight   = "night"
	PresetBright  = "bright"
)

// PreviewConfig returns the low-resolution configuration used by the
// quality sampling loop. Cheap to grab and encode; the analyzer scales
// everything down to its fixed resolution anyway.
func PreviewConfig() Config {
	return Config{
		Width:         320,
		Height:        240,
		Quality:       70,
		ExposureMode:  "normal",
		ExposureValue: 0.0,
		AfMode:        "continuous",
	}
}

// CaptureConfig returns the full-resolution configuration for committed
// photos that get uploaded for matching.
func CaptureConfig() Config {
	return Config{
		Width:         1920,
		Height:        1080,
		Quality:       90,
		ExposureMode:  "normal",
		ExposureValue: 0.0,
		AfMode:        "continuous",
	}
}

// NightConfig returns a capture configuration for low light.
// Uses long exposure mode with a brighter EV bias.
func NightConfig() Config {
	cfg := CaptureConfig()
	cfg.ExposureMode = "long"
	cfg.ExposureValue = 1.0
	return cfg
}

// BrightConfig returns a capture configuration for harsh daylight.
// Slightly darker to preserve highlights on light-coated animals.
func BrightConfig() Config {
	cfg := CaptureConfig()
	cfg.ExposureMode = "short"
	cfg.ExposureValue = -0.5
	return cfg
}

// Presets returns all available preset configurations.
func Presets() map[string]Config {
	return map[string]Config{
		PresetPreview: PreviewConfig(),
		PresetCapture: CaptureConfig(),
		PresetNight:   NightConfig(),
		PresetBright:  BrightConfig(),
	}
}

// PresetNames returns the list of available preset names.
func PresetNames() []string {
	return []string{PresetPreview, PresetCapture, PresetNight, PresetBright}
}

// GetPreset returns a preset config by name, or nil if not found.
func GetPreset(name string) *Config {
	presets := Presets()
	if cfg, ok := presets[name]; ok {
		return &cfg
	}
	return nil
}
