// Package capture arbitrates the single physical camera between the
// recurring quality-sampling loop and user-triggered photo commits.
package capture

import (
	"time"

	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/camera"
)

// Config holds all tunable parameters for the capture coordinator.
type Config struct {
	// SampleInterval is how often the preview sampler grabs a low-res
	// frame for live quality feedback.
	SampleInterval time.Duration

	// CommitWait bounds how long a commit waits for an in-flight
	// preview sample to release the camera. Zero means wait forever,
	// which matches the capture flow this ports from; set a bound if
	// the camera driver is known to hang.
	CommitWait time.Duration

	// PhotoSlots is the number of photo positions in an intake session.
	PhotoSlots int

	// Preview is the camera configuration for sampling grabs.
	Preview camera.Config

	// Capture is the camera configuration for committed photos.
	Capture camera.Config
}

// DefaultConfig returns the recommended coordinator configuration.
func DefaultConfig() Config {
	return Config{
		SampleInterval: 1200 * time.Millisecond,
		CommitWait:     0, // Unbounded
		PhotoSlots:     3,
		Preview:        camera.PreviewConfig(),
		Capture:        camera.CaptureConfig(),
	}
}

// Validate checks if the config values are usable.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.SampleInterval <= 0 {
		errors = append(errors, "sample_interval must be positive")
	}
	if c.CommitWait < 0 {
		errors = append(errors, "commit_wait must be zero or positive")
	}
	if c.PhotoSlots < 1 {
		errors = append(errors, "photo_slots must be at least 1")
	}

	return errors
}
