// Package config provides configuration helpers for strayhub commands.
package config

import (
	"os"
	"strconv"
)

// Default application configuration.
const (
	DefaultPort         = "8090"
	DefaultCameraDevice = 0
	DefaultLogLevel     = "info"
)

// Port returns the dashboard port from STRAYHUB_PORT or the default.
func Port() string {
	if p := os.Getenv("STRAYHUB_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// LogLevel returns the log level from STRAYHUB_LOG_LEVEL or the default.
func LogLevel() string {
	if l := os.Getenv("STRAYHUB_LOG_LEVEL"); l != "" {
		return l
	}
	return DefaultLogLevel
}

// CameraDevice returns the webcam device index from STRAYHUB_CAMERA.
// Falls back to device 0 if not set or not a number.
func CameraDevice() int {
	if v := os.Getenv("STRAYHUB_CAMERA"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			return id
		}
	}
	return DefaultCameraDevice
}

// UseMockCamera reports whether the synthetic camera should be used
// instead of real hardware (STRAYHUB_MOCK_CAMERA=1).
func UseMockCamera() bool {
	return os.Getenv("STRAYHUB_MOCK_CAMERA") == "1"
}

// BackendURL returns the matching backend base URL from STRAYHUB_BACKEND.
// Empty means uploads are disabled.
func BackendURL() string {
	return os.Getenv("STRAYHUB_BACKEND")
}
