// strayhubd runs the capture pipeline: camera, quality sampler,
// capture coordinator, and the field dashboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GabrielCastilloH/Stray-Hub-sub000/internal/config"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/internal/log"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/camera"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/capture"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/quality"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/upload"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/web"
)

func main() {
	log.Init(config.LogLevel())

	// Camera: real hardware by default, synthetic scenes for
	// development without a device.
	var dev camera.Device
	if config.UseMockCamera() {
		log.Info("using mock camera")
		dev = camera.NewMock()
	} else {
		webcam, err := camera.OpenWebcam(config.CameraDevice())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot open camera %d: %v\n", config.CameraDevice(), err)
			fmt.Fprintln(os.Stderr, "Set STRAYHUB_MOCK_CAMERA=1 to run without hardware")
			os.Exit(1)
		}
		dev = webcam
	}
	defer dev.Close()

	analyzer := quality.New(quality.DefaultConfig())

	// Runtime-tunable capture settings, exposed on the dashboard.
	camMgr := camera.NewManager()

	captureCfg := capture.DefaultConfig()
	captureCfg.Capture = camMgr.GetConfig()
	coord := capture.New(captureCfg, dev, analyzer)

	// Dashboard config changes apply to subsequent commits.
	camMgr.OnConfigChange = func(cfg camera.Config) error {
		coord.SetCaptureConfig(cfg)
		return nil
	}

	server := web.NewServer(config.Port(), coord, camMgr)
	coord.SetSink(server)

	if backendURL := config.BackendURL(); backendURL != "" {
		log.Info("sighting uploads enabled", "backend", backendURL)
		server.SetUploader(upload.NewClient(backendURL))
	}

	// Handle Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		cancel()
	}()

	server.StartAsync()
	coord.Run(ctx)

	if err := server.Shutdown(); err != nil {
		log.Error("dashboard shutdown error", "err", err)
	}
}
