// Package web provides the field dashboard: live quality feedback over
// websockets plus a small REST surface for capture control.
package web

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/GabrielCastilloH/Stray-Hub-sub000/internal/log"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/camera"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/capture"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/hub"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/quality"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/upload"
)

// Uploader sends a committed photo to the matching backend.
// Satisfied by *upload.Client.
type Uploader interface {
	ReportSighting(ctx context.Context, photo capture.Photo, s upload.Sighting) (*upload.SightingResponse, error)
}

// CaptureState is the dashboard view of the capture session. Broadcast
// on /ws/status after every preview sample and photo change.
type CaptureState struct {
	CameraConnected bool    `json:"camera_connected"`
	Sampling        bool    `json:"sampling"`
	Committing      bool    `json:"committing"`
	ActiveSlot      int     `json:"active_slot"`
	PhotoCount      int     `json:"photo_count"`
	Verdict         string  `json:"verdict"`
	Feedback        string  `json:"feedback"`
	Brightness      float64 `json:"brightness"`
	Sharpness       float64 `json:"sharpness"`
	Coverage        float64 `json:"coverage"`
	Viewers         int     `json:"viewers"`
}

// Server is the dashboard server. It implements capture.Sink so the
// coordinator can publish straight into the websocket hubs.
type Server struct {
	app  *fiber.App
	port string

	coord    *capture.Coordinator
	camMgr   *camera.Manager
	uploader Uploader

	// State
	state   CaptureState
	stateMu sync.RWMutex

	// Hubs for websocket broadcast (thread-safe!)
	statusHub  *hub.Hub
	previewHub *hub.Hub
}

// NewServer creates the dashboard server around a coordinator and the
// runtime camera manager.
func NewServer(port string, coord *capture.Coordinator, camMgr *camera.Manager) *Server {
	s := &Server{
		port:       port,
		coord:      coord,
		camMgr:     camMgr,
		statusHub:  hub.New("status"),
		previewHub: hub.New("preview"),
	}
	s.state.CameraConnected = true

	app := fiber.New(fiber.Config{
		AppName:               "Stray Hub Capture",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/result", s.handleResult)
	api.Post("/capture", s.handleCapture)
	api.Get("/photos", s.handleListPhotos)
	api.Get("/photos/:slot/image", s.handlePhotoImage)
	api.Delete("/photos/:slot", s.handleDeletePhoto)
	api.Post("/photos/:slot/retake", s.handleRetake)
	api.Post("/photos/:slot/upload", s.handleUploadPhoto)
	api.Get("/camera/config", s.handleGetCameraConfig)
	api.Post("/camera/config", s.handleSetCameraConfig)
	api.Get("/camera/presets", s.handleCameraPresets)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/preview", websocket.New(s.handlePreviewWS))

	s.app = app
	return s
}

// Start starts the dashboard server.
func (s *Server) Start() error {
	log.Info("dashboard listening", "port", s.port)

	go s.statusHub.Run()
	go s.previewHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the dashboard server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server error", "err", err)
		}
	}()
}

// Shutdown gracefully stops the dashboard server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// SetUploader enables the sighting upload endpoint.
func (s *Server) SetUploader(u Uploader) {
	s.uploader = u
}

// SetCameraConnected flags camera availability on the dashboard.
func (s *Server) SetCameraConnected(ok bool) {
	s.updateState(func(st *CaptureState) {
		st.CameraConnected = ok
	})
}

// --- capture.Sink ---

// UpdateResult publishes a fresh preview analysis to the dashboard.
func (s *Server) UpdateResult(res quality.Result) {
	s.updateState(func(st *CaptureState) {
		st.Verdict = string(res.Verdict)
		st.Feedback = res.Feedback
		st.Brightness = res.Metrics.Brightness
		st.Sharpness = res.Metrics.Sharpness
		st.Coverage = res.Metrics.Coverage
	})
}

// PreviewFrame forwards the preview JPEG to connected viewers.
func (s *Server) PreviewFrame(jpeg []byte) {
	s.previewHub.BroadcastBinary(jpeg)
}

// PhotoAdded refreshes the session counters after a commit.
func (s *Server) PhotoAdded(p capture.Photo) {
	s.refreshSession()
}

// PhotoRemoved refreshes the session counters after a delete.
func (s *Server) PhotoRemoved(slot int) {
	s.refreshSession()
}

// Ensure Server implements capture.Sink.
var _ capture.Sink = (*Server)(nil)

// updateState applies a mutation and broadcasts the new state.
func (s *Server) updateState(update func(*CaptureState)) {
	cs := s.coord.State()

	s.stateMu.Lock()
	update(&s.state)
	s.state.Sampling = cs.Sampling
	s.state.Committing = cs.Committing
	s.state.ActiveSlot = cs.ActiveSlot
	s.state.PhotoCount = cs.PhotoCount
	s.state.Viewers = s.statusHub.ClientCount()
	state := s.state // Copy for broadcast
	s.stateMu.Unlock()

	s.statusHub.BroadcastJSON(state)
}

func (s *Server) refreshSession() {
	s.updateState(func(st *CaptureState) {})
}
