package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/camera"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/capture"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/hub"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/upload"
)

// handleStatus returns the current capture session state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	state := s.state
	s.stateMu.RUnlock()
	// Live count; the stored one is only as fresh as the last broadcast.
	state.Viewers = s.statusHub.ClientCount()
	return c.JSON(state)
}

// handleResult returns the most recent preview analysis. May be stale
// by up to one sample interval.
func (s *Server) handleResult(c *fiber.Ctx) error {
	return c.JSON(s.coord.LastResult())
}

// handleCapture triggers one commit capture. Repeated requests while a
// commit is running are idempotent no-ops reported as a conflict.
func (s *Server) handleCapture(c *fiber.Ctx) error {
	photo, err := s.coord.RequestCapture(c.UserContext())
	switch {
	case errors.Is(err, capture.ErrCommitInFlight):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "capture already in progress",
		})
	case errors.Is(err, capture.ErrCommitTimeout):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "camera did not become available",
		})
	case err != nil:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(photo)
}

// handleListPhotos returns committed photo metadata in slot order.
func (s *Server) handleListPhotos(c *fiber.Ctx) error {
	return c.JSON(s.coord.Photos())
}

// handlePhotoImage streams one committed photo as JPEG.
func (s *Server) handlePhotoImage(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad slot"})
	}
	photo, ok := s.coord.Photo(slot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no photo in slot"})
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(photo.Data)
}

// handleDeletePhoto removes a committed photo.
func (s *Server) handleDeletePhoto(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad slot"})
	}
	if err := s.coord.DeletePhoto(slot); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleRetake points the capture target back at a filled slot.
func (s *Server) handleRetake(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad slot"})
	}
	if err := s.coord.Retake(slot); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"active_slot": slot})
}

// UploadRequest is the intake form submitted with a photo upload.
type UploadRequest struct {
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Notes       string   `json:"notes"`
	DiseaseTags []string `json:"disease_tags"`
}

// handleUploadPhoto sends a committed photo to the matching backend.
func (s *Server) handleUploadPhoto(c *fiber.Ctx) error {
	if s.uploader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no backend configured",
		})
	}

	slot, err := c.ParamsInt("slot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad slot"})
	}
	photo, ok := s.coord.Photo(slot)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no photo in slot"})
	}

	var req UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	sighting, err := s.uploader.ReportSighting(c.UserContext(), photo, upload.Sighting{
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Notes:       req.Notes,
		DiseaseTags: req.DiseaseTags,
	})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(sighting)
}

// handleGetCameraConfig returns the current capture camera config.
func (s *Server) handleGetCameraConfig(c *fiber.Ctx) error {
	return c.JSON(s.camMgr.GetConfigJSON())
}

// handleSetCameraConfig updates capture camera settings from a JSON
// map of field names to values, or a named preset.
func (s *Server) handleSetCameraConfig(c *fiber.Ctx) error {
	var params map[string]interface{}
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := s.camMgr.UpdateConfig(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.camMgr.GetConfigJSON())
}

// handleCameraPresets lists the available camera presets.
func (s *Server) handleCameraPresets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"presets": camera.PresetNames(),
	})
}

// handleStatusWS streams capture state updates.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)

	// Send the current state so new viewers render immediately
	s.stateMu.RLock()
	c.WriteJSON(s.state)
	s.stateMu.RUnlock()

	client.Run()
}

// handlePreviewWS streams binary preview frames.
func (s *Server) handlePreviewWS(c *websocket.Conn) {
	client := hub.NewClient(s.previewHub, c)
	client.Run()
}
