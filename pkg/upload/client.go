// Package upload sends committed photos to the matching backend's
// sightings API. The backend owns the schema; this client only speaks
// its multipart contract.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GabrielCastilloH/Stray-Hub-sub000/internal/httpc"
	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/capture"
)

// ErrNoPhoto is returned when the photo has no image data.
var ErrNoPhoto = errors.New("upload: photo has no data")

// Client talks to the matching backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an upload client for the given backend base URL,
// e.g. https://api.strayhub.example.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpc.Client,
	}
}

// Sighting carries the intake fields reported with a photo.
type Sighting struct {
	Latitude    float64
	Longitude   float64
	Notes       string
	DiseaseTags []string
}

// SightingResponse is the backend's record of an accepted sighting.
type SightingResponse struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	PhotoSignedURL string    `json:"photo_signed_url"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReportSighting uploads one committed photo with its intake fields.
func (c *Client) ReportSighting(ctx context.Context, photo capture.Photo, s Sighting) (*SightingResponse, error) {
	if len(photo.Data) == 0 {
		return nil, ErrNoPhoto
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "photo.jpg")
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := fw.Write(photo.Data); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	fields := map[string]string{
		"latitude":     strconv.FormatFloat(s.Latitude, 'f', -1, 64),
		"longitude":    strconv.FormatFloat(s.Longitude, 'f', -1, 64),
		"notes":        s.Notes,
		"disease_tags": strings.Join(s.DiseaseTags, ","),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("build upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	url := c.baseURL + "/api/v1/sightings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload sighting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("upload sighting: backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out SightingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode sighting response: %w", err)
	}
	return &out, nil
}
