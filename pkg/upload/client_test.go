package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GabrielCastilloH/Stray-Hub-sub000/pkg/capture"
)

func testPhoto() capture.Photo {
	return capture.Photo{
		ID:      "test-photo",
		Slot:    0,
		TakenAt: time.Now(),
		Data:    []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02},
	}
}

func TestReportSighting(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "photo.jpg" {
			t.Errorf("filename = %q, want photo.jpg", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if len(data) != 6 {
			t.Errorf("file part has %d bytes, want 6", len(data))
		}

		if got := r.FormValue("latitude"); got != "40.7128" {
			t.Errorf("latitude = %q", got)
		}
		if got := r.FormValue("longitude"); got != "-74.006" {
			t.Errorf("longitude = %q", got)
		}
		if got := r.FormValue("notes"); got != "limping on rear leg" {
			t.Errorf("notes = %q", got)
		}
		if got := r.FormValue("disease_tags"); got != "mange,tick-borne" {
			t.Errorf("disease_tags = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SightingResponse{
			ID:             "sighting-123",
			Status:         "pending_match",
			PhotoSignedURL: "https://storage.example/abc",
			CreatedAt:      time.Now(),
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/") // Trailing slash gets trimmed

	resp, err := c.ReportSighting(context.Background(), testPhoto(), Sighting{
		Latitude:    40.7128,
		Longitude:   -74.006,
		Notes:       "limping on rear leg",
		DiseaseTags: []string{"mange", "tick-borne"},
	})
	if err != nil {
		t.Fatalf("ReportSighting failed: %v", err)
	}

	if gotPath != "/api/v1/sightings" {
		t.Errorf("posted to %q", gotPath)
	}
	if resp.ID != "sighting-123" {
		t.Errorf("response ID = %q", resp.ID)
	}
	if resp.Status != "pending_match" {
		t.Errorf("response status = %q", resp.Status)
	}
}

func TestReportSighting_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "photo rejected", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ReportSighting(context.Background(), testPhoto(), Sighting{})
	if err == nil {
		t.Fatal("Expected error on non-201 response")
	}
	if !strings.Contains(err.Error(), "422") {
		t.Errorf("Error should carry the status code: %v", err)
	}
	if !strings.Contains(err.Error(), "photo rejected") {
		t.Errorf("Error should carry the backend message: %v", err)
	}
}

func TestReportSighting_NoPhoto(t *testing.T) {
	c := NewClient("http://backend.invalid")
	_, err := c.ReportSighting(context.Background(), capture.Photo{}, Sighting{})
	if !errors.Is(err, ErrNoPhoto) {
		t.Errorf("Expected ErrNoPhoto, got %v", err)
	}
}
