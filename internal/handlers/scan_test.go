package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lotverify/docscan/internal/gateway"
	"github.com/lotverify/docscan/internal/lots"
	"github.com/lotverify/docscan/internal/notify"
	"github.com/lotverify/docscan/internal/workflow"
)

type stubBackend struct {
	result *gateway.ScanResult
}

func (b stubBackend) SubmitForRecognition(ctx context.Context, imageBytes []byte, mimeType, fileName string) (*gateway.ScanResult, string, error) {
	return b.result, "Processing successful!", nil
}

func (b stubBackend) SubmitVerification(ctx context.Context, resultID int, categoryName string) (string, error) {
	return "Verification successful!", nil
}

type stubFetcher struct{}

func (stubFetcher) FetchAvailableLots(ctx context.Context) ([]gateway.LotRecord, error) {
	return nil, nil
}

func newTestHandler() *Handler {
	recorder := notify.NewRecorder()
	backend := stubBackend{result: &gateway.ScanResult{ID: 7, Category: "A"}}
	machine := workflow.New(backend, recorder, workflow.Options{})
	cache := lots.NewCache(stubFetcher{}, recorder)
	return New(machine, cache, recorder)
}

// paddedPNG returns a valid PNG padded with trailing bytes to exactly size.
// Dimension decoding reads only the header, so the padding is inert.
func paddedPNG(t *testing.T, size int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
	if buf.Len() > size {
		t.Fatalf("Base image already %d bytes, want at most %d", buf.Len(), size)
	}
	data := make([]byte, size)
	copy(data, buf.Bytes())
	return data
}

func uploadRequest(t *testing.T, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "doc.png")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/scan", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleScanUploadSizeLimit(t *testing.T) {
	const limit = 10 * 1024 * 1024

	tests := []struct {
		name       string
		size       int
		wantStatus int
	}{
		{
			name:       "exactly at the limit is accepted",
			size:       limit,
			wantStatus: http.StatusOK,
		},
		{
			name:       "one byte over is rejected",
			size:       limit + 1,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler()
			rec := httptest.NewRecorder()

			handler.HandleScan(rec, uploadRequest(t, paddedPNG(t, tt.size)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				var resp struct {
					SessionID string `json:"session_id"`
					State     string `json:"state"`
				}
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if resp.SessionID == "" {
					t.Error("Expected a session ID")
				}
				if resp.State != string(workflow.StateReviewed) {
					t.Errorf("Expected reviewed state, got %q", resp.State)
				}
			}
		})
	}
}

func TestHandleScanRejectsNonPost(t *testing.T) {
	handler := newTestHandler()
	rec := httptest.NewRecorder()

	handler.HandleScan(rec, httptest.NewRequest("GET", "/api/scan", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}
