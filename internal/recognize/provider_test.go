package recognize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lotverify/docscan/internal/gateway"
)

func TestParseScanResult(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    gateway.ScanResult
		wantErr bool
	}{
		{
			name: "plain json",
			text: `{"formatted_top":"LOT A1","formatted_bottom":"2025-01-31","category":"A","status":"ok","message":"clear read"}`,
			want: gateway.ScanResult{FormattedTop: "LOT A1", FormattedBottom: "2025-01-31", Category: "A", Status: "ok", Message: "clear read"},
		},
		{
			name: "json code fence",
			text: "```json\n{\"formatted_top\":\"LOT A1\",\"category\":\"A\"}\n```",
			want: gateway.ScanResult{FormattedTop: "LOT A1", Category: "A"},
		},
		{
			name: "bare code fence",
			text: "```\n{\"category\":\"B\"}\n```",
			want: gateway.ScanResult{Category: "B"},
		},
		{
			name:    "prose instead of json",
			text:    "The image shows a batch document for lot A1.",
			wantErr: true,
		},
		{
			name:    "empty",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseScanResult(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %+v", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if *result != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, *result)
			}
		})
	}
}

func TestMimeSubtype(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"image/png", "png"},
		{"image/jpeg", "jpeg"},
		{"png", "png"},
	}

	for _, tt := range tests {
		if got := mimeSubtype(tt.mimeType); got != tt.want {
			t.Errorf("mimeSubtype(%q) = %q, want %q", tt.mimeType, got, tt.want)
		}
	}
}

func TestBackendWithoutVerifier(t *testing.T) {
	backend := Backend{Recognizer: Remote{}}

	_, err := backend.SubmitVerification(context.Background(), 7, "A")

	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Cause != gateway.CauseApplication {
		t.Errorf("Expected application cause, got %q", apiErr.Cause)
	}
}

func TestOllamaRecognize(t *testing.T) {
	var gotRequest map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		reply := map[string]string{
			"response": `{"formatted_top":"LOT A1","formatted_bottom":"2025-01-31","category":"A","status":"ok","message":"clear read"}`,
		}
		if err := json.NewEncoder(w).Encode(reply); err != nil {
			t.Fatalf("Failed to write reply: %v", err)
		}
	}))
	defer server.Close()

	provider := NewOllama(server.URL, "test-model")
	result, message, err := provider.Recognize(context.Background(), []byte("image"), "image/png", "doc.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotRequest["model"] != "test-model" {
		t.Errorf("Expected model test-model, got %v", gotRequest["model"])
	}
	if gotRequest["stream"] != false {
		t.Errorf("Expected stream false, got %v", gotRequest["stream"])
	}
	images, ok := gotRequest["images"].([]any)
	if !ok || len(images) != 1 {
		t.Errorf("Expected one base64 image, got %v", gotRequest["images"])
	}
	if result.Category != "A" || result.FormattedTop != "LOT A1" {
		t.Errorf("Unexpected result %+v", result)
	}
	if message == "" {
		t.Error("Expected a notification message")
	}
}

func TestOllamaRecognizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewOllama(server.URL, "missing-model")
	_, _, err := provider.Recognize(context.Background(), []byte("image"), "image/png", "doc.png")
	if err == nil {
		t.Fatal("Expected error")
	}
}

func TestGeminiRequiresAPIKey(t *testing.T) {
	provider := NewGemini("", "gemini-2.0-flash")

	_, _, err := provider.Recognize(context.Background(), []byte("image"), "image/png", "doc.png")
	if err == nil {
		t.Fatal("Expected error without API key")
	}
}
