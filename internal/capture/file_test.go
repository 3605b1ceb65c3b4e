package capture

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lotverify/docscan/internal/imaging"
)

func writeTestPNG(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	path := filepath.Join(dir, "doc.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write test image: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), 800, 600)

	img, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if img.Width != 800 || img.Height != 600 {
		t.Errorf("Expected 800x600, got %dx%d", img.Width, img.Height)
	}
	if img.Origin != OriginUpload {
		t.Errorf("Expected upload origin, got %q", img.Origin)
	}
	if !strings.HasPrefix(img.FileName, "upload_") || !strings.HasSuffix(img.FileName, ".png") {
		t.Errorf("Unexpected file name %q", img.FileName)
	}

	// The data URL must round-trip to the original file bytes.
	data, mimeType, err := imaging.DecodeDataURI(img.DataURL)
	if err != nil {
		t.Fatalf("Undecodable data URL: %v", err)
	}
	if mimeType != "image/png" {
		t.Errorf("Expected image/png, got %q", mimeType)
	}
	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.Equal(data, original) {
		t.Error("Upload bytes must be carried unmodified")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.png"))

	var upErr *UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected *UploadError, got %T: %v", err, err)
	}
}

func TestLoadBytesNotAnImage(t *testing.T) {
	_, err := LoadBytes([]byte("definitely not an image"), ".txt")

	var upErr *UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected *UploadError, got %T: %v", err, err)
	}
}
