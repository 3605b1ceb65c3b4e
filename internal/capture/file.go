package capture

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lotverify/docscan/internal/imaging"
)

// LoadFile reads an operator-selected image file into a captured Image. The
// file bytes are carried as-is in the data URL; only the dimensions are
// decoded. Failures surface as UploadError.
func LoadFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, &UploadError{Path: path, Err: err}
	}
	return LoadBytes(data, filepath.Ext(path))
}

// LoadBytes builds a captured Image from raw upload bytes. ext carries the
// original file extension (with dot) when known; the MIME type is sniffed
// from content regardless.
func LoadBytes(data []byte, ext string) (Image, error) {
	mimeType := http.DetectContentType(data)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, &UploadError{Path: ext, Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	if ext == "" {
		ext = ".png"
	}

	return Image{
		DataURL:  imaging.EncodeDataURI(data, mimeType),
		Width:    cfg.Width,
		Height:   cfg.Height,
		Origin:   OriginUpload,
		FileName: fmt.Sprintf("upload_%d%s", time.Now().Unix(), ext),
	}, nil
}
