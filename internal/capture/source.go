// Package capture produces the single in-memory document image the workflow
// operates on, from either a live camera stream or an operator-selected file.
package capture

import (
	"fmt"

	// Uploads may arrive in any common raster format.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Origin tags where an image came from. It is metadata only: activation order,
// not origin, decides which image is current.
type Origin string

const (
	OriginCamera Origin = "camera"
	OriginUpload Origin = "upload"
)

// Image is a captured document image: a displayable data URL plus its native
// pixel dimensions. Images are replaced wholesale on retake, never mutated.
type Image struct {
	DataURL  string `json:"data_url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Origin   Origin `json:"origin"`
	FileName string `json:"file_name"`
}

// DeviceError reports a camera access or device failure. The operator may
// retry; the workflow stays in its prior state.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("camera %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// UploadError reports a failed file-upload read.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
