package imaging

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeDataURI converts a base64 data URI into its raw bytes and MIME type.
// Upload sources are not guaranteed well-formed, so malformed input is an
// error rather than a panic.
func DecodeDataURI(uri string) ([]byte, string, error) {
	header, payload, found := strings.Cut(uri, ",")
	if !found {
		return nil, "", fmt.Errorf("malformed data URI: missing comma separator")
	}

	if !strings.HasPrefix(header, "data:") {
		return nil, "", fmt.Errorf("malformed data URI: missing data: prefix")
	}

	// Header is data:<mime>;base64 — the MIME type sits between the scheme
	// and the first semicolon.
	meta := strings.TrimPrefix(header, "data:")
	mimeType, _, _ := strings.Cut(meta, ";")
	if mimeType == "" {
		return nil, "", fmt.Errorf("malformed data URI: missing MIME type")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URI payload: %w", err)
	}

	return data, mimeType, nil
}

// EncodeDataURI converts raw bytes into a base64 data URI with the given
// MIME type.
func EncodeDataURI(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
