package imaging

import (
	"bytes"
	"testing"
)

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		name      string
		uri       string
		wantBytes []byte
		wantMIME  string
		wantErr   bool
	}{
		{
			name:      "valid png",
			uri:       "data:image/png;base64,aGVsbG8=",
			wantBytes: []byte("hello"),
			wantMIME:  "image/png",
		},
		{
			name:      "valid jpeg",
			uri:       "data:image/jpeg;base64,d29ybGQ=",
			wantBytes: []byte("world"),
			wantMIME:  "image/jpeg",
		},
		{
			name:    "missing comma",
			uri:     "data:image/png;base64",
			wantErr: true,
		},
		{
			name:    "missing data prefix",
			uri:     "image/png;base64,aGVsbG8=",
			wantErr: true,
		},
		{
			name:    "missing mime type",
			uri:     "data:;base64,aGVsbG8=",
			wantErr: true,
		},
		{
			name:    "invalid base64",
			uri:     "data:image/png;base64,not-base64!!!",
			wantErr: true,
		},
		{
			name:    "empty string",
			uri:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, mimeType, err := DecodeDataURI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got bytes %q mime %q", data, mimeType)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !bytes.Equal(data, tt.wantBytes) {
				t.Errorf("Expected bytes %q, got %q", tt.wantBytes, data)
			}
			if mimeType != tt.wantMIME {
				t.Errorf("Expected MIME %q, got %q", tt.wantMIME, mimeType)
			}
		})
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x01, 0x02, 0xff}
	uri := EncodeDataURI(raw, "image/png")

	data, mimeType, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Errorf("Round trip changed bytes: got %v, want %v", data, raw)
	}
	if mimeType != "image/png" {
		t.Errorf("Round trip changed MIME: got %q", mimeType)
	}
}
