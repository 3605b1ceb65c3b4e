// Package recognize abstracts over recognition providers: the remote
// service is the default, with direct vision-model providers (Gemini,
// Ollama) available for offline field extraction.
package recognize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lotverify/docscan/internal/gateway"
)

// Recognizer extracts structured document fields from an image.
type Recognizer interface {
	Recognize(ctx context.Context, imageBytes []byte, mimeType, fileName string) (*gateway.ScanResult, string, error)
}

// Verifier submits a verification decision for a recognized document.
type Verifier interface {
	SubmitVerification(ctx context.Context, resultID int, categoryName string) (string, error)
}

// Backend composes a recognizer with a verifier into a workflow backend.
// Direct providers produce results with no server-side identifier, so
// verification is only meaningful with the remote verifier.
type Backend struct {
	Recognizer Recognizer
	Verifier   Verifier
}

func (b Backend) SubmitForRecognition(ctx context.Context, imageBytes []byte, mimeType, fileName string) (*gateway.ScanResult, string, error) {
	return b.Recognizer.Recognize(ctx, imageBytes, mimeType, fileName)
}

func (b Backend) SubmitVerification(ctx context.Context, resultID int, categoryName string) (string, error) {
	if b.Verifier == nil {
		return "", &gateway.APIError{
			Reason: "Verification requires the remote recognition service.",
			Cause:  gateway.CauseApplication,
		}
	}
	return b.Verifier.SubmitVerification(ctx, resultID, categoryName)
}

// Remote adapts the gateway client to the Recognizer interface.
type Remote struct {
	Client *gateway.Client
}

func (r Remote) Recognize(ctx context.Context, imageBytes []byte, mimeType, fileName string) (*gateway.ScanResult, string, error) {
	return r.Client.SubmitForRecognition(ctx, imageBytes, mimeType, fileName)
}

func buildScanPrompt() string {
	return `You are reading a photographed product batch document.

Extract the printed fields and respond with ONLY a JSON object in this exact shape:

{
  "formatted_top": "<the top text line, formatted as printed>",
  "formatted_bottom": "<the bottom text line, formatted as printed>",
  "category": "<the document category label>",
  "status": "<ok or unreadable>",
  "message": "<one short sentence describing the read>"
}

Rules:
1. Transcribe text exactly as printed, including punctuation
2. Use "unreadable" for status only when a field cannot be read at all
3. Do not include markdown fences, commentary, or any text outside the JSON object`
}

// parseScanResult extracts a ScanResult from a vision model's reply. Models
// occasionally wrap JSON in code fences despite instructions, so fences are
// stripped before decoding.
func parseScanResult(text string) (*gateway.ScanResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var result gateway.ScanResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("failed to parse model response as scan result: %w", err)
	}
	return &result, nil
}

// mimeSubtype converts an image MIME type to the bare format name vision
// APIs expect ("image/png" -> "png").
func mimeSubtype(mimeType string) string {
	if _, sub, found := strings.Cut(mimeType, "/"); found {
		return sub
	}
	return mimeType
}
