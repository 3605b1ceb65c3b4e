package recognize

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lotverify/docscan/internal/gateway"
)

// Ollama extracts document fields with a local Ollama vision model.
type Ollama struct {
	host       string
	model      string
	httpClient *http.Client
}

// NewOllama returns an Ollama provider against the given host.
func NewOllama(host, model string) *Ollama {
	return &Ollama{
		host:  host,
		model: model,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Recognize sends the image to the Ollama generate API and parses the
// structured reply.
func (o *Ollama) Recognize(ctx context.Context, imageBytes []byte, mimeType, fileName string) (*gateway.ScanResult, string, error) {
	requestBody := map[string]any{
		"model":  o.model,
		"prompt": buildScanPrompt(),
		"images": []string{base64.StdEncoding.EncodeToString(imageBytes)},
		"stream": false,
		"options": map[string]any{
			"temperature": 0.0,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal recognition request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create recognition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to call Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("ollama API returned status %d: %s", resp.StatusCode, string(body))
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, "", fmt.Errorf("failed to decode Ollama response: %w", err)
	}

	result, err := parseScanResult(ollamaResp.Response)
	if err != nil {
		return nil, "", err
	}

	slog.Info("Extracted document fields", "provider", "ollama", "model", o.model, "category", result.Category)
	return result, "Processing successful!", nil
}
