package recognize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"github.com/lotverify/docscan/internal/gateway"
	"google.golang.org/api/option"
)

// Gemini extracts document fields directly with a Gemini vision model.
type Gemini struct {
	apiKey string
	model  string
}

// NewGemini returns a Gemini provider.
func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{apiKey: apiKey, model: model}
}

// Recognize sends the image to Gemini and parses the structured reply.
func (g *Gemini) Recognize(ctx context.Context, imageBytes []byte, mimeType, fileName string) (*gateway.ScanResult, string, error) {
	if g.apiKey == "" {
		return nil, "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(mimeSubtype(mimeType), imageBytes),
		genai.Text(buildScanPrompt()),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, "", fmt.Errorf("empty content returned from Gemini")
	}

	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return nil, "", fmt.Errorf("unexpected response format from Gemini")
	}

	result, err := parseScanResult(string(txt))
	if err != nil {
		return nil, "", err
	}

	slog.Info("Extracted document fields", "provider", "gemini", "model", g.model, "category", result.Category)
	return result, "Processing successful!", nil
}
