package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lotverify/docscan/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier   string             `yaml:"identifier"`
	ImagePath    string             `yaml:"imagepath"`
	Category     string             `yaml:"category"`
	OverallScore float64            `yaml:"overallscore"`
	FieldScores  map[string]float64 `yaml:"fieldscores"`
	Error        string             `yaml:"error,omitempty"`
}

// EvalSpec represents the complete evaluation report
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Results []EvalResult `yaml:"results"`
}

// SaveToYAML saves evaluation results to a YAML file in the evals/ directory.
func SaveToYAML(provider, model, datasetPath string, sampleSize int, results []metrics.EvaluationResult) (string, error) {
	if err := os.MkdirAll("evals", 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")

	spec := EvalSpec{
		Config: EvalConfig{
			Provider:    provider,
			Model:       model,
			DatasetPath: datasetPath,
			SampleSize:  sampleSize,
			Timestamp:   timestamp,
		},
		Results: make([]EvalResult, 0, len(results)),
	}

	for _, r := range results {
		evalResult := EvalResult{
			Identifier: r.Identifier,
			ImagePath:  r.ImagePath,
			Category:   r.Category,
			Error:      r.Error,
		}
		if r.Comparison != nil {
			evalResult.OverallScore = r.Comparison.OverallScore
			evalResult.FieldScores = r.Comparison.FieldScores
		}
		spec.Results = append(spec.Results, evalResult)
	}

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal eval results: %w", err)
	}

	path := filepath.Join("evals", fmt.Sprintf("eval_%s_%s.yaml", provider, timestamp))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write eval results: %w", err)
	}

	return path, nil
}
