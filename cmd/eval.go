package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/lotverify/docscan/internal/config"
	"github.com/lotverify/docscan/internal/eval/dataset"
	"github.com/lotverify/docscan/internal/eval/metrics"
	"github.com/lotverify/docscan/internal/eval/results"
	"github.com/lotverify/docscan/internal/gateway"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	var (
		datasetPath string
		sampleSize  int
		provider    string
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate recognition accuracy against a labeled dataset",
		Long: `Runs every labeled document image in the dataset through the configured
recognizer, scores the extracted fields against the labels, and saves a YAML
report under evals/.

Datasets are Parquet or JSONL files with image_path, category, top_text,
bottom_text, and document_number columns.`,
		Example: `  # Evaluate the remote service against a labeled set
  docscan eval --dataset labels.parquet

  # Evaluate the Gemini provider on a 20-document sample
  docscan eval --dataset labels.jsonl --sample-size 20 --provider gemini`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := config.Load()
			if provider != "" {
				cfg.Provider = provider
			}

			client := gateway.NewClient(cfg.APIBaseURL, cfg.APIToken, cfg.Timeout)
			recognizer, err := buildRecognizer(cfg, client)
			if err != nil {
				return err
			}

			docs, err := dataset.NewLoader(datasetPath).Load()
			if err != nil {
				return err
			}
			if sampleSize > 0 && sampleSize < len(docs) {
				docs = docs[:sampleSize]
			}

			slog.Info("Starting evaluation", "provider", cfg.Provider, "documents", len(docs))

			evalResults := make([]metrics.EvaluationResult, 0, len(docs))
			for i, doc := range docs {
				result := metrics.EvaluationResult{
					Identifier: doc.Identifier(),
					ImagePath:  doc.ImagePath,
					Category:   doc.Category,
				}

				data, err := os.ReadFile(doc.ImagePath)
				if err != nil {
					result.Error = fmt.Sprintf("failed to read image: %v", err)
					evalResults = append(evalResults, result)
					continue
				}

				scan, _, err := recognizer.Recognize(ctx, data, http.DetectContentType(data), filepath.Base(doc.ImagePath))
				if err != nil {
					result.Error = err.Error()
					evalResults = append(evalResults, result)
					continue
				}

				result.Comparison = metrics.CompareScanFields(scan, doc)
				evalResults = append(evalResults, result)

				slog.Info("Evaluated document",
					"progress", fmt.Sprintf("%d/%d", i+1, len(docs)),
					"identifier", result.Identifier,
					"score", fmt.Sprintf("%.3f", result.Comparison.OverallScore))
			}

			model := cfg.GeminiModel
			switch cfg.Provider {
			case "remote":
				model = "remote"
			case "ollama":
				model = cfg.OllamaModel
			}

			aggregate := metrics.Aggregate(evalResults, cfg.Provider, model)
			aggregate.PrintSummary()

			path, err := results.SaveToYAML(cfg.Provider, model, datasetPath, len(docs), evalResults)
			if err != nil {
				return err
			}
			slog.Info("Saved evaluation report", "path", path)

			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to the labeled dataset (.parquet or .jsonl)")
	cmd.Flags().IntVar(&sampleSize, "sample-size", 0, "Evaluate only the first N documents (0 = all)")
	cmd.Flags().StringVar(&provider, "provider", "", "Recognition provider: remote, gemini, or ollama")
	if err := cmd.MarkFlagRequired("dataset"); err != nil {
		panic(err)
	}

	return cmd
}
