package metrics

import (
	"fmt"
	"time"
)

// EvaluationResult is the outcome of evaluating one labeled document.
type EvaluationResult struct {
	Identifier string
	ImagePath  string
	Category   string
	Comparison *DocumentComparison
	Error      string
}

// AggregateResults summarizes an evaluation run.
type AggregateResults struct {
	Provider         string
	Model            string
	TotalDocuments   int
	Succeeded        int
	Failed           int
	AverageScore     float64
	CategoryAccuracy float64
	Timestamp        time.Time
}

// Aggregate rolls individual evaluation results into run-level statistics.
func Aggregate(results []EvaluationResult, provider, model string) *AggregateResults {
	agg := &AggregateResults{
		Provider:       provider,
		Model:          model,
		TotalDocuments: len(results),
		Timestamp:      time.Now(),
	}

	var scoreTotal float64
	var categoryExact int

	for _, r := range results {
		if r.Error != "" || r.Comparison == nil {
			agg.Failed++
			continue
		}
		agg.Succeeded++
		scoreTotal += r.Comparison.OverallScore
		if r.Comparison.CategoryMatch.Method == "exact" {
			categoryExact++
		}
	}

	if agg.Succeeded > 0 {
		agg.AverageScore = scoreTotal / float64(agg.Succeeded)
		agg.CategoryAccuracy = float64(categoryExact) / float64(agg.Succeeded)
	}

	return agg
}

// PrintSummary writes a human-readable run summary to stdout.
func (a *AggregateResults) PrintSummary() {
	fmt.Println()
	fmt.Println("=== Evaluation Summary ===")
	fmt.Printf("Provider:          %s\n", a.Provider)
	fmt.Printf("Model:             %s\n", a.Model)
	fmt.Printf("Documents:         %d\n", a.TotalDocuments)
	fmt.Printf("Succeeded:         %d\n", a.Succeeded)
	fmt.Printf("Failed:            %d\n", a.Failed)
	fmt.Printf("Average score:     %.3f\n", a.AverageScore)
	fmt.Printf("Category accuracy: %.1f%%\n", a.CategoryAccuracy*100)
}
