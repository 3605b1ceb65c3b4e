package metrics

import (
	"regexp"
	"strings"

	"github.com/lotverify/docscan/internal/eval/dataset"
	"github.com/lotverify/docscan/internal/gateway"
)

// FieldMatch represents the comparison result for a single extracted field.
type FieldMatch struct {
	Expected string
	Actual   string
	Score    float64 // 0.0 to 1.0
	Method   string  // "exact", "fuzzy", "missing"
}

// DocumentComparison represents field-level comparison of a recognition
// result against a labeled document.
type DocumentComparison struct {
	CategoryMatch FieldMatch
	TopMatch      FieldMatch
	BottomMatch   FieldMatch

	FieldScores  map[string]float64
	OverallScore float64
}

// CompareScanFields scores a recognition result against ground truth.
func CompareScanFields(result *gateway.ScanResult, doc dataset.LabeledDocument) *DocumentComparison {
	comparison := &DocumentComparison{
		CategoryMatch: compareField(doc.Category, result.Category),
		TopMatch:      compareField(doc.TopText, result.FormattedTop),
		BottomMatch:   compareField(doc.BottomText, result.FormattedBottom),
		FieldScores:   make(map[string]float64),
	}

	comparison.FieldScores["category"] = comparison.CategoryMatch.Score
	comparison.FieldScores["top_text"] = comparison.TopMatch.Score
	comparison.FieldScores["bottom_text"] = comparison.BottomMatch.Score

	total := 0.0
	count := 0
	for _, score := range comparison.FieldScores {
		total += score
		count++
	}
	if count > 0 {
		comparison.OverallScore = total / float64(count)
	}

	return comparison
}

// compareField scores one field: exact match after normalization scores 1.0,
// otherwise a Levenshtein-based similarity.
func compareField(expected, actual string) FieldMatch {
	match := FieldMatch{
		Expected: expected,
		Actual:   actual,
	}

	if expected == "" && actual == "" {
		match.Score = 1.0
		match.Method = "exact"
		return match
	}

	normExpected := normalizeForComparison(expected)
	normActual := normalizeForComparison(actual)

	if normActual == "" {
		match.Method = "missing"
		return match
	}

	if normExpected == normActual {
		match.Score = 1.0
		match.Method = "exact"
		return match
	}

	match.Score = calculateSimilarity(normExpected, normActual)
	match.Method = "fuzzy"
	return match
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)

// normalizeForComparison lowercases, strips punctuation, and collapses
// whitespace.
func normalizeForComparison(text string) string {
	text = strings.ToLower(text)
	text = nonAlphanumeric.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// calculateSimilarity returns a 0..1 similarity from Levenshtein distance.
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	distance := levenshteinDistance(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)

	for j := 0; j <= len(r2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
