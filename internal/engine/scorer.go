package engine

import (
	"fmt"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

// Scorer computes the similarity of two contents, in [0,1] with 1.0 for
// identical input. Implementations must be symmetric, deterministic and safe
// for concurrent use.
type Scorer interface {
	Score(a, b string) float64
	Name() string
}

// NewScorer returns the scorer for a metric. The choice is made once per
// run and the scorer is injected into the worker pool.
func NewScorer(metric types.Metric) (Scorer, error) {
	switch metric {
	case types.MetricLevenshtein:
		return LevenshteinScorer{}, nil
	case types.MetricDamerauLevenshtein:
		return DamerauLevenshteinScorer{}, nil
	default:
		return nil, fmt.Errorf("no scorer for metric %s", metric)
	}
}

// LevenshteinScorer scores by insertions, deletions and substitutions
type LevenshteinScorer struct{}

func (LevenshteinScorer) Name() string { return types.MetricLevenshtein.String() }

// Score implements Scorer
func (LevenshteinScorer) Score(a, b string) float64 {
	return normalized(a, b, edlib.LevenshteinDistance)
}

// DamerauLevenshteinScorer also counts a swap of two adjacent characters
// as one edit, so "teh" and "the" are one edit apart instead of two. It is
// an order of magnitude slower than LevenshteinScorer on long inputs.
type DamerauLevenshteinScorer struct{}

func (DamerauLevenshteinScorer) Name() string { return types.MetricDamerauLevenshtein.String() }

// Score implements Scorer
func (DamerauLevenshteinScorer) Score(a, b string) float64 {
	return normalized(a, b, edlib.DamerauLevenshteinDistance)
}

// ScoreFunc adapts a plain function to the Scorer interface
type ScoreFunc func(a, b string) float64

// Score implements Scorer
func (f ScoreFunc) Score(a, b string) float64 { return f(a, b) }

func (f ScoreFunc) Name() string { return "func" }

// normalized turns an edit distance into 1 - distance/longest, where lengths
// are counted in runes since the distance functions work on runes
func normalized(a, b string, distance func(string, string) int) float64 {
	if a == b {
		return 1.0
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(distance(a, b))/float64(longest)
}
