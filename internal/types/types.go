package types

import (
	"fmt"
	"strings"
)

// Common system-wide constants
const (
	// File size limits
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB per file
	// Rationale: a submission larger than this is almost always generated
	// output or a stray binary, and the quadratic edit distance would make a
	// single comparison run for minutes.

	// Binary detection sample size
	BinaryPreCheckBytes = 512 // Number of bytes inspected for binary magic numbers

	// MinFilesToCompare is the smallest batch that yields at least one pair
	MinFilesToCompare = 2

	// UnboundedMaxSensitivity disables the upper bound of the reportable range.
	// Any value above 1.0 works since scores never exceed 1.0.
	UnboundedMaxSensitivity = 2.0
)

// FileID identifies a loaded file by its canonical absolute path.
// Ordering is plain byte-wise string comparison, which is total and stable
// for the lifetime of a run.
type FileID string

// String returns the path form of the identifier
func (id FileID) String() string {
	return string(id)
}

// Less reports whether id orders strictly before other
func (id FileID) Less(other FileID) bool {
	return id < other
}

// FileRecord is a file's identifier and its loaded, preprocessed text.
// Records are immutable once stored in a ContentStore.
type FileRecord struct {
	ID      FileID
	Content string
}

// Pair is a canonical unordered pair of files. A < B always holds, so each
// unordered pair has exactly one representative and self-pairs cannot exist.
type Pair struct {
	A FileID
	B FileID
}

// NewPair builds the canonical pair for x and y regardless of argument order.
// It returns false when x == y since a file is never compared with itself.
func NewPair(x, y FileID) (Pair, bool) {
	switch {
	case x == y:
		return Pair{}, false
	case x.Less(y):
		return Pair{A: x, B: y}, true
	default:
		return Pair{A: y, B: x}, true
	}
}

// Less orders pairs lexicographically by A then B
func (p Pair) Less(other Pair) bool {
	if p.A != other.A {
		return p.A.Less(other.A)
	}
	return p.B.Less(other.B)
}

// Valid reports whether the pair satisfies the canonical A < B invariant
func (p Pair) Valid() bool {
	return p.A < p.B
}

func (p Pair) String() string {
	return fmt.Sprintf("(%s, %s)", p.A, p.B)
}

// ScoreRecord is the similarity of one pair, in [0,1] where 1.0 means the
// two contents are identical under the selected metric.
type ScoreRecord struct {
	Pair  Pair
	Score float64
}

// InRange reports whether the score falls inside the inclusive reportable range
func (r ScoreRecord) InRange(lower, upper float64) bool {
	return lower <= r.Score && r.Score <= upper
}

// Metric selects the edit distance used to score pairs
type Metric uint8

const (
	// MetricLevenshtein counts insertions, deletions and substitutions
	MetricLevenshtein Metric = iota
	// MetricDamerauLevenshtein additionally counts adjacent transpositions
	// as a single edit. Roughly 10-20x slower than MetricLevenshtein.
	MetricDamerauLevenshtein
)

func (m Metric) String() string {
	switch m {
	case MetricLevenshtein:
		return "levenshtein"
	case MetricDamerauLevenshtein:
		return "damerau"
	default:
		return "unknown"
	}
}

// ParseMetric converts a configuration string into a Metric
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "levenshtein", "lev":
		return MetricLevenshtein, nil
	case "damerau", "damerau-levenshtein", "damerau_levenshtein", "dl":
		return MetricDamerauLevenshtein, nil
	default:
		return MetricLevenshtein, fmt.Errorf("unknown metric %q (must be levenshtein or damerau)", s)
	}
}
