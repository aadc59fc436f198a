package engine

import (
	"slices"

	ccerrors "github.com/standardbeagle/cheatcheck/internal/errors"
	"github.com/standardbeagle/cheatcheck/internal/types"
)

// GeneratePairs enumerates every unordered pair of distinct ids exactly once.
//
// The ids are sorted and deduplicated first, so the result depends only on
// the set of ids and never on the order they were supplied in. Fewer than
// two distinct ids is an InsufficientInputError.
func GeneratePairs(ids []types.FileID) ([]types.Pair, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	n := len(sorted)
	if n < types.MinFilesToCompare {
		return nil, ccerrors.NewInsufficientInputError(n)
	}

	pairs := make([]types.Pair, 0, PairCount(n))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p, _ := types.NewPair(sorted[i], sorted[j])
			pairs = append(pairs, p)
		}
	}
	return pairs, nil
}

// PairCount returns n(n-1)/2, the number of pairs among n files
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}
