package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/cheatcheck/internal/debug"
	ccerrors "github.com/standardbeagle/cheatcheck/internal/errors"
	"github.com/standardbeagle/cheatcheck/internal/types"
)

// Resolution is the outcome of expanding input patterns into files
type Resolution struct {
	Files    []types.FileID // canonical, deduplicated, sorted
	Excluded []string       // paths dropped by exclusion patterns
	Warnings []error        // per-pattern problems; never fatal on their own
}

// FileResolver expands literal paths and glob patterns into canonical file IDs
type FileResolver struct {
	exclude []string
}

// NewFileResolver creates a resolver that drops anything matching exclude
// (doublestar syntax, matched against both the path as found and its
// canonical absolute form)
func NewFileResolver(exclude []string) *FileResolver {
	return &FileResolver{exclude: slices.Clone(exclude)}
}

// Resolve expands every pattern. Invalid patterns and patterns matching no
// files become warnings, and resolution continues with the remaining ones.
// The same file reached through different patterns, relative paths or
// symlinks is returned once.
func (r *FileResolver) Resolve(patterns []string) *Resolution {
	res := &Resolution{}
	seen := make(map[types.FileID]bool)

	for _, pattern := range patterns {
		matches, err := r.expand(pattern)
		if err != nil {
			res.Warnings = append(res.Warnings, ccerrors.NewPatternError(pattern, err))
			continue
		}

		added := 0
		for _, path := range matches {
			if r.isExcluded(path) {
				res.Excluded = append(res.Excluded, path)
				continue
			}

			id, err := Canonicalize(path)
			if err != nil {
				res.Warnings = append(res.Warnings, ccerrors.NewFileError("resolve", path, err))
				continue
			}
			if id != types.FileID(path) && r.isExcluded(string(id)) {
				res.Excluded = append(res.Excluded, path)
				continue
			}

			ok, err := isRegularFile(string(id))
			if err != nil {
				res.Warnings = append(res.Warnings, ccerrors.NewFileError("stat", path, err))
				continue
			}
			if !ok {
				debug.LogLoad("skipping %s: not a regular file\n", path)
				continue
			}

			added++
			if seen[id] {
				continue
			}
			seen[id] = true
			res.Files = append(res.Files, id)
		}

		if added == 0 {
			res.Warnings = append(res.Warnings, fmt.Errorf("%q didn't match any files", pattern))
		}
	}

	slices.Sort(res.Files)
	debug.LogLoad("resolved %d patterns into %d files (%d excluded)\n", len(patterns), len(res.Files), len(res.Excluded))
	return res
}

// expand returns the paths a single pattern refers to. An existing path is
// taken literally even if it contains glob metacharacters.
func (r *FileResolver) expand(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, errors.New("empty pattern")
	}
	if _, err := os.Lstat(pattern); err == nil {
		return []string{pattern}, nil
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, doublestar.ErrBadPattern
	}
	return doublestar.FilepathGlob(pattern)
}

func (r *FileResolver) isExcluded(path string) bool {
	slashed := filepath.ToSlash(path)
	// "**/x" style patterns should also hit absolute paths
	rooted := strings.TrimPrefix(slashed, "/")
	for _, pattern := range r.exclude {
		matched, err := doublestar.Match(pattern, slashed)
		if err != nil {
			// Patterns are validated with the config; a bad one never matches
			continue
		}
		if !matched && rooted != slashed {
			matched, _ = doublestar.Match(pattern, rooted)
		}
		if matched {
			return true
		}
	}
	return false
}

// Canonicalize converts a path into its FileID: absolute, cleaned and with
// symlinks resolved
func Canonicalize(path string) (types.FileID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return types.FileID(filepath.Clean(resolved)), nil
}

func isRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
