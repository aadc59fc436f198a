package core

import (
	"context"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/cheatcheck/internal/debug"
	ccerrors "github.com/standardbeagle/cheatcheck/internal/errors"
	"github.com/standardbeagle/cheatcheck/internal/types"
)

// FileLoader reads resolved files into a ContentStore. A file that cannot
// be read, is binary, is too large or fails preprocessing is excluded with
// an error in the result; it never aborts loading of the other files.
type FileLoader struct {
	maxFileSize    int64
	skipBinary     bool
	preprocessors  []Preprocessor
	binaryDetector *BinaryDetector

	template *FileContent
}

// FileLoaderOptions configures the file loader
type FileLoaderOptions struct {
	MaxFileSize   int64
	SkipBinary    bool
	Preprocessors []Preprocessor
}

// LoadResult contains the results of loading a batch of files
type LoadResult struct {
	Store      *ContentStore
	Failed     []error        // one *errors.FileError per excluded file
	Templated  []types.FileID // files identical to the template
	Encodings  map[types.FileID]string
	TotalFiles int
}

// NewFileLoader creates a new file loader
func NewFileLoader(opts FileLoaderOptions) *FileLoader {
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = types.DefaultMaxFileSize
	}

	return &FileLoader{
		maxFileSize:    maxSize,
		skipBinary:     opts.SkipBinary,
		preprocessors:  opts.Preprocessors,
		binaryDetector: NewBinaryDetector(),
	}
}

// SetTemplate loads the template file through the same pipeline as the
// submissions. Files whose processed content equals the template's are
// left out of the comparison.
func (fl *FileLoader) SetTemplate(ctx context.Context, path string) error {
	id, err := Canonicalize(path)
	if err != nil {
		return ccerrors.NewFileError("resolve", path, err)
	}

	content, _, err := fl.loadOne(ctx, id)
	if err != nil {
		return err
	}

	fl.template = newFileContent(id, content)
	debug.LogLoad("template %s loaded (%d bytes)\n", id, len(content))
	return nil
}

// LoadFiles loads ids sequentially and freezes them into a ContentStore
func (fl *FileLoader) LoadFiles(ctx context.Context, ids []types.FileID) (*LoadResult, error) {
	result := &LoadResult{
		TotalFiles: len(ids),
		Encodings:  make(map[types.FileID]string, len(ids)),
	}
	builder := NewContentStoreBuilder()

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if fl.template != nil && id == fl.template.ID {
			debug.LogLoad("skipping %s: it is the template\n", id)
			result.Templated = append(result.Templated, id)
			continue
		}

		content, encoding, err := fl.loadOne(ctx, id)
		if err != nil {
			result.Failed = append(result.Failed, err)
			continue
		}

		if fl.matchesTemplate(content) {
			debug.LogLoad("skipping %s: identical to template\n", id)
			result.Templated = append(result.Templated, id)
			continue
		}

		if err := builder.Add(id, content); err != nil {
			result.Failed = append(result.Failed, ccerrors.NewRejectedFileError("store", string(id), err))
			continue
		}
		result.Encodings[id] = encoding
	}

	result.Store = builder.Build()
	debug.LogLoad("loaded %d of %d files (%d failed, %d template copies)\n",
		result.Store.Len(), result.TotalFiles, len(result.Failed), len(result.Templated))
	return result, nil
}

func (fl *FileLoader) matchesTemplate(content string) bool {
	if fl.template == nil {
		return false
	}
	return xxhash.Sum64String(content) == fl.template.FastHash && content == fl.template.Content
}

// loadOne reads, checks, decodes and preprocesses a single file
func (fl *FileLoader) loadOne(ctx context.Context, id types.FileID) (string, string, error) {
	path := string(id)

	info, err := os.Stat(path)
	if err != nil {
		return "", "", ccerrors.NewFileError("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", "", ccerrors.NewRejectedFileError("load", path, fmt.Errorf("not a regular file"))
	}
	if info.Size() > fl.maxFileSize {
		return "", "", ccerrors.NewRejectedFileError("load", path,
			fmt.Errorf("file size %d exceeds limit %d", info.Size(), fl.maxFileSize))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", ccerrors.NewFileError("read", path, err)
	}

	if fl.skipBinary && fl.binaryDetector.IsBinary(path, raw) {
		return "", "", ccerrors.NewRejectedFileError("load", path, fmt.Errorf("binary content"))
	}

	content, encoding, err := DecodeText(raw)
	if err != nil {
		return "", "", ccerrors.NewRejectedFileError("decode", path, err)
	}
	if encoding != EncodingUTF8 {
		debug.LogLoad("%s decoded as %s\n", path, encoding)
	}

	for _, p := range fl.preprocessors {
		content, err = p.Process(ctx, path, content)
		if err != nil {
			return "", "", ccerrors.NewRejectedFileError(p.Name(), path, err)
		}
	}

	return content, encoding, nil
}
