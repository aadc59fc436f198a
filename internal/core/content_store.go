package core

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

// FileContent is a stored file record with its pre-computed fast hash
type FileContent struct {
	types.FileRecord
	FastHash uint64 // xxhash for quick equality checks
}

func newFileContent(id types.FileID, content string) *FileContent {
	return &FileContent{
		FileRecord: types.FileRecord{ID: id, Content: content},
		FastHash:   xxhash.Sum64String(content),
	}
}

// SameContent reports whether two files hold byte-identical text.
// Differing hashes settle the answer without touching the content.
func (fc *FileContent) SameContent(other *FileContent) bool {
	return fc.FastHash == other.FastHash && fc.Content == other.Content
}

// ContentStore is an immutable mapping from FileID to loaded content.
// It is populated once by a ContentStoreBuilder and then only read, so
// concurrent readers need no locking.
type ContentStore struct {
	files map[types.FileID]*FileContent
	ids   []types.FileID // sorted ascending
}

// Get returns the content for id
func (s *ContentStore) Get(id types.FileID) (*FileContent, bool) {
	fc, ok := s.files[id]
	return fc, ok
}

// Content returns the text for id
func (s *ContentStore) Content(id types.FileID) (string, bool) {
	fc, ok := s.files[id]
	if !ok {
		return "", false
	}
	return fc.Content, true
}

// IDs returns every stored FileID in ascending order.
// The slice is a copy and may be modified by the caller.
func (s *ContentStore) IDs() []types.FileID {
	return slices.Clone(s.ids)
}

// Len returns the number of stored files
func (s *ContentStore) Len() int {
	return len(s.ids)
}

// TotalBytes returns the summed content size of all stored files
func (s *ContentStore) TotalBytes() int {
	total := 0
	for _, fc := range s.files {
		total += len(fc.Content)
	}
	return total
}

// ContentStoreBuilder collects files for a ContentStore.
//
// Example usage:
//
//	store := NewContentStoreBuilder().
//		WithFile("/subs/alice/main.go", "package main").
//		WithFile("/subs/bob/main.go", "package main").
//		Build()
type ContentStoreBuilder struct {
	files map[types.FileID]*FileContent
	built bool
	err   error
}

// NewContentStoreBuilder creates an empty builder
func NewContentStoreBuilder() *ContentStoreBuilder {
	return &ContentStoreBuilder{
		files: make(map[types.FileID]*FileContent),
	}
}

// Add stores content under id. Each id may be added once, and nothing may
// be added after Build.
func (b *ContentStoreBuilder) Add(id types.FileID, content string) error {
	if b.built {
		return fmt.Errorf("content store already built, cannot add %s", id)
	}
	if id == "" {
		return fmt.Errorf("empty file id")
	}
	if _, exists := b.files[id]; exists {
		return fmt.Errorf("duplicate file id %s", id)
	}

	b.files[id] = newFileContent(id, content)
	return nil
}

// WithFile is the fluent form of Add. The first error is kept and returned by BuildE.
func (b *ContentStoreBuilder) WithFile(path string, content string) *ContentStoreBuilder {
	if err := b.Add(types.FileID(path), content); err != nil && b.err == nil {
		b.err = err
	}
	return b
}

// Len returns the number of files added so far
func (b *ContentStoreBuilder) Len() int {
	return len(b.files)
}

// BuildE freezes the builder and returns the store, or the first WithFile error
func (b *ContentStoreBuilder) BuildE() (*ContentStore, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.Build(), nil
}

// Build freezes the builder and returns the store
func (b *ContentStoreBuilder) Build() *ContentStore {
	b.built = true

	ids := make([]types.FileID, 0, len(b.files))
	files := make(map[types.FileID]*FileContent, len(b.files))
	for id, fc := range b.files {
		ids = append(ids, id)
		files[id] = fc
	}
	slices.Sort(ids)

	return &ContentStore{files: files, ids: ids}
}
