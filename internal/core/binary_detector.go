// Binary file detection for early rejection of non-text submissions
package core

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

// magicNumbers are file signatures that always mean binary content
var magicNumbers = []struct {
	name   string
	prefix []byte
}{
	{"gzip", []byte{0x1F, 0x8B}},
	{"zip", []byte{0x50, 0x4B, 0x03, 0x04}},
	{"zip (empty)", []byte{0x50, 0x4B, 0x05, 0x06}},
	{"png", []byte{0x89, 0x50, 0x4E, 0x47}},
	{"jpeg", []byte{0xFF, 0xD8, 0xFF}},
	{"gif", []byte{0x47, 0x49, 0x46, 0x38}},
	{"pdf", []byte{0x25, 0x50, 0x44, 0x46}},
	{"elf", []byte{0x7F, 0x45, 0x4C, 0x46}},
	{"pe", []byte{0x4D, 0x5A}},
	{"mach-o / java class", []byte{0xCA, 0xFE, 0xBA, 0xBE}},
	{"woff", []byte{0x77, 0x4F, 0x46, 0x46}},
	{"woff2", []byte{0x77, 0x4F, 0x46, 0x32}},
}

// BinaryDetector decides whether a submission is something other than text
type BinaryDetector struct {
	binaryExtensions map[string]bool
}

// NewBinaryDetector creates a detector covering the formats students most
// often hand in by mistake: compiled output, archives, office documents.
func NewBinaryDetector() *BinaryDetector {
	exts := []string{
		// Compiled output
		".exe", ".dll", ".so", ".dylib", ".a", ".o", ".obj", ".bin",
		".class", ".jar", ".pyc", ".pyo", ".wasm",
		// Archives
		".zip", ".tar", ".gz", ".bz2", ".xz", ".7z", ".rar",
		// Documents
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".odt",
		// Images and media
		".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".webp", ".tif", ".tiff",
		".mp3", ".mp4", ".wav", ".mov", ".avi",
		// Data
		".db", ".sqlite", ".sqlite3", ".pickle", ".pkl",
	}

	m := make(map[string]bool, len(exts))
	for _, ext := range exts {
		m[ext] = true
	}
	return &BinaryDetector{binaryExtensions: m}
}

// IsBinaryByExtension checks if a file is binary based on its extension
func (bd *BinaryDetector) IsBinaryByExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return bd.binaryExtensions[ext]
}

// IsBinaryByMagicNumber checks the first bytes of content for binary signatures,
// then falls back to a control-character heuristic
func (bd *BinaryDetector) IsBinaryByMagicNumber(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	sample := content[:min(len(content), types.BinaryPreCheckBytes)]

	// UTF-16 text legitimately contains NUL bytes; the decoder handles it
	if hasUTF16BOM(sample) {
		return false
	}

	for _, sig := range magicNumbers {
		if bytes.HasPrefix(sample, sig.prefix) {
			return true
		}
	}

	nullBytes := 0
	nonPrintable := 0
	for _, b := range sample {
		if b == 0 {
			nullBytes++
		}
		// High bytes may be UTF-8 or a legacy code page, so only C0 controls count
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonPrintable++
		}
	}

	// More than 1% NUL bytes
	if nullBytes > len(sample)/100 {
		return true
	}

	// More than 30% control characters
	return nonPrintable > len(sample)*30/100
}

// IsBinary combines extension and content checks
func (bd *BinaryDetector) IsBinary(path string, content []byte) bool {
	if bd.IsBinaryByExtension(path) {
		return true
	}
	return bd.IsBinaryByMagicNumber(content)
}
