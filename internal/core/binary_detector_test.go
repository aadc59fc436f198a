package core

import (
	"strings"
	"testing"
)

func TestBinaryDetector_IsBinaryByExtension(t *testing.T) {
	bd := NewBinaryDetector()

	tests := []struct {
		path   string
		binary bool
	}{
		{"/subs/a/main.exe", true},
		{"/subs/a/Main.class", true},
		{"/subs/a/report.pdf", true},
		{"/subs/a/archive.zip", true},
		{"/subs/a/mod.pyc", true},
		{"/subs/a/IMAGE.PNG", true},

		{"/subs/a/main.go", false},
		{"/subs/a/main.c", false},
		{"/subs/a/solution.py", false},
		{"/subs/a/README", false},
		{"/subs/a/data.json", false},
		{"/subs/a/app.min.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := bd.IsBinaryByExtension(tt.path); got != tt.binary {
				t.Errorf("IsBinaryByExtension(%q) = %v, want %v", tt.path, got, tt.binary)
			}
		})
	}
}

func TestBinaryDetector_IsBinaryByMagicNumber(t *testing.T) {
	bd := NewBinaryDetector()

	tests := []struct {
		name    string
		content []byte
		binary  bool
	}{
		{"empty", nil, false},
		{"source", []byte("int main(void) {\n\treturn 0;\n}\n"), false},
		{"utf-8 text", []byte("größe := 1 // ünïcödé"), false},
		{"utf-16 with bom", []byte{0xFF, 0xFE, 'a', 0, 'b', 0, 'c', 0}, false},
		{"elf", []byte{0x7F, 'E', 'L', 'F', 2, 1, 1}, true},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n'}, true},
		{"zip", []byte{'P', 'K', 3, 4, 0, 0}, true},
		{"nul bytes", []byte("abc\x00def"), true},
		{"control heavy", []byte(strings.Repeat("\x01\x02\x03a", 20)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bd.IsBinaryByMagicNumber(tt.content); got != tt.binary {
				t.Errorf("IsBinaryByMagicNumber(%q) = %v, want %v", tt.content, got, tt.binary)
			}
		})
	}
}

func TestBinaryDetector_IsBinary(t *testing.T) {
	bd := NewBinaryDetector()

	if !bd.IsBinary("/x/program.exe", []byte("text")) {
		t.Error("extension alone should mark .exe as binary")
	}
	if !bd.IsBinary("/x/notes", []byte{0x7F, 'E', 'L', 'F'}) {
		t.Error("magic number should mark extensionless ELF as binary")
	}
	if bd.IsBinary("/x/main.go", []byte("package main")) {
		t.Error("go source is text")
	}
}
