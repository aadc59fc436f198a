package core

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names reported by DecodeText
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-bom"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingWindows1252 = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

func hasUTF16BOM(b []byte) bool {
	return bytes.HasPrefix(b, bomUTF16LE) || bytes.HasPrefix(b, bomUTF16BE)
}

// DecodeText turns raw file bytes into a UTF-8 string.
//
// A byte order mark selects UTF-8 or UTF-16 and is stripped. Without one,
// valid UTF-8 is used as is and anything else is read as Windows-1252, the
// code page most legacy editors fall back to. Windows-1252 maps every byte,
// so decoding never loses a file.
func DecodeText(raw []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return string(raw[len(bomUTF8):]), EncodingUTF8BOM, nil
	case bytes.HasPrefix(raw, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(), raw, EncodingUTF16LE)
	case bytes.HasPrefix(raw, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), raw, EncodingUTF16BE)
	case utf8.Valid(raw):
		return string(raw), EncodingUTF8, nil
	default:
		return decodeWith(charmap.Windows1252.NewDecoder(), raw, EncodingWindows1252)
	}
}

func decodeWith(t transform.Transformer, raw []byte, name string) (string, string, error) {
	out, _, err := transform.Bytes(t, raw)
	if err != nil {
		return "", name, fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), name, nil
}
