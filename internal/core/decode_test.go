package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		want     string
		encoding string
	}{
		{"utf-8", []byte("héllo"), "héllo", EncodingUTF8},
		{"empty", []byte{}, "", EncodingUTF8},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "hi"...), "hi", EncodingUTF8BOM},
		{"utf-16le", []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00}, "hi", EncodingUTF16LE},
		{"utf-16be", []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'}, "hi", EncodingUTF16BE},
		{"windows-1252", []byte{'n', 'a', 0xEF, 'v', 'e', ' ', 0x93, 'q', 0x94}, "naïve “q”", EncodingWindows1252},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := DecodeText(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.encoding, enc)
		})
	}
}
