package core

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripWhitespace(t *testing.T) {
	assert.Equal(t, "intmain(){return0;}", StripWhitespace("int main() {\n\treturn 0;\r\n}\n"))
	assert.Equal(t, "ab", StripWhitespace("a  b"), "unicode spaces are stripped too")
	assert.Equal(t, "", StripWhitespace(" \t\n"))
}

func TestWhitespaceTrimmer(t *testing.T) {
	var p Preprocessor = WhitespaceTrimmer{}
	out, err := p.Process(context.Background(), "/x", "a b")
	require.NoError(t, err)
	assert.Equal(t, "ab", out)
	assert.Equal(t, "trim", p.Name())
}

func TestNewCommandFormatter(t *testing.T) {
	_, err := NewCommandFormatter("   ")
	assert.Error(t, err)

	_, err = NewCommandFormatter("definitely-not-a-real-formatter-binary --flag")
	assert.Error(t, err)
}

func TestCommandFormatter_Process(t *testing.T) {
	if _, err := exec.LookPath("tr"); err != nil {
		t.Skip("tr not available")
	}

	f, err := NewCommandFormatter("tr a-z A-Z")
	require.NoError(t, err)
	assert.Equal(t, []string{"a-z", "A-Z"}, f.Args)

	out, err := f.Process(context.Background(), "/x.c", "int x;")
	require.NoError(t, err)
	assert.Equal(t, "INT X;", out)
}

func TestCommandFormatter_Failure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	f, err := NewCommandFormatter("false")
	require.NoError(t, err)

	_, err = f.Process(context.Background(), "/x.c", "int x;")
	assert.Error(t, err)
}
