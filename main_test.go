package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/bankocr/internal/ocr/engine"
)

const cliScan = "    _  _     _  _  _  _  _ \n" +
	"  | _| _||_||_ |_   ||_||_|\n" +
	"  ||_  _|  | _||_|  ||_| _|\n" +
	"                           \n" +
	"  |  |  |  |  |  |  |  |  |\n" +
	"  |  |  |  |  |  |  |  |  |\n" +
	"    _  _        _  _  _  _ \n" +
	"  | _| _||_|   |_   ||_||_|\n" +
	"  ||_  _|  |   |_|  ||_| _|\n"

func executeDecode(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"decode"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestDecodeCommand(t *testing.T) {
	out, err := executeDecode(t, cliScan)
	require.NoError(t, err)
	assert.Equal(t, "123456789\n111111111\n1234?6789\n", out)
}

func TestDecodeCommandAnnotateAndMarker(t *testing.T) {
	out, err := executeDecode(t, cliScan, "--annotate", "--marker", "X")
	require.NoError(t, err)
	assert.Equal(t, "123456789\n111111111 ERR\n1234X6789 ILL\n", out)
}

func TestDecodeCommandEmptyInput(t *testing.T) {
	out, err := executeDecode(t, "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDecodeCommandMalformed(t *testing.T) {
	out, err := executeDecode(t, "abc\ndef\nghi\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrMalformedEntry))
	assert.Empty(t, out)
}

func TestDecodeCommandRejectsLongMarker(t *testing.T) {
	_, err := executeDecode(t, cliScan, "--marker", "??")
	require.Error(t, err)
}

func TestDecodeCommandRejectsDigitMarker(t *testing.T) {
	out, err := executeDecode(t, cliScan, "--marker", "5")
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestDecodeCommandTrailingBlankLines(t *testing.T) {
	out, err := executeDecode(t, cliScan+"\n\n\n\n")
	require.NoError(t, err)
	assert.Equal(t, "123456789\n111111111\n1234?6789\n", out)
}

func TestDecodeCommandMissingFile(t *testing.T) {
	_, err := executeDecode(t, "", "does-not-exist.txt")
	require.Error(t, err)
}
