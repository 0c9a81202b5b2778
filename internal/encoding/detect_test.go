package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/encoding"
)

func decode(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Date,Description,Amount\n2024-03-01,Café déjeuner,-12.50\n"
	assert.Equal(t, input, decode(t, []byte(input)))
}

func TestNewUTF8Reader_UTF8BOMStripped(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := "Date,Amount\n"

	assert.Equal(t, content, decode(t, append(bom, content...)))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// "Date\n" as UTF-16 LE with BOM.
	input := []byte{
		0xFF, 0xFE,
		'D', 0x00, 'a', 0x00, 't', 0x00, 'e', 0x00, '\n', 0x00,
	}

	assert.Equal(t, "Date\n", decode(t, input))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// "Café,-4.50\n" in Windows-1252: é = 0xE9.
	input := []byte{'C', 'a', 'f', 0xE9, ',', '-', '4', '.', '5', '0', '\n'}

	assert.Equal(t, "Café,-4.50\n", decode(t, input))
}
