package latin1

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	raw := []byte{'Z', 0xFC, 'r', 'i', 'c', 'h', ';', 'G', 'e', 'n', 0xE8, 'v', 'e'}

	s, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Zürich;Genève", s)

	back, err := Encode(s)
	require.NoError(t, err)
	assert.Equal(t, raw, back)
}

func TestEncodeRejectsUnrepresentableRunes(t *testing.T) {
	_, err := Encode("Zürich €")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode ISO-8859-1")
}

func TestStreamingReader(t *testing.T) {
	buf := bytes.NewReader([]byte{'D', 'e', 'l', 0xE9, 'm', 'o', 'n', 't', '\n'})

	out, err := io.ReadAll(NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, "Delémont\n", string(out))
}
