package ovba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
)

func TestResolveCodePage(t *testing.T) {
	t.Parallel()

	for _, cp := range []uint16{437, 932, 936, 949, 950, 1200, 1252, 65001} {
		enc, err := ResolveCodePage(cp)
		require.NoError(t, err, "code page %d", cp)
		assert.NotNil(t, enc)
	}

	_, err := ResolveCodePage(42)
	require.ErrorIs(t, err, ErrUnsupportedCodePage)
}

func TestDecode_RoundTripShiftJIS(t *testing.T) {
	t.Parallel()

	enc, err := ResolveCodePage(932)
	require.NoError(t, err)

	// Encode a representable string, decode it, and re-encode: the bytes
	// must survive the round trip.
	text := "給与計算 Sub Main()"
	raw, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(text))
	require.NoError(t, err)

	decoded := Decode(raw, enc)
	assert.Equal(t, text, decoded)

	again, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(decoded))
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestDecode_InvalidBytesNeverFail(t *testing.T) {
	t.Parallel()

	enc, err := ResolveCodePage(932)
	require.NoError(t, err)

	// 0x81 opens a double-byte sequence; 0xFF cannot close one.
	out := Decode([]byte{0x81, 0xFF, 'o', 'k'}, enc)
	assert.Contains(t, out, "�")
	assert.Contains(t, out, "ok")
}

func TestDecode_NilEncodingFallsBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain", Decode([]byte("plain"), nil))
	assert.Empty(t, Decode(nil, nil))
}

func TestDecodeUTF16(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "VBAProject", DecodeUTF16(utf16le("VBAProject")))
	assert.Empty(t, DecodeUTF16(nil))
}
