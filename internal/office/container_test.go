package office

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipWith(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFromBytes_ZipWithoutMacros(t *testing.T) {
	t.Parallel()

	data := zipWith(t, map[string][]byte{
		"[Content_Types].xml": []byte("<Types/>"),
		"xl/workbook.xml":     []byte("<workbook/>"),
	})

	_, err := FromBytes(data)
	require.ErrorIs(t, err, ErrNoVBAProject)
}

func TestFromBytes_ZipWithCorruptVBAPart(t *testing.T) {
	t.Parallel()

	// The embedded part is named right but is not a compound file.
	data := zipWith(t, map[string][]byte{
		"xl/vbaProject.bin": []byte("not a compound file"),
	})

	_, err := FromBytes(data)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoVBAProject)
	assert.Contains(t, err.Error(), "xl/vbaProject.bin")
}

func TestFromBytes_NotAContainer(t *testing.T) {
	t.Parallel()

	_, err := FromBytes([]byte("plain text, neither zip nor OLE"))
	require.Error(t, err)
}

func TestProject_ModuleStreamCaseInsensitive(t *testing.T) {
	t.Parallel()

	p := &Project{streams: map[string][]byte{"module1": []byte("code")}}

	got, ok := p.ModuleStream("Module1")
	assert.True(t, ok)
	assert.Equal(t, []byte("code"), got)

	_, ok = p.ModuleStream("Missing")
	assert.False(t, ok)
}
