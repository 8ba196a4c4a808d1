package batch

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSink(t *testing.T) {
	dir := t.TempDir()
	sink := DirSink{}
	target := filepath.Join(dir, "nested", "out.webp")

	assert.False(t, sink.Exists(target))

	stored, err := sink.Store(target, []byte("encoded"))
	require.NoError(t, err)
	assert.Equal(t, target, stored)
	assert.True(t, sink.Exists(target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("encoded"), data)
}

func TestArchiveSink_RenamesDuplicates(t *testing.T) {
	sink := NewArchiveSink()

	first, err := sink.Store("/tmp/a/photo.webp", []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, "photo.webp", first)

	second, err := sink.Store("/tmp/b/photo.webp", []byte("two"))
	require.NoError(t, err)
	assert.Equal(t, "photo_2.webp", second)

	assert.False(t, sink.Exists("photo.webp"))

	data, err := sink.Close()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	contents := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		contents[f.Name] = string(body)
	}

	assert.Equal(t, "one", contents["photo.webp"])
	assert.Equal(t, "two", contents["photo_2.webp"])
}

func TestArchiveSink_StoreAfterClose(t *testing.T) {
	sink := NewArchiveSink()

	_, err := sink.Close()
	require.NoError(t, err)

	_, err = sink.Store("late.webp", []byte("x"))
	require.Error(t, err)
}
