package discovery

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestIsJPEG(t *testing.T) {
	assert.True(t, IsJPEG("photo.jpg"))
	assert.True(t, IsJPEG("photo.JPEG"))
	assert.True(t, IsJPEG("photo.Jpg"))
	assert.False(t, IsJPEG("photo.png"))
	assert.False(t, IsJPEG("photo.jpg.txt"))
	assert.False(t, IsJPEG("photo"))
}

func TestDiscover_Recursion(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "1.jpg"))
	writeFile(t, filepath.Join(root, "a", "b", "2.jpeg"))
	writeFile(t, filepath.Join(root, "a", "c.txt"))

	flat := Discover([]string{filepath.Join(root, "a")}, false, discardLogger())
	require.Len(t, flat, 1)
	assert.Equal(t, "1.jpg", filepath.Base(flat[0]))

	deep := Discover([]string{filepath.Join(root, "a")}, true, discardLogger())
	require.Len(t, deep, 2)
	assert.Equal(t, "1.jpg", filepath.Base(deep[0]))
	assert.Equal(t, "2.jpeg", filepath.Base(deep[1]))
}

func TestDiscover_FileInputs(t *testing.T) {
	root := t.TempDir()
	jpg := filepath.Join(root, "photo.JPG")
	txt := filepath.Join(root, "notes.txt")
	writeFile(t, jpg)
	writeFile(t, txt)

	files := Discover([]string{jpg, txt, filepath.Join(root, "missing.jpg")}, false, discardLogger())
	require.Len(t, files, 1)
	assert.Equal(t, "photo.JPG", filepath.Base(files[0]))
}

func TestDiscover_DeduplicatesAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.jpg"))
	writeFile(t, filepath.Join(root, "a.jpg"))

	files := Discover([]string{
		filepath.Join(root, "b.jpg"),
		root,
		filepath.Join(root, "a.jpg"),
	}, false, discardLogger())

	require.Len(t, files, 2)
	assert.Equal(t, "a.jpg", filepath.Base(files[0]))
	assert.Equal(t, "b.jpg", filepath.Base(files[1]))
}

func TestDiscover_EmptyResult(t *testing.T) {
	files := Discover([]string{t.TempDir()}, true, discardLogger())
	assert.Empty(t, files)
}
