package audio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferAsset(t *testing.T) {
	a := BufferAsset([]byte("audio bytes"))
	assert.Equal(t, int64(11), a.Size())
	assert.Empty(t, a.Path())

	r, err := a.Open()
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "audio bytes", string(data))

	a.Release()
	a.Release() // idempotent
}

func TestFileAssetRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(path, []byte("mp3data"), 0644))

	a := FileAsset(path, 7)
	assert.Equal(t, path, a.Path())

	r, err := a.Open()
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	r.Close()
	assert.Equal(t, "mp3data", string(data))

	a.Release()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// second release must not error or panic on the missing file
	a.Release()
}

func TestFileAssetReleaseMissingFile(t *testing.T) {
	a := FileAsset(filepath.Join(t.TempDir(), "never-created.mp3"), 0)
	a.Release()
}
