package audio

import (
	"bytes"
	"io"
	"log"
	"os"
	"sync"
)

// Asset is the acquired audio payload, backed by either an in-memory buffer
// (redirect strategy) or a temp file (stream strategy). It is owned by a
// single pipeline invocation and must be released exactly once; Release is
// safe to call from deferred cleanup on any exit path.
type Asset struct {
	data []byte
	path string
	size int64

	release sync.Once
}

// BufferAsset wraps fully-downloaded audio bytes.
func BufferAsset(data []byte) *Asset {
	return &Asset{data: data, size: int64(len(data))}
}

// FileAsset wraps a temp file holding the audio. The asset takes ownership
// of the file and deletes it on Release.
func FileAsset(path string, size int64) *Asset {
	return &Asset{path: path, size: size}
}

// Open returns a fresh reader over the audio bytes.
func (a *Asset) Open() (io.ReadCloser, error) {
	if a.path != "" {
		return os.Open(a.path)
	}
	return io.NopCloser(bytes.NewReader(a.data)), nil
}

// Size returns the payload length in bytes.
func (a *Asset) Size() int64 {
	return a.size
}

// Path returns the backing file path, empty for buffered assets.
func (a *Asset) Path() string {
	return a.path
}

// Release frees the payload. Only the first call has any effect. Deletion
// failures are logged, never returned, so cleanup cannot mask a primary error.
func (a *Asset) Release() {
	a.release.Do(func() {
		a.data = nil
		if a.path == "" {
			return
		}
		if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to cleanup temp file %s: %v", a.path, err)
		}
	})
}
