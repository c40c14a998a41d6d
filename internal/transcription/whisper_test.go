package transcription

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebuildervaibhav/yt-transcribe/internal/apperr"
	"github.com/codebuildervaibhav/yt-transcribe/internal/audio"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data", mediaType)
		require.NotEmpty(t, params["boundary"])

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "dQw4w9WgXcQ.mp3", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake mp3 bytes", string(data))

		w.Write([]byte(`{
			"text": "We're no strangers to love",
			"segments": [{"start": 0, "end": 2.5, "text": "We're no strangers to love"}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", "whisper-1", time.Second)
	asset := audio.BufferAsset([]byte("fake mp3 bytes"))
	defer asset.Release()

	result, err := c.Transcribe(context.Background(), asset, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "We're no strangers to love", result.Text)
	require.Len(t, result.Segments, 1)
	assert.Equal(t, 2.5, result.Segments[0].End)
}

func TestTranscribeStreamsFileAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// piped upload, not a pre-buffered body
		assert.Less(t, r.ContentLength, int64(0))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "dQw4w9WgXcQ.mp3", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "file-backed audio", string(data))

		w.Write([]byte(`{"text":"ok","segments":[]}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(path, []byte("file-backed audio"), 0644))

	c := NewClient(srv.URL, "sk-test", "whisper-1", time.Second)
	asset := audio.FileAsset(path, 17)
	defer asset.Release()

	result, err := c.Transcribe(context.Background(), asset, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
}

func TestTranscribeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-bad", "whisper-1", time.Second)
	asset := audio.BufferAsset([]byte("x"))
	defer asset.Release()

	_, err := c.Transcribe(context.Background(), asset, "dQw4w9WgXcQ")
	require.Error(t, err)
	assert.Equal(t, apperr.KindTranscriptionFailed, apperr.KindOf(err))
	// status and body preserved for diagnostics
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Incorrect API key")
}

func TestTranscribeMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", "whisper-1", time.Second)
	asset := audio.BufferAsset([]byte("x"))
	defer asset.Release()

	_, err := c.Transcribe(context.Background(), asset, "dQw4w9WgXcQ")
	require.Error(t, err)
	assert.Equal(t, apperr.KindTranscriptionFailed, apperr.KindOf(err))
}
