package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kkdai/youtube/v2"

	"github.com/codebuildervaibhav/yt-transcribe/internal/apperr"
	"github.com/codebuildervaibhav/yt-transcribe/internal/types"
)

// StreamClient is the subset of the video-source client used by StreamSource.
// *youtube.Client is the production implementation.
type StreamClient interface {
	GetVideoContext(ctx context.Context, id string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

var _ StreamClient = (*youtube.Client)(nil)

// StreamSource extracts the lowest-quality audio-only stream directly from
// the video source into a uniquely named temp file. The copy runs to
// completion before the asset is returned, so downstream readers never race
// an in-progress write.
type StreamSource struct {
	client  StreamClient
	tempDir string
}

// NewStreamSource creates the direct-extraction acquisition strategy.
func NewStreamSource(client StreamClient, tempDir string) *StreamSource {
	return &StreamSource{client: client, tempDir: tempDir}
}

// Acquire downloads the audio stream for ref into a temp file.
func (s *StreamSource) Acquire(ctx context.Context, ref types.VideoReference) (*Asset, error) {
	video, err := s.client.GetVideoContext(ctx, ref.ID)
	if err != nil {
		return nil, apperr.Errorf(apperr.KindAcquisitionFailed, err,
			"fetch stream info for %s", ref.ID)
	}

	format, err := lowestAudioFormat(video)
	if err != nil {
		return nil, err
	}

	stream, _, err := s.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, apperr.Errorf(apperr.KindAcquisitionFailed, err,
			"open audio stream for %s", ref.ID)
	}
	defer stream.Close()

	// uuid suffix keeps concurrent requests for the same video from colliding
	path := filepath.Join(s.tempDir, fmt.Sprintf("%s_%s.mp3", ref.ID, uuid.New().String()))

	out, err := os.Create(path)
	if err != nil {
		return nil, apperr.Errorf(apperr.KindAcquisitionFailed, err,
			"create temp file for %s", ref.ID)
	}

	written, err := io.Copy(out, stream)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
			log.Printf("Failed to cleanup temp file %s: %v", path, rerr)
		}
		return nil, apperr.Errorf(apperr.KindAcquisitionFailed, err,
			"write audio stream for %s", ref.ID)
	}

	return FileAsset(path, written), nil
}

// lowestAudioFormat picks the audio-only format with the smallest bitrate.
func lowestAudioFormat(video *youtube.Video) (*youtube.Format, error) {
	formats := video.Formats.Type("audio")
	if len(formats) == 0 {
		return nil, apperr.Errorf(apperr.KindAcquisitionFailed, nil,
			"no audio-only formats available for %s", video.ID)
	}

	best := &formats[0]
	for i := range formats {
		if formats[i].Bitrate < best.Bitrate {
			best = &formats[i]
		}
	}
	return best, nil
}
