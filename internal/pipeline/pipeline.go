package pipeline

import (
	"context"
	"log"

	"github.com/codebuildervaibhav/yt-transcribe/internal/audio"
	"github.com/codebuildervaibhav/yt-transcribe/internal/resolver"
	"github.com/codebuildervaibhav/yt-transcribe/internal/transcription"
	"github.com/codebuildervaibhav/yt-transcribe/internal/types"
)

// Metadata-failure policies. Strict fails the whole request; sentinel
// substitutes a placeholder title and carries on.
const (
	PolicyStrict   = "strict"
	PolicySentinel = "sentinel"

	sentinelTitle = "Unknown Video"
	sourceWhisper = "whisper"
)

// MetadataFetcher supplies the video title for a resolved reference.
type MetadataFetcher interface {
	Fetch(ctx context.Context, ref types.VideoReference) (types.VideoMetadata, error)
}

// Transcriber converts an acquired audio asset into a raw transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, asset *audio.Asset, videoID string) (*transcription.Result, error)
}

// Options tune per-deployment pipeline behavior.
type Options struct {
	// MetadataPolicy is PolicyStrict or PolicySentinel.
	MetadataPolicy string
	// IncludeSource adds `"source": "whisper"` to the transcript block.
	IncludeSource bool
}

// Pipeline runs one request through resolve, metadata, acquisition and
// transcription. It holds no per-request state; concurrent Runs are
// independent.
type Pipeline struct {
	meta        MetadataFetcher
	source      audio.Source
	transcriber Transcriber
	opts        Options
}

// New wires a pipeline from its collaborators.
func New(meta MetadataFetcher, source audio.Source, transcriber Transcriber, opts Options) *Pipeline {
	if opts.MetadataPolicy == "" {
		opts.MetadataPolicy = PolicyStrict
	}
	return &Pipeline{
		meta:        meta,
		source:      source,
		transcriber: transcriber,
		opts:        opts,
	}
}

// Run executes the pipeline for one request. The first failing stage
// short-circuits the rest. The acquired asset is released on every exit path,
// including cancellation, via the deferred Release.
func (p *Pipeline) Run(ctx context.Context, id, url string) (*types.Result, error) {
	ref, err := resolver.Resolve(id, url)
	if err != nil {
		return nil, err
	}

	meta, err := p.meta.Fetch(ctx, ref)
	if err != nil {
		if p.opts.MetadataPolicy != PolicySentinel {
			return nil, err
		}
		log.Printf("Metadata unavailable for %s, continuing with sentinel title: %v", ref.ID, err)
		meta = types.VideoMetadata{Title: sentinelTitle, URL: ref.URL}
	}

	asset, err := p.source.Acquire(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer asset.Release()

	log.Printf("Acquired %d bytes of audio for %s", asset.Size(), ref.ID)

	raw, err := p.transcriber.Transcribe(ctx, asset, ref.ID)
	if err != nil {
		return nil, err
	}

	segments := raw.Segments
	if segments == nil {
		segments = []types.Segment{}
	}

	transcript := types.Transcript{
		Full:      raw.Text,
		Formatted: transcription.FormatSegments(segments),
		Segments:  segments,
	}
	if p.opts.IncludeSource {
		transcript.Source = sourceWhisper
	}

	return &types.Result{
		Success: true,
		Video: types.Video{
			ID:    ref.ID,
			Title: meta.Title,
			URL:   meta.URL,
		},
		Transcript: transcript,
	}, nil
}
