package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/codebuildervaibhav/yt-transcribe/internal/apperr"
	"github.com/codebuildervaibhav/yt-transcribe/internal/audio"
	"github.com/codebuildervaibhav/yt-transcribe/internal/types"
)

const maxErrorBodyBytes = 2048

// Client submits acquired audio to the Whisper transcription API and parses
// the verbose response into timestamped segments.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
}

// NewClient creates a transcription client. The API key is injected here so
// the client never touches the process environment.
func NewClient(endpoint, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		http:     &http.Client{Timeout: timeout},
	}
}

// whisperResponse matches the verbose_json response shape.
type whisperResponse struct {
	Text     string          `json:"text"`
	Segments []types.Segment `json:"segments"`
}

// Result is the raw parsed transcription before rendering.
type Result struct {
	Text     string
	Segments []types.Segment
}

// Transcribe uploads the asset as {videoID}.mp3 and returns the parsed
// transcript. The asset is read, not released; release stays with the caller.
// The multipart body is streamed through a pipe, so a file-backed asset is
// never buffered whole in memory.
func (c *Client) Transcribe(ctx context.Context, asset *audio.Asset, videoID string) (*Result, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(c.writeUpload(mw, asset, videoID))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, pr)
	if err != nil {
		pr.Close() // unblock the writer goroutine
		return nil, apperr.Errorf(apperr.KindTranscriptionFailed, err,
			"build transcription request for %s", videoID)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Errorf(apperr.KindTranscriptionFailed, err,
			"transcription request for %s failed", videoID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, apperr.Errorf(apperr.KindTranscriptionFailed, nil,
			"transcription service returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperr.Errorf(apperr.KindTranscriptionFailed, err,
			"decode transcription response for %s", videoID)
	}

	return &Result{Text: parsed.Text, Segments: parsed.Segments}, nil
}

// writeUpload streams the multipart body into mw: the audio file plus the
// model and response_format fields.
func (c *Client) writeUpload(mw *multipart.Writer, asset *audio.Asset, videoID string) error {
	r, err := asset.Open()
	if err != nil {
		return fmt.Errorf("open audio asset: %w", err)
	}
	defer r.Close()

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s.mp3"`, videoID))
	header.Set("Content-Type", "audio/mpeg")

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy audio data: %w", err)
	}

	if err := mw.WriteField("model", c.model); err != nil {
		return fmt.Errorf("write model field: %w", err)
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return fmt.Errorf("write response_format field: %w", err)
	}

	return mw.Close()
}

// FormatSegments renders segments as "[HH:MM:SS - HH:MM:SS] text" blocks
// separated by blank lines. Pure function of its input; zero segments render
// as the empty string.
func FormatSegments(segments []types.Segment) string {
	if len(segments) == 0 {
		return ""
	}

	blocks := make([]string, len(segments))
	for i, seg := range segments {
		blocks[i] = fmt.Sprintf("[%s - %s] %s",
			formatTimestamp(seg.Start), formatTimestamp(seg.End), seg.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// formatTimestamp converts non-negative seconds to zero-padded HH:MM:SS,
// flooring fractional parts.
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	hrs := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hrs, mins, secs)
}
