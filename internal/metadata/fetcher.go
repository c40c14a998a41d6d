package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/codebuildervaibhav/yt-transcribe/internal/apperr"
	"github.com/codebuildervaibhav/yt-transcribe/internal/types"
)

// Fetcher retrieves video titles from an unauthenticated oEmbed-style
// endpoint keyed by the canonical watch URL.
type Fetcher struct {
	endpoint string
	client   *http.Client
}

// NewFetcher creates a metadata fetcher against the given endpoint.
func NewFetcher(endpoint string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type oembedResponse struct {
	Title string `json:"title"`
}

// Fetch returns the video metadata for ref. A non-2xx status, an unreadable
// body, or a missing title all count as MetadataUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, ref types.VideoReference) (types.VideoMetadata, error) {
	reqURL := fmt.Sprintf("%s?url=%s&format=json", f.endpoint, url.QueryEscape(ref.URL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.VideoMetadata{}, apperr.Errorf(apperr.KindMetadataUnavailable, err,
			"build metadata request for %s", ref.ID)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return types.VideoMetadata{}, apperr.Errorf(apperr.KindMetadataUnavailable, err,
			"metadata request for %s failed", ref.ID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.VideoMetadata{}, apperr.Errorf(apperr.KindMetadataUnavailable, nil,
			"metadata service returned status %d for %s", resp.StatusCode, ref.ID)
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.VideoMetadata{}, apperr.Errorf(apperr.KindMetadataUnavailable, err,
			"decode metadata response for %s", ref.ID)
	}

	if body.Title == "" {
		return types.VideoMetadata{}, apperr.Errorf(apperr.KindMetadataUnavailable, nil,
			"metadata response for %s has no title", ref.ID)
	}

	return types.VideoMetadata{Title: body.Title, URL: ref.URL}, nil
}
