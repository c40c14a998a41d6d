package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/codebuildervaibhav/yt-transcribe/internal/apperr"
	"github.com/codebuildervaibhav/yt-transcribe/internal/types"
)

// RedirectSource asks an external resolution service for a direct,
// time-limited audio URL and downloads it fully into memory.
type RedirectSource struct {
	endpoint string
	client   *http.Client
	download *http.Client
}

// NewRedirectSource creates the redirect-service acquisition strategy.
// resolveTimeout bounds the resolution call, downloadTimeout the audio fetch.
func NewRedirectSource(endpoint string, resolveTimeout, downloadTimeout time.Duration) *RedirectSource {
	return &RedirectSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: resolveTimeout},
		download: &http.Client{Timeout: downloadTimeout},
	}
}

type resolveResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// Acquire resolves a direct audio URL for ref and buffers its bytes.
func (s *RedirectSource) Acquire(ctx context.Context, ref types.VideoReference) (*Asset, error) {
	directURL, err := s.resolveDirectURL(ctx, ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, directURL, nil)
	if err != nil {
		return nil, apperr.Errorf(apperr.KindAcquisitionFailed, err,
			"build audio download request for %s", ref.ID)
	}

	resp, err := s.download.Do(req)
	if err != nil {
		return nil, apperr.Errorf(apperr.KindAcquisitionFailed, err,
			"audio download for %s failed", ref.ID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Errorf(apperr.KindAcquisitionFailed, nil,
			"audio download for %s returned status %d", ref.ID, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Errorf(apperr.KindAcquisitionFailed, err,
			"read audio body for %s", ref.ID)
	}

	return BufferAsset(data), nil
}

func (s *RedirectSource) resolveDirectURL(ctx context.Context, ref types.VideoReference) (string, error) {
	reqURL := fmt.Sprintf("%s?url=%s", s.endpoint, url.QueryEscape(ref.URL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", apperr.Errorf(apperr.KindAcquisitionFailed, err,
			"build resolver request for %s", ref.ID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperr.Errorf(apperr.KindAcquisitionFailed, err,
			"resolver request for %s failed", ref.ID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Errorf(apperr.KindAcquisitionFailed, nil,
			"resolver returned status %d for %s", resp.StatusCode, ref.ID)
	}

	var body resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperr.Errorf(apperr.KindAcquisitionFailed, err,
			"decode resolver response for %s", ref.ID)
	}

	if !body.Success || body.URL == "" {
		return "", apperr.Errorf(apperr.KindAcquisitionFailed, nil,
			"resolver could not extract an audio URL for %s", ref.ID)
	}

	return body.URL, nil
}
