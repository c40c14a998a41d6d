package audio

import (
	"context"

	"github.com/codebuildervaibhav/yt-transcribe/internal/types"
)

// Strategy names, used in config and history records.
const (
	StrategyRedirect = "redirect"
	StrategyStream   = "stream"
)

// Source obtains the raw audio payload for a resolved video. Exactly one
// implementation is active per deployment.
type Source interface {
	Acquire(ctx context.Context, ref types.VideoReference) (*Asset, error)
}

var (
	_ Source = (*RedirectSource)(nil)
	_ Source = (*StreamSource)(nil)
)
