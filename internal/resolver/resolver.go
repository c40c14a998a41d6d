package resolver

import (
	"regexp"

	"github.com/codebuildervaibhav/yt-transcribe/internal/apperr"
	"github.com/codebuildervaibhav/yt-transcribe/internal/types"
)

// YouTube video IDs are exactly 11 characters from this alphabet.
var (
	idPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	urlPattern = regexp.MustCompile(`(?:watch\?v=|youtu\.be/|/embed/|/v/)([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)
)

// Resolve normalizes a raw id or page URL into a canonical VideoReference.
// An explicit id is trusted as canonical; a URL must match one of the known
// shapes. No network calls are made here.
func Resolve(id, url string) (types.VideoReference, error) {
	if ValidID(id) {
		return types.VideoReference{
			ID:  id,
			URL: watchURL(id),
		}, nil
	}

	if url != "" {
		if m := urlPattern.FindStringSubmatch(url); m != nil {
			return types.VideoReference{
				ID:  m[1],
				URL: watchURL(m[1]),
			}, nil
		}
	}

	return types.VideoReference{}, apperr.Errorf(apperr.KindInvalidReference, nil,
		"missing or unrecognized video reference, pass ?id=VIDEO_ID or ?url=VIDEO_URL")
}

// ValidID reports whether s is a well-formed 11-character video ID.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
