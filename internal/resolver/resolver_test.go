package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebuildervaibhav/yt-transcribe/internal/apperr"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		id   string
		url  string
		want string
	}{
		{
			name: "explicit id",
			id:   "dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "watch URL",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "watch URL with extra query params",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s&list=PLx",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "short URL",
			url:  "https://youtu.be/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "short URL with query",
			url:  "https://youtu.be/dQw4w9WgXcQ?si=abc",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "embed URL",
			url:  "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "legacy /v/ URL",
			url:  "https://www.youtube.com/v/dQw4w9WgXcQ?version=3",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "id wins over url",
			id:   "aaaaaaaaaaa",
			url:  "https://youtu.be/dQw4w9WgXcQ",
			want: "aaaaaaaaaaa",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := Resolve(tt.id, tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.ID)
			assert.Equal(t, "https://www.youtube.com/watch?v="+tt.want, ref.URL)
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		url  string
	}{
		{name: "empty input"},
		{name: "malformed id", id: "short"},
		{name: "id with illegal characters", id: "dQw4w9WgX!Q"},
		{name: "unrelated URL", url: "https://example.com/watch"},
		{name: "channel URL", url: "https://www.youtube.com/c/somechannel"},
		{name: "truncated id in URL", url: "https://youtu.be/dQw4w9"},
		{name: "overlong token in URL", url: "https://youtu.be/dQw4w9WgXcQQQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.id, tt.url)
			require.Error(t, err)

			var pe *apperr.Error
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, apperr.KindInvalidReference, pe.Kind)
		})
	}
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("dQw4w9WgXcQ"))
	assert.True(t, ValidID("___________"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("dQw4w9WgXcQQ"))
	assert.False(t, ValidID("dQw4w9WgXc!"))
}
