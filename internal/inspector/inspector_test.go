package inspector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	calls []string
	page  *PageData
	err   error
}

func (f *fakeRenderer) Render(_ context.Context, url string) (*PageData, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func TestAnalyzeCachesByURL(t *testing.T) {
	r := &fakeRenderer{page: &PageData{Meta: RawMetadata{DocumentTitle: "Cached"}}}
	insp := New(r, WithCache(time.Minute, time.Minute))

	first, err := insp.Analyze(context.Background(), "example.com")
	require.NoError(t, err)
	second, err := insp.Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, []string{"https://example.com"}, r.calls)
}

func TestAnalyzeWithoutCache(t *testing.T) {
	r := &fakeRenderer{page: &PageData{}}
	insp := New(r, WithCache(0, 0))

	_, err := insp.Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)
	_, err = insp.Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Len(t, r.calls, 2)
}

func TestAnalyzePropagatesErrors(t *testing.T) {
	r := &fakeRenderer{err: errors.Join(ErrNavigation, errors.New("timeout"))}
	insp := New(r)

	_, err := insp.Analyze(context.Background(), "https://slow.test")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNavigation)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://example.com/page", "https://example.com/page", false},
		{"  example.com  ", "https://example.com", false},
		{"http://localhost:3000", "http://localhost:3000", false},
		{"", "", true},
		{"ftp://example.com", "", true},
		{"https://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeRejectsInvalidURL(t *testing.T) {
	r := &fakeRenderer{}
	_, err := New(r).Analyze(context.Background(), "mailto:someone")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Empty(t, r.calls)
}
