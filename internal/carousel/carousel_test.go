package carousel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func urls(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("http://backend.test/api/date/20240915/maps/general/%d", i)
	}
	return out
}

func TestCarousel_PrevWrapsToLast(t *testing.T) {
	c := New(urls(3))
	c.Prev()
	assert.Equal(t, 2, c.Index)
	assert.True(t, c.Loading)
}

func TestCarousel_NextWrapsToFirst(t *testing.T) {
	c := New(urls(3))
	require.NoError(t, c.Select(2))
	c.Next()
	assert.Equal(t, 0, c.Index)
}

func TestCarousel_NextPrevOnEmptySet(t *testing.T) {
	c := New(nil)
	c.Next()
	c.Prev()
	assert.Equal(t, 0, c.Index)
	assert.Empty(t, c.Current())
	assert.Empty(t, c.Counter())
}

func TestCarousel_SetImagesResets(t *testing.T) {
	c := New(urls(5))
	require.NoError(t, c.Select(3))
	c.Loaded(c.Current())
	require.False(t, c.Loading)

	c.SetImages(urls(2))
	assert.Equal(t, 0, c.Index)
	assert.True(t, c.Loading)
}

func TestCarousel_SelectOutOfRange(t *testing.T) {
	c := New(urls(2))
	require.ErrorIs(t, c.Select(2), ErrOutOfRange)
	require.Error(t, c.Select(-1))
	assert.Equal(t, 0, c.Index)
}

func TestCarousel_LoadEvents(t *testing.T) {
	c := New(urls(3))
	stale := c.Current()
	c.Next()

	c.Loaded(stale)
	assert.True(t, c.Loading, "events for a superseded image are ignored")

	c.Failed(c.Current())
	assert.False(t, c.Loading)
	assert.True(t, c.Broken)

	c.Next()
	assert.True(t, c.Loading)
	assert.False(t, c.Broken)
	c.Loaded(c.Current())
	assert.False(t, c.Loading)
}

func TestCarousel_Strip(t *testing.T) {
	tests := []struct {
		n    int
		want Strip
	}{
		{0, StripNone},
		{1, StripNone},
		{2, StripThumbnails},
		{10, StripThumbnails},
		{11, StripDots},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			assert.Equal(t, tt.want, New(urls(tt.n)).Strip())
		})
	}
}

func TestCarousel_Counter(t *testing.T) {
	c := New(urls(4))
	c.Next()
	assert.Equal(t, "2 / 4", c.Counter())
	assert.True(t, c.HasArrows())
	assert.False(t, New(urls(1)).HasArrows())
}
