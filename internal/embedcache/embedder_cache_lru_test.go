package embedcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	return []float32{1, 2, 3}, nil
}

func (c *countingEmbedder) ModelName() string { return "counting" }

func TestWrapLruCacheToEmbedder_CachesRepeatCalls(t *testing.T) {
	inner := &countingEmbedder{}
	cached := WrapLruCacheToEmbedder(inner, 10, time.Hour)
	ctx := context.Background()

	first, err := cached.Embed(ctx, "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	second, err := cached.Embed(ctx, "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.calls)

	// Different task type is a different cache entry.
	_, err = cached.Embed(ctx, "hello", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)

	// Mutating a returned slice must not poison the cache.
	first[0] = 99
	third, err := cached.Embed(ctx, "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2, 3}, third)
	require.Equal(t, 2, inner.calls)
}

func TestWrapLruCacheToEmbedder_DisabledPassthrough(t *testing.T) {
	inner := &countingEmbedder{}
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 0, time.Hour))
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 10, 0))
	require.Nil(t, WrapLruCacheToEmbedder(nil, 10, time.Hour))
}

func TestWrapLruCacheToEmbedder_ModelName(t *testing.T) {
	cached := WrapLruCacheToEmbedder(&countingEmbedder{}, 10, time.Hour)
	require.Equal(t, "counting", cached.ModelName())
}
