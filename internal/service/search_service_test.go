package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/sitebrief/internal/model"
	appErr "github.com/xxxsen/sitebrief/internal/pkg/errors"
	"github.com/xxxsen/sitebrief/internal/store"
)

func newSearchFixture(t *testing.T, docs int) *SearchService {
	t.Helper()
	st := store.NewMemoryStore(fixedEmbedder{}, 3)
	for i := 0; i < docs; i++ {
		_, err := st.Save(context.Background(), "https://a.test/", "https://a.test/p", model.KindPage, "summary text")
		require.NoError(t, err)
	}
	return NewSearchService(st)
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	svc := newSearchFixture(t, 0)
	_, err := svc.Search(context.Background(), "", 5, "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestSearch_DefaultTopK(t *testing.T) {
	svc := newSearchFixture(t, 8)
	hits, err := svc.Search(context.Background(), "summary text", 0, "")
	require.NoError(t, err)
	require.Len(t, hits, defaultTopK)
}

func TestSearch_CapsTopK(t *testing.T) {
	svc := newSearchFixture(t, 3)
	hits, err := svc.Search(context.Background(), "summary text", maxTopK*10, "")
	require.NoError(t, err)
	require.Len(t, hits, 3)
}

func TestSearch_NoMatchesIsEmptyNotError(t *testing.T) {
	svc := newSearchFixture(t, 2)
	hits, err := svc.Search(context.Background(), "summary text", 5, "https://other.test/")
	require.NoError(t, err)
	require.Empty(t, hits)
}
