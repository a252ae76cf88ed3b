package service

import (
	"context"
	"fmt"
	"strings"

	appErr "github.com/xxxsen/sitebrief/internal/pkg/errors"

	"github.com/xxxsen/sitebrief/internal/model"
	"github.com/xxxsen/sitebrief/internal/store"
)

const (
	defaultTopK = 5
	maxTopK     = 100
)

// SearchService is the semantic retriever: one query embedding, one KNN
// lookup, results ordered best match first.
type SearchService struct {
	store store.Store
}

func NewSearchService(st store.Store) *SearchService {
	return &SearchService{store: st}
}

func (s *SearchService) Search(ctx context.Context, query string, topK int, site string) ([]model.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, appErr.ErrInvalid
	}
	if topK <= 0 {
		topK = defaultTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}
	if err := s.store.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure index: %w", err)
	}
	hits, err := s.store.Search(ctx, query, topK, site)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return hits, nil
}
