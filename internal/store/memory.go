package store

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xxxsen/sitebrief/internal/ai"
	"github.com/xxxsen/sitebrief/internal/model"
)

// MemoryStore keeps documents in process memory. It backs the store-less
// pipeline mode and the tests; nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	docs     []model.Document
	embedder ai.IEmbedder
	dim      int
}

func NewMemoryStore(embedder ai.IEmbedder, dim int) *MemoryStore {
	return &MemoryStore{embedder: embedder, dim: dim}
}

func (s *MemoryStore) EnsureIndex(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Save(ctx context.Context, site, url, kind, summary string) (string, error) {
	vec, err := s.embedder.Embed(ctx, summary, ai.TaskRetrievalDocument)
	if err != nil {
		return "", err
	}
	if err := checkDimension(vec, s.dim); err != nil {
		return "", err
	}
	doc := model.Document{
		ID:        uuid.NewString(),
		Site:      site,
		URL:       url,
		Kind:      kind,
		Summary:   summary,
		CreatedAt: time.Now().Unix(),
		Vector:    vec,
	}
	s.mu.Lock()
	s.docs = append(s.docs, doc)
	s.mu.Unlock()
	return doc.ID, nil
}

func (s *MemoryStore) Search(ctx context.Context, query string, topK int, site string) ([]model.SearchHit, error) {
	qvec, err := s.embedder.Embed(ctx, query, ai.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	hits := make([]model.SearchHit, 0, len(s.docs))
	for _, doc := range s.docs {
		if site != "" && doc.Site != site {
			continue
		}
		hits = append(hits, model.SearchHit{
			ID:        doc.ID,
			Site:      doc.Site,
			URL:       doc.URL,
			Kind:      doc.Kind,
			Summary:   doc.Summary,
			CreatedAt: doc.CreatedAt,
			Score:     cosineDistance(qvec, doc.Vector),
		})
	}
	s.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score < hits[j].Score
	})
	if topK >= 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len reports the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Docs returns a snapshot of all stored documents.
func (s *MemoryStore) Docs() []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// cosineDistance is 1 minus cosine similarity, matching the ascending-order
// contract of the other backends.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
