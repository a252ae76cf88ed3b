package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/xxxsen/sitebrief/internal/ai"
	"github.com/xxxsen/sitebrief/internal/config"
	"github.com/xxxsen/sitebrief/internal/model"
)

// Store persists documents and serves K-nearest-neighbor retrieval over
// their embedding vectors. Documents are write-once; there is no update or
// delete operation.
type Store interface {
	// EnsureIndex creates the similarity index if absent. Idempotent and
	// safe to call before every operation.
	EnsureIndex(ctx context.Context) error
	// Save embeds summary, assigns a fresh id and writes the document as one
	// atomic unit. Returns the new document id.
	Save(ctx context.Context, site, url, kind, summary string) (string, error)
	// Search embeds query and returns up to topK hits ordered by ascending
	// distance. A non-empty site restricts candidates to that exact site.
	// No matching documents yields an empty slice, not an error.
	Search(ctx context.Context, query string, topK int, site string) ([]model.SearchHit, error)
	Close() error
}

// New builds the store selected by cfg.Type. The embedder fixes the vector
// dimension for every document written through this store.
func New(cfg config.StoreConfig, embedder ai.IEmbedder, dim int) (Store, error) {
	switch cfg.Type {
	case "redis":
		return NewRedisStore(cfg.Redis, embedder, dim)
	case "postgres":
		return NewPostgresStore(cfg.Postgres.DSN, embedder, dim)
	case "memory":
		return NewMemoryStore(embedder, dim), nil
	default:
		return nil, fmt.Errorf("store.type must be redis, postgres or memory")
	}
}

// encodeVector serializes an embedding as a little-endian float32 blob, the
// layout RediSearch expects for FLOAT32 vector fields.
func encodeVector(values []float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func checkDimension(values []float32, dim int) error {
	if dim > 0 && len(values) != dim {
		return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(values), dim)
	}
	return nil
}
