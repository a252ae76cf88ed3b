package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/sitebrief/internal/ai"
	"github.com/xxxsen/sitebrief/internal/config"
	"github.com/xxxsen/sitebrief/internal/model"
)

const (
	redisIndexName = "idx:pages"
	redisKeyPrefix = "hdoc:"

	connectTimeout = 5 * time.Second
)

// HNSW graph parameters for the vector field.
const (
	hnswM              = 16
	hnswEFConstruction = 200
)

// RedisStore keeps each document as one hash under a reserved key prefix and
// serves KNN retrieval through a RediSearch HNSW index over the same hashes.
// Keeping vector and metadata fields in the same record lets a single query
// pre-filter on metadata and rank by vector distance.
type RedisStore struct {
	client   *redis.Client
	embedder ai.IEmbedder
	dim      int
}

func NewRedisStore(cfg config.RedisConfig, embedder ai.IEmbedder, dim int) (*RedisStore, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client, embedder: embedder, dim: dim}, nil
}

// NewRedisStoreWithClient wires an existing client, used by tests.
func NewRedisStoreWithClient(client *redis.Client, embedder ai.IEmbedder, dim int) *RedisStore {
	return &RedisStore{client: client, embedder: embedder, dim: dim}
}

func (s *RedisStore) EnsureIndex(ctx context.Context) error {
	// FT.INFO failing is treated as "index absent".
	if _, err := s.client.FTInfo(ctx, redisIndexName).Result(); err == nil {
		return nil
	}
	_, err := s.client.FTCreate(ctx, redisIndexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []interface{}{redisKeyPrefix},
		},
		&redis.FieldSchema{FieldName: "id", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "site", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "url", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "kind", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "summary", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "created_at", FieldType: redis.SearchFieldTypeNumeric},
		&redis.FieldSchema{
			FieldName: "vector",
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				HNSWOptions: &redis.FTHNSWOptions{
					Type:                   "FLOAT32",
					Dim:                    s.dim,
					DistanceMetric:         "COSINE",
					MaxEdgesPerNode:        hnswM,
					MaxAllowedEdgesPerNode: hnswEFConstruction,
				},
			},
		},
	).Result()
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	logutil.GetLogger(ctx).Info("vector index created",
		zap.String("index", redisIndexName),
		zap.Int("dim", s.dim),
	)
	return nil
}

func (s *RedisStore) Save(ctx context.Context, site, url, kind, summary string) (string, error) {
	vec, err := s.embedder.Embed(ctx, summary, ai.TaskRetrievalDocument)
	if err != nil {
		return "", fmt.Errorf("embed summary: %w", err)
	}
	if err := checkDimension(vec, s.dim); err != nil {
		return "", err
	}
	id := uuid.NewString()
	key := redisKeyPrefix + id
	fields := map[string]interface{}{
		"id":         id,
		"site":       site,
		"url":        url,
		"kind":       kind,
		"summary":    summary,
		"created_at": time.Now().Unix(),
		"vector":     encodeVector(vec),
	}
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Search(ctx context.Context, query string, topK int, site string) ([]model.SearchHit, error) {
	qvec, err := s.embedder.Embed(ctx, query, ai.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	expr := fmt.Sprintf("*=>[KNN %d @vector $vec AS score]", topK)
	if site != "" {
		expr = fmt.Sprintf("@site:(%s) %s", escapeQueryTerm(site), expr)
	}
	res, err := s.client.FTSearchWithArgs(ctx, redisIndexName, expr,
		&redis.FTSearchOptions{
			Return: []redis.FTSearchReturn{
				{FieldName: "id"},
				{FieldName: "site"},
				{FieldName: "url"},
				{FieldName: "kind"},
				{FieldName: "summary"},
				{FieldName: "created_at"},
				{FieldName: "score"},
			},
			SortBy:         []redis.FTSearchSortBy{{FieldName: "score", Asc: true}},
			Limit:          topK,
			Params:         map[string]interface{}{"vec": encodeVector(qvec)},
			DialectVersion: 2,
		},
	).Result()
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	hits := make([]model.SearchHit, 0, len(res.Docs))
	for _, doc := range res.Docs {
		hit := model.SearchHit{
			ID:      strings.TrimPrefix(doc.ID, redisKeyPrefix),
			Site:    doc.Fields["site"],
			URL:     doc.Fields["url"],
			Kind:    doc.Fields["kind"],
			Summary: doc.Fields["summary"],
		}
		if raw := doc.Fields["created_at"]; raw != "" {
			hit.CreatedAt, _ = strconv.ParseInt(raw, 10, 64)
		}
		if raw := doc.Fields["score"]; raw != "" {
			hit.Score, _ = strconv.ParseFloat(raw, 64)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// escapeQueryTerm backslash-escapes RediSearch query punctuation so a site
// URL matches literally instead of being parsed as query syntax.
func escapeQueryTerm(term string) string {
	var b strings.Builder
	for _, r := range term {
		if strings.ContainsRune(`,.<>{}[]"':;!@#$%^&*()-+=~/\| `, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
