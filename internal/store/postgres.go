package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/xxxsen/sitebrief/internal/ai"
	"github.com/xxxsen/sitebrief/internal/model"
)

// PostgresStore is the pgvector-backed document store. One flat row per
// document keeps the embedding next to its metadata, so a single query can
// filter on site and rank by cosine distance.
type PostgresStore struct {
	db       *sqlx.DB
	embedder ai.IEmbedder
	dim      int
}

func NewPostgresStore(dsn string, embedder ai.IEmbedder, dim int) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresStore{db: db, embedder: embedder, dim: dim}, nil
}

func (s *PostgresStore) EnsureIndex(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			site TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			summary TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, s.dim),
		`CREATE INDEX IF NOT EXISTS documents_embedding_idx
			ON documents USING hnsw (embedding vector_cosine_ops)`,
		`CREATE INDEX IF NOT EXISTS documents_site_idx ON documents (site)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, site, url, kind, summary string) (string, error) {
	vec, err := s.embedder.Embed(ctx, summary, ai.TaskRetrievalDocument)
	if err != nil {
		return "", fmt.Errorf("embed summary: %w", err)
	}
	if err := checkDimension(vec, s.dim); err != nil {
		return "", err
	}
	id := uuid.NewString()
	const query = `
		INSERT INTO documents (id, site, url, kind, summary, created_at, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		id, site, url, kind, summary, time.Now().Unix(), pgvector.NewVector(vec),
	)
	if err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Search(ctx context.Context, query string, topK int, site string) ([]model.SearchHit, error) {
	qvec, err := s.embedder.Embed(ctx, query, ai.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	const stmt = `
		SELECT id, site, url, kind, summary, created_at, embedding <=> $1 AS score
		FROM documents
		WHERE ($2 = '' OR site = $2)
		ORDER BY embedding <=> $1
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, stmt, pgvector.NewVector(qvec), site, topK)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}
	defer rows.Close()

	hits := make([]model.SearchHit, 0, topK)
	for rows.Next() {
		var hit model.SearchHit
		if err := rows.Scan(&hit.ID, &hit.Site, &hit.URL, &hit.Kind, &hit.Summary, &hit.CreatedAt, &hit.Score); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hits: %w", err)
	}
	return hits, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
