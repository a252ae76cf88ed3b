package model

// Document kinds.
const (
	KindPage  = "page"
	KindFinal = "final"
)

// Document is one persisted summary record with its embedding vector.
// Documents are write-once: the only mutation is creation. Final documents
// carry no URL.
type Document struct {
	ID        string    `json:"id"`
	Site      string    `json:"site"`
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	Summary   string    `json:"summary"`
	CreatedAt int64     `json:"created_at"`
	Vector    []float32 `json:"-"`
}

// SearchHit is a retrieved document plus the verbatim distance reported by
// the index. Lower score means a closer match.
type SearchHit struct {
	ID        string  `json:"id"`
	Site      string  `json:"site"`
	URL       string  `json:"url"`
	Kind      string  `json:"kind"`
	Summary   string  `json:"summary"`
	CreatedAt int64   `json:"created_at"`
	Score     float64 `json:"score"`
}

// CrawlRequest bounds one crawl run. Links leaving the starting domain are
// never followed.
type CrawlRequest struct {
	URL      string
	MaxDepth int
	MaxPages int
}

type CrawlPage struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

type FinalSummary struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

type CrawlResult struct {
	Pages        []CrawlPage  `json:"pages"`
	FinalSummary FinalSummary `json:"final_summary"`
}
