package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/sitebrief/internal/clean"
	"github.com/xxxsen/sitebrief/internal/crawl"
	"github.com/xxxsen/sitebrief/internal/model"
	"github.com/xxxsen/sitebrief/internal/store"
)

// Fetcher is the crawl engine seam: a bounded same-domain traversal that
// hands back fetched pages with their raw markup.
type Fetcher interface {
	Run(ctx context.Context, startURL string, maxDepth, maxPages int) ([]crawl.Page, error)
}

// Summarizer generates per-page and roll-up summaries.
type Summarizer interface {
	SummarizePage(ctx context.Context, pageURL string, text string) (string, error)
	SummarizeRun(ctx context.Context, combined string) (string, error)
}

// CrawlService drives one crawl run: fetch pages, clean and summarize each,
// persist page documents, then persist one roll-up document. Any failure
// aborts the whole run; there is no partial-success reporting.
type CrawlService struct {
	fetcher    Fetcher
	summarizer Summarizer
	store      store.Store
}

func NewCrawlService(fetcher Fetcher, summarizer Summarizer, st store.Store) *CrawlService {
	return &CrawlService{fetcher: fetcher, summarizer: summarizer, store: st}
}

func (s *CrawlService) CrawlAndIndex(ctx context.Context, req model.CrawlRequest) (*model.CrawlResult, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("site", req.URL))
	if err := s.store.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure index: %w", err)
	}
	// The run's site is the starting URL verbatim.
	site := req.URL

	pages, err := s.fetcher.Run(ctx, req.URL, req.MaxDepth, req.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("crawl: %w", err)
	}

	entries := make([]model.CrawlPage, 0, len(pages))
	for _, page := range pages {
		// Pages without markup are skipped, not an error.
		if strings.TrimSpace(page.HTML) == "" {
			continue
		}
		text := clean.Text(page.HTML)
		summary, err := s.summarizer.SummarizePage(ctx, page.URL, text)
		if err != nil {
			return nil, fmt.Errorf("summarize page %s: %w", page.URL, err)
		}
		id, err := s.store.Save(ctx, site, page.URL, model.KindPage, summary)
		if err != nil {
			return nil, fmt.Errorf("save page %s: %w", page.URL, err)
		}
		entries = append(entries, model.CrawlPage{ID: id, URL: page.URL, Summary: summary})
		logger.Info("page indexed", zap.String("page_url", page.URL), zap.String("doc_id", id))
	}

	combined := make([]string, 0, len(entries))
	for _, entry := range entries {
		combined = append(combined, entry.Summary)
	}
	finalSummary, err := s.summarizer.SummarizeRun(ctx, strings.Join(combined, "\n\n"))
	if err != nil {
		return nil, fmt.Errorf("summarize run: %w", err)
	}
	finalID, err := s.store.Save(ctx, site, "", model.KindFinal, finalSummary)
	if err != nil {
		return nil, fmt.Errorf("save final summary: %w", err)
	}
	logger.Info("crawl run indexed",
		zap.Int("pages", len(entries)),
		zap.String("final_doc_id", finalID),
	)

	return &model.CrawlResult{
		Pages:        entries,
		FinalSummary: model.FinalSummary{ID: finalID, Summary: finalSummary},
	}, nil
}
