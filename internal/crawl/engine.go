package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	colly "github.com/gocolly/colly/v2"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Page is one fetched page as handed back by the crawl engine. HTML may be
// empty when the response was not an HTML document.
type Page struct {
	URL  string
	HTML string
}

type Config struct {
	RequestTimeout time.Duration
	UserAgent      string
}

// Engine wraps a colly collector into a bounded breadth-first crawl. The
// traversal never leaves the starting domain.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	return &Engine{cfg: cfg}
}

// Run crawls from startURL, following same-domain links up to maxDepth hops
// and collecting at most maxPages pages. Individual fetch failures are
// logged and skipped; Run only fails when the start URL is unusable.
func (e *Engine) Run(ctx context.Context, startURL string, maxDepth, maxPages int) ([]Page, error) {
	start, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("parse start url: %w", err)
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %q", start.Scheme)
	}
	if start.Hostname() == "" {
		return nil, fmt.Errorf("start url has no host")
	}
	if maxDepth < 0 {
		maxDepth = 0
	}
	if maxPages <= 0 {
		maxPages = 1
	}

	opts := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		// colly counts the start request as depth 1; maxDepth here counts
		// link hops from the start URL.
		colly.MaxDepth(maxDepth + 1),
		colly.Async(true),
		colly.AllowedDomains(allowedDomains(start.Hostname())...),
	}
	if e.cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(e.cfg.UserAgent))
	}
	collector := colly.NewCollector(opts...)
	collector.SetRequestTimeout(e.cfg.RequestTimeout)

	var mu sync.Mutex
	pages := make([]Page, 0, maxPages)

	collector.OnResponse(func(r *colly.Response) {
		contentType := strings.ToLower(r.Headers.Get("Content-Type"))
		if contentType != "" && !strings.Contains(contentType, "html") {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if len(pages) >= maxPages {
			return
		}
		pages = append(pages, Page{
			URL:  r.Request.URL.String(),
			HTML: string(r.Body),
		})
	})

	collector.OnHTML("a[href]", func(el *colly.HTMLElement) {
		mu.Lock()
		full := len(pages) >= maxPages
		mu.Unlock()
		if full {
			return
		}
		link := el.Request.AbsoluteURL(el.Attr("href"))
		if link == "" {
			return
		}
		// Visit errors (revisits, filtered domains, depth limit) just mean
		// the link is not followed.
		_ = el.Request.Visit(link)
	})

	collector.OnError(func(r *colly.Response, visitErr error) {
		logutil.GetLogger(ctx).Warn("page fetch failed",
			zap.String("url", r.Request.URL.String()),
			zap.Error(visitErr),
		)
	})

	if err := collector.Visit(start.String()); err != nil {
		return nil, fmt.Errorf("start crawl: %w", err)
	}
	collector.Wait()

	logutil.GetLogger(ctx).Info("crawl finished",
		zap.String("start_url", start.String()),
		zap.Int("pages", len(pages)),
	)
	return pages, nil
}

// allowedDomains returns the start host plus its www twin so both spellings
// of the same site stay in scope.
func allowedDomains(host string) []string {
	bare := strings.TrimPrefix(host, "www.")
	if bare == host {
		return []string{host, "www." + host}
	}
	return []string{bare, host}
}
